package main

import (
	"github.com/craftplan/craftplan-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
