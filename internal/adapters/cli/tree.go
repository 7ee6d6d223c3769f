package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	plannerQuery "github.com/craftplan/craftplan-go/internal/application/planner/queries"
)

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	var (
		entryIndex int
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "tree <list-id>",
		Short: "Show the material tree for a list entry",
		Long: `Render the fully expanded recipe tree for one entry of a crafting
list, with per-node quantities and selected recipes.

Examples:
  craftplan tree tier-3-workshop-a1b2c3d4 --entry 0
  craftplan tree tier-3-workshop-a1b2c3d4 --entry 2 --no-color`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args[0], entryIndex, !noColor)
		},
	}

	cmd.Flags().IntVar(&entryIndex, "entry", 0, "Entry index within the list")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")

	return cmd
}

func runTree(listID string, entryIndex int, useColors bool) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	response, err := app.Mediator.Send(app.Context(), &plannerQuery.GetMaterialTreeQuery{
		ListID:     listID,
		EntryIndex: entryIndex,
	})
	if err != nil {
		return err
	}

	result := response.(*plannerQuery.GetMaterialTreeResponse)

	for _, diagnostic := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s\n", diagnostic)
	}

	if result.Tree == nil {
		fmt.Printf("Entry %d (%s) did not resolve to a material tree\n", entryIndex, result.Entry.Key())
		return nil
	}

	formatter := NewTreeFormatter(useColors)
	fmt.Print(formatter.FormatTree(result.Tree))
	fmt.Printf("\n%d nodes, depth %d\n", result.Tree.CountNodes(), result.Tree.TotalDepth())
	return nil
}
