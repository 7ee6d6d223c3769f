package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "craftplan",
		Short: "Craftplan CLI - Plan crafting lists and material requirements",
		Long: `Craftplan computes the full tree of intermediate materials needed for a
crafting list and propagates on-hand inventory through it, so you always
know what is left to gather or craft.

Examples:
  craftplan catalog search "iron ingot"
  craftplan list create --name "Tier 3 workshop"
  craftplan list add tier-3-workshop-a1b2c3d4 --kind item --id 142 --qty 5
  craftplan requirements tier-3-workshop-a1b2c3d4 --group step
  craftplan requirements tier-3-workshop-a1b2c3d4 --have item-17=40 --check cargo-9
  craftplan tree tier-3-workshop-a1b2c3d4 --entry 0
  craftplan stock set --source bank --kind item --id 17 --qty 120`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/craftplan)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewRequirementsCommand())
	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewStockCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
