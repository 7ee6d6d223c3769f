package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// NewStockCommand creates the stock command with subcommands
func NewStockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Manage on-hand inventory stock",
		Long: `Record how much of each entity you have, per source (bank, mule,
character...). Lists aggregate stock across their enabled sources
during inventory propagation.

Examples:
  craftplan stock set --source bank --kind item --id 17 --qty 120
  craftplan stock set --source bank --kind item --id 17 --qty 0
  craftplan stock sources`,
	}

	cmd.AddCommand(newStockSetCommand())
	cmd.AddCommand(newStockSourcesCommand())

	return cmd
}

// newStockSetCommand creates the stock set subcommand
func newStockSetCommand() *cobra.Command {
	var (
		sourceID string
		kindFlag string
		entityID int64
		quantity int64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the stored quantity for one entity in one source",
		Long:  `Set an absolute stock quantity. A quantity of 0 removes the record.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseEntityKind(kindFlag)
			if err != nil {
				return err
			}
			if quantity < 0 {
				return fmt.Errorf("--qty must be non-negative")
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Stocks.SetStock(app.Context(), sourceID, kind, entityID, quantity); err != nil {
				return err
			}

			key := catalog.NewEntityKey(kind, entityID)
			if quantity == 0 {
				fmt.Printf("Cleared %s stock in %s\n", key, sourceID)
			} else {
				fmt.Printf("Set %s stock in %s to %d\n", key, sourceID, quantity)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceID, "source", "", "Source id (bank, mule, a character name...)")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Entity kind (item, cargo, building)")
	cmd.Flags().Int64Var(&entityID, "id", 0, "Entity id")
	cmd.Flags().Int64Var(&quantity, "qty", 0, "Absolute quantity (0 removes the record)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("kind")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("qty")

	return cmd
}

// newStockSourcesCommand creates the stock sources subcommand
func newStockSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List every source with stored stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			sources, err := app.Stocks.ListSources(app.Context())
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				fmt.Println("No stock recorded yet")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "SOURCE")
			for _, source := range sources {
				fmt.Fprintln(writer, source)
			}
			return writer.Flush()
		},
	}
}
