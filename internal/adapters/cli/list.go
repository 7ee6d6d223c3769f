package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	listCmd "github.com/craftplan/craftplan-go/internal/application/lists/commands"
	listQuery "github.com/craftplan/craftplan-go/internal/application/lists/queries"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// NewListCommand creates the list command with subcommands
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage crafting lists",
		Long: `Create crafting lists and manage their entries, recipe preferences
and inventory sources.

Examples:
  craftplan list create --name "Tier 3 workshop"
  craftplan list ls
  craftplan list show tier-3-workshop-a1b2c3d4
  craftplan list add tier-3-workshop-a1b2c3d4 --kind item --id 142 --qty 5
  craftplan list add tier-3-workshop-a1b2c3d4 --kind building --id 9 --qty 1
  craftplan list remove tier-3-workshop-a1b2c3d4 --entry 0
  craftplan list prefer tier-3-workshop-a1b2c3d4 --key item-142 --recipe 310
  craftplan list sources tier-3-workshop-a1b2c3d4 --source bank --source mule`,
	}

	cmd.AddCommand(newListCreateCommand())
	cmd.AddCommand(newListLsCommand())
	cmd.AddCommand(newListShowCommand())
	cmd.AddCommand(newListAddCommand())
	cmd.AddCommand(newListRemoveCommand())
	cmd.AddCommand(newListPreferCommand())
	cmd.AddCommand(newListSourcesCommand())

	return cmd
}

// newListCreateCommand creates the list create subcommand
func newListCreateCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new crafting list",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			response, err := app.Mediator.Send(app.Context(), &listCmd.CreateListCommand{Name: name})
			if err != nil {
				return err
			}

			created := response.(*listCmd.CreateListResponse)
			fmt.Printf("Created list %s\n", created.ListID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "List name (default: Untitled list)")

	return cmd
}

// newListLsCommand creates the list ls subcommand
func newListLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List all crafting lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			response, err := app.Mediator.Send(app.Context(), &listQuery.ListListsQuery{})
			if err != nil {
				return err
			}

			listing := response.(*listQuery.ListListsResponse)
			if len(listing.Lists) == 0 {
				fmt.Println("No crafting lists yet")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tENTRIES\tUPDATED")
			for _, list := range listing.Lists {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n",
					list.ID(), list.Name(), len(list.Entries()),
					list.UpdatedAt().Format("2006-01-02 15:04"))
			}
			return writer.Flush()
		},
	}
}

// newListShowCommand creates the list show subcommand
func newListShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a list's entries and settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			response, err := app.Mediator.Send(app.Context(), &listQuery.GetListQuery{ListID: args[0]})
			if err != nil {
				return err
			}

			list := response.(*listQuery.GetListResponse).List
			fmt.Printf("%s  %s\n", list.ID(), list.Name())

			entries := list.Entries()
			if len(entries) == 0 {
				fmt.Println("  (no entries)")
			}
			for index, entry := range entries {
				recipeNote := ""
				if entry.ExplicitRecipeID != 0 {
					recipeNote = fmt.Sprintf("  [recipe %d]", entry.ExplicitRecipeID)
				}
				fmt.Printf("  %d: %s x%d%s\n", index, entry.Key(), entry.Quantity, recipeNote)
			}

			for key, recipeID := range list.Preferences() {
				fmt.Printf("  prefer %s -> recipe %d\n", key, recipeID)
			}
			if sources := list.EnabledSourceIDs(); len(sources) > 0 {
				fmt.Printf("  inventory sources: %v\n", sources)
			}
			return nil
		},
	}
}

// newListAddCommand creates the list add subcommand
func newListAddCommand() *cobra.Command {
	var (
		kindFlag string
		entityID int64
		quantity int64
		recipeID int64
	)

	cmd := &cobra.Command{
		Use:   "add <list-id>",
		Short: "Add an entry to a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseEntityKind(kindFlag)
			if err != nil {
				return err
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			response, err := app.Mediator.Send(app.Context(), &listCmd.AddEntryCommand{
				ListID:           args[0],
				Kind:             kind,
				EntityID:         entityID,
				Quantity:         quantity,
				ExplicitRecipeID: recipeID,
			})
			if err != nil {
				return err
			}

			added := response.(*listCmd.AddEntryResponse)
			fmt.Printf("Added entry %d: %s x%d\n", added.EntryIndex, catalog.NewEntityKey(kind, entityID), quantity)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Entity kind (item, cargo, building)")
	cmd.Flags().Int64Var(&entityID, "id", 0, "Entity id")
	cmd.Flags().Int64Var(&quantity, "qty", 1, "Quantity to craft")
	cmd.Flags().Int64Var(&recipeID, "recipe", 0, "Explicit recipe id for this entry")
	cmd.MarkFlagRequired("kind")
	cmd.MarkFlagRequired("id")

	return cmd
}

// newListRemoveCommand creates the list remove subcommand
func newListRemoveCommand() *cobra.Command {
	var entryIndex int

	cmd := &cobra.Command{
		Use:   "remove <list-id>",
		Short: "Remove an entry from a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			response, err := app.Mediator.Send(app.Context(), &listCmd.RemoveEntryCommand{
				ListID:     args[0],
				EntryIndex: entryIndex,
			})
			if err != nil {
				return err
			}

			removed := response.(*listCmd.RemoveEntryResponse)
			fmt.Printf("Removed entry %d, %d remaining\n", entryIndex, removed.RemainingEntries)
			return nil
		},
	}

	cmd.Flags().IntVar(&entryIndex, "entry", 0, "Entry index to remove")
	cmd.MarkFlagRequired("entry")

	return cmd
}

// newListPreferCommand creates the list prefer subcommand
func newListPreferCommand() *cobra.Command {
	var (
		rawKey   string
		recipeID int64
	)

	cmd := &cobra.Command{
		Use:   "prefer <list-id>",
		Short: "Set a recipe preference for an entity anywhere in the tree",
		Long: `Override recipe selection for an entity at every position in the
list's material trees. A recipe id of 0 clears the preference.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Mediator.Send(app.Context(), &listCmd.SetRecipePreferenceCommand{
				ListID:   args[0],
				Key:      catalog.EntityKey(rawKey),
				RecipeID: recipeID,
			})
			if err != nil {
				return err
			}

			if recipeID == 0 {
				fmt.Printf("Cleared recipe preference for %s\n", rawKey)
			} else {
				fmt.Printf("Prefer recipe %d for %s\n", recipeID, rawKey)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawKey, "key", "", "Entity key, e.g. item-142")
	cmd.Flags().Int64Var(&recipeID, "recipe", 0, "Recipe id (0 clears the preference)")
	cmd.MarkFlagRequired("key")

	return cmd
}

// newListSourcesCommand creates the list sources subcommand
func newListSourcesCommand() *cobra.Command {
	var sources []string

	cmd := &cobra.Command{
		Use:   "sources <list-id>",
		Short: "Set which inventory sources count toward this list",
		Long: `Restrict inventory propagation to the named stock sources. With no
--source flags, all sources count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Mediator.Send(app.Context(), &listCmd.SetInventorySourcesCommand{
				ListID:    args[0],
				SourceIDs: sources,
			})
			if err != nil {
				return err
			}

			if len(sources) == 0 {
				fmt.Println("All inventory sources enabled")
			} else {
				fmt.Printf("Enabled inventory sources: %v\n", sources)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sources, "source", nil, "Source id to enable (repeatable; none = all)")

	return cmd
}
