package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/craftplan/craftplan-go/internal/adapters/gamedata"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// maxSuggestionDistance bounds how fuzzy a "did you mean" match may be
const maxSuggestionDistance = 4

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the game data catalog",
		Long: `Search and inspect items, cargo and buildings in the loaded game data.

Examples:
  craftplan catalog search "iron ingot"
  craftplan catalog search plank --kind item
  craftplan catalog show item-142`,
	}

	cmd.AddCommand(newCatalogSearchCommand())
	cmd.AddCommand(newCatalogShowCommand())

	return cmd
}

// newCatalogSearchCommand creates the catalog search subcommand
func newCatalogSearchCommand() *cobra.Command {
	var kindFilter string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search catalog entities by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogSearch(args[0], kindFilter)
		},
	}

	cmd.Flags().StringVar(&kindFilter, "kind", "", "Filter by entity kind (item, cargo, building)")

	return cmd
}

func runCatalogSearch(query, kindFilter string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	var kind catalog.EntityKind
	if kindFilter != "" {
		kind, err = parseEntityKind(kindFilter)
		if err != nil {
			return err
		}
	}

	entities := app.Store.NamedEntities()
	needle := strings.ToLower(query)

	var matches []gamedata.NamedEntity
	for _, entity := range entities {
		if kind != "" && entity.Kind != kind {
			continue
		}
		if strings.Contains(strings.ToLower(entity.Name), needle) {
			matches = append(matches, entity)
		}
	}

	if len(matches) == 0 {
		fmt.Printf("No catalog entities match %q\n", query)
		if suggestions := nearestNames(entities, kind, needle); len(suggestions) > 0 {
			fmt.Printf("Did you mean: %s?\n", strings.Join(suggestions, ", "))
		}
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "KEY\tNAME\tTIER")
	for _, entity := range matches {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", entity.Key, entity.Name, tierLabel(entity.Tier))
	}
	return writer.Flush()
}

// nearestNames returns the closest entity names by edit distance,
// best first, as "did you mean" suggestions
func nearestNames(entities []gamedata.NamedEntity, kind catalog.EntityKind, needle string) []string {
	type scored struct {
		name     string
		distance int
	}

	var candidates []scored
	for _, entity := range entities {
		if kind != "" && entity.Kind != kind {
			continue
		}
		distance := levenshtein.ComputeDistance(needle, strings.ToLower(entity.Name))
		if distance <= maxSuggestionDistance {
			candidates = append(candidates, scored{name: entity.Name, distance: distance})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	suggestions := make([]string, 0, 3)
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		if seen[candidate.name] {
			continue
		}
		seen[candidate.name] = true
		suggestions = append(suggestions, candidate.name)
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions
}

// newCatalogShowCommand creates the catalog show subcommand
func newCatalogShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <entity-key>",
		Short: "Show an entity and its recipes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(args[0])
		},
	}
	return cmd
}

func runCatalogShow(rawKey string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	key := catalog.EntityKey(rawKey)
	kind, entityID, err := key.Parse()
	if err != nil {
		return err
	}

	switch kind {
	case catalog.KindItem:
		item, ok := app.Store.ItemByID(entityID)
		if !ok {
			return &catalog.ErrEntityNotFound{Kind: kind, ID: entityID}
		}
		fmt.Printf("%s  %s  (tier %s)\n", item.Key(), item.Name, tierLabel(item.Tier))
		printRecipes(app.Store, app.Store.RecipesForItem(entityID))
		for _, extraction := range app.Store.ExtractionRecipesForItem(entityID) {
			skill := "unknown skill"
			if len(extraction.LevelRequirements) > 0 {
				skill = extraction.LevelRequirements[0].SkillName
			}
			fmt.Printf("  extraction recipe %d: %s\n", extraction.ID, skill)
		}

	case catalog.KindCargo:
		cargoUnit, ok := app.Store.CargoByID(entityID)
		if !ok {
			return &catalog.ErrEntityNotFound{Kind: kind, ID: entityID}
		}
		fmt.Printf("%s  %s  (tier %s)\n", cargoUnit.Key(), cargoUnit.Name, tierLabel(cargoUnit.Tier))
		printRecipes(app.Store, app.Store.RecipesForCargo(entityID))

	case catalog.KindBuilding:
		desc, ok := app.Store.BuildingDescByID(entityID)
		if !ok {
			return &catalog.ErrEntityNotFound{Kind: kind, ID: entityID}
		}
		fmt.Printf("%s  %s\n", key, desc.Name)
		if construction, ok := app.Store.ConstructionRecipeForBuilding(entityID); ok {
			fmt.Printf("  construction recipe %d: %d item stacks, %d cargo stacks\n",
				construction.ID, len(construction.ConsumedItemStacks), len(construction.ConsumedCargoStacks))
			if construction.HasUpgradePrerequisite() {
				fmt.Printf("  upgrades from building %d\n", construction.UpgradeFromBuildingID)
			}
		}

	default:
		return &catalog.ErrUnknownKind{Raw: string(kind)}
	}

	return nil
}

func printRecipes(store *gamedata.Store, recipes []*catalog.Recipe) {
	for _, recipe := range recipes {
		cost := "unknown cost"
		if recipe.Cost != nil {
			cost = fmt.Sprintf("cost %.2f", *recipe.Cost)
		}
		fmt.Printf("  recipe %d: makes %d, %d item + %d cargo ingredients, %s\n",
			recipe.ID, recipe.OutputQuantity,
			len(recipe.ItemIngredients), len(recipe.CargoIngredients), cost)
		for _, requirement := range recipe.LevelRequirements {
			fmt.Printf("    requires %s level %d\n", requirement.SkillName, requirement.Level)
		}
	}
}
