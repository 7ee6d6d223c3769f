package services

import (
	"sort"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// RecipeSelector applies the deterministic recipe-choice rules: filter
// out structurally invalid candidates, then pick by explicit id,
// preference map, or cheapest cost, in that order. All methods are pure.
type RecipeSelector struct {
	catalog catalog.Catalog
}

// NewRecipeSelector creates a selector bound to a catalog
func NewRecipeSelector(cat catalog.Catalog) *RecipeSelector {
	return &RecipeSelector{catalog: cat}
}

// FilterValidRecipes drops candidates that cannot legitimately produce
// the output. A candidate is valid iff:
//  1. it has at least one ingredient (item or cargo)
//  2. every item-ingredient id resolves in the catalog
//  3. it is not a downgrade: unless the output tier is the untiered
//     sentinel, no tiered item-ingredient may out-tier the output.
//     Cargo-ingredient tiers are not checked.
func (s *RecipeSelector) FilterValidRecipes(candidates []*catalog.Recipe, outputTier int) []*catalog.Recipe {
	valid, _ := s.FilterValidRecipesReport(candidates, outputTier)
	return valid
}

// FilterValidRecipesReport is FilterValidRecipes plus the distinct
// item-ingredient ids that failed to resolve among rejected candidates.
// Downgrade rejections are a catalog rule, not a data hole, and are not
// reported.
func (s *RecipeSelector) FilterValidRecipesReport(candidates []*catalog.Recipe, outputTier int) ([]*catalog.Recipe, []int64) {
	valid := make([]*catalog.Recipe, 0, len(candidates))
	var unresolved []int64
	seen := make(map[int64]bool)

candidates:
	for _, recipe := range candidates {
		if !recipe.HasIngredients() {
			continue
		}
		for _, stack := range recipe.ItemIngredients {
			ingredient, ok := s.catalog.ItemByID(stack.EntityID)
			if !ok {
				if !seen[stack.EntityID] {
					seen[stack.EntityID] = true
					unresolved = append(unresolved, stack.EntityID)
				}
				continue candidates
			}
			if outputTier != catalog.TierUntiered &&
				ingredient.Tier != catalog.TierUntiered &&
				ingredient.Tier > outputTier {
				// Downgrade: a higher-tier input producing a lower-tier output
				continue candidates
			}
		}
		valid = append(valid, recipe)
	}

	return valid, unresolved
}

// CheapestRecipe returns the lowest-cost recipe, or false for an empty
// input. Missing costs sort as +Inf. The sort is stable, so equal costs
// resolve to the first occurrence in input order - the determinism
// guarantee the tree builder and classifier rely on.
func (s *RecipeSelector) CheapestRecipe(recipes []*catalog.Recipe) (*catalog.Recipe, bool) {
	if len(recipes) == 0 {
		return nil, false
	}

	sorted := make([]*catalog.Recipe, len(recipes))
	copy(sorted, recipes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CostOrInf() < sorted[j].CostOrInf()
	})

	return sorted[0], true
}

// CheapestValidRecipe filters then picks, the common combined path
func (s *RecipeSelector) CheapestValidRecipe(candidates []*catalog.Recipe, outputTier int) (*catalog.Recipe, bool) {
	return s.CheapestRecipe(s.FilterValidRecipes(candidates, outputTier))
}

// SelectRecipe applies the full selection priority to an already
// filtered valid set:
//  1. the explicit recipe id supplied for this exact call (list-entry
//     roots only; zero means none)
//  2. the preference map entry for the entity key
//  3. cheapest valid
//
// An explicit or preferred id that is not among the valid recipes falls
// through to cheapest rather than erroring.
func (s *RecipeSelector) SelectRecipe(
	valid []*catalog.Recipe,
	key catalog.EntityKey,
	explicitRecipeID int64,
	preferences lists.RecipePreferences,
) (*catalog.Recipe, bool) {
	if explicitRecipeID != 0 {
		if recipe, ok := findRecipeByID(valid, explicitRecipeID); ok {
			return recipe, true
		}
	}

	if preferences != nil {
		if preferredID, ok := preferences[key]; ok {
			if recipe, found := findRecipeByID(valid, preferredID); found {
				return recipe, true
			}
		}
	}

	return s.CheapestRecipe(valid)
}

func findRecipeByID(recipes []*catalog.Recipe, id int64) (*catalog.Recipe, bool) {
	for _, recipe := range recipes {
		if recipe.ID == id {
			return recipe, true
		}
	}
	return nil, false
}
