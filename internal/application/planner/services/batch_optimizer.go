package services

import (
	"sort"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/pkg/utils"
)

// BatchOptimizer corrects the over-count that per-branch ceiling
// division introduces. Independent tree branches each round
// ceil(need/output) up separately, so a shared ingredient can be
// counted once per branch: two branches each needing 2 of an item with
// output quantity 10 both round up to one full craft, totalling 20,
// though a single craft covers both.
//
// The fix recomputes aggregate demand top-down over the whole flattened
// set: seed demand from the root list quantities, process items in
// descending step order (finished products before raw materials), and
// push whole-craft ingredient amounts downward once per item instead of
// once per branch. Items only: cargo has no shared-recipe over-count in
// this model, and buildings are never batched.
type BatchOptimizer struct {
	catalog    catalog.Catalog
	selector   *RecipeSelector
	classifier *Classifier
}

// NewBatchOptimizer creates an optimizer
func NewBatchOptimizer(cat catalog.Catalog, selector *RecipeSelector, classifier *Classifier) *BatchOptimizer {
	return &BatchOptimizer{
		catalog:    cat,
		selector:   selector,
		classifier: classifier,
	}
}

// Optimize mutates the item rows of flat in place, overwriting each
// quantity with its correctly aggregated demand. Cargo and building
// rows are left untouched.
func (o *BatchOptimizer) Optimize(flat []*materials.FlatMaterial, rootEntries []lists.ListEntry) {
	demand := make(map[int64]int64)
	for _, entry := range rootEntries {
		if entry.Kind == catalog.KindItem {
			demand[entry.EntityID] += entry.Quantity
		}
	}

	// Work over every item id in play: the roots plus every flattened
	// item row, ordered by descending step so producers run before
	// their ingredients. Ties break on id for determinism.
	ids := make([]int64, 0, len(flat)+len(demand))
	seen := make(map[int64]bool)
	for id := range demand {
		ids = append(ids, id)
		seen[id] = true
	}
	for _, row := range flat {
		if row.Kind == catalog.KindItem && !seen[row.EntityID] {
			ids = append(ids, row.EntityID)
			seen[row.EntityID] = true
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		stepI, stepJ := o.classifier.ItemStep(ids[i]), o.classifier.ItemStep(ids[j])
		if stepI != stepJ {
			return stepI > stepJ
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		need := demand[id]
		if need <= 0 {
			continue
		}
		recipe, ok := o.cheapestValidRecipe(id)
		if !ok {
			continue
		}
		craftCount := utils.CeilDiv(need, recipe.OutputQuantity)
		for _, stack := range recipe.ItemIngredients {
			demand[stack.EntityID] += craftCount * stack.Quantity
		}
	}

	for _, row := range flat {
		if row.Kind != catalog.KindItem {
			continue
		}
		// Rows outside the item-root demand chain (ingredients of cargo
		// or building roots) keep their tree-derived quantities
		if aggregated := demand[row.EntityID]; aggregated > 0 {
			row.Quantity = aggregated
		}
	}
}

func (o *BatchOptimizer) cheapestValidRecipe(itemID int64) (*catalog.Recipe, bool) {
	tier := catalog.TierUntiered
	if item, ok := o.catalog.ItemByID(itemID); ok {
		tier = item.Tier
	}
	return o.selector.CheapestValidRecipe(o.catalog.RecipesForItem(itemID), tier)
}
