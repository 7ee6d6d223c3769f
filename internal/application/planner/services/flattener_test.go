package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/application/planner/services"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/test/helpers"
)

// woodworkingStore: Plank (2 Stripped Wood) -> Stripped Wood (1 Raw
// Log), plus a Crate needing both planks and raw logs directly
func woodworkingStore() (*services.TreeBuilder, *services.Flattener) {
	store := helpers.NewCatalogBuilder().
		Item(1, "Raw Log", 1).
		Item(2, "Stripped Wood", 1).
		Item(3, "Plank", 1).
		Item(4, "Crate", 1).
		Recipe(catalog.Recipe{
			ID: 10, OutputKind: catalog.KindItem, OutputID: 2, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 1, Quantity: 1}},
		}).
		Recipe(catalog.Recipe{
			ID: 11, OutputKind: catalog.KindItem, OutputID: 3, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 2, Quantity: 2}},
		}).
		Recipe(catalog.Recipe{
			ID: 12, OutputKind: catalog.KindItem, OutputID: 4, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{
				{EntityID: 3, Quantity: 4},
				{EntityID: 1, Quantity: 1},
			},
		}).
		BuildStore()
	selector := services.NewRecipeSelector(store)
	classifier := services.NewClassifier(store, selector)
	return services.NewTreeBuilder(store, selector), services.NewFlattener(classifier)
}

func TestFlattener_RootExcludedAndDescendantsMerged(t *testing.T) {
	// Arrange
	builder, flattener := woodworkingStore()
	tree, _ := builder.BuildForEntry(context.Background(),
		lists.ListEntry{Kind: catalog.KindItem, EntityID: 4, Quantity: 1}, nil)
	require.NotNil(t, tree)

	// Act
	flat := flattener.Flatten([]*materials.MaterialNode{tree})

	// Assert: the crate itself is absent; raw log appears once with
	// both the direct stack and the stripped-wood branch merged
	keys := make(map[catalog.EntityKey]int64)
	for _, row := range flat {
		keys[catalog.NewEntityKey(row.Kind, row.EntityID)] = row.Quantity
	}
	assert.NotContains(t, keys, catalog.EntityKey("item-4"))
	assert.Equal(t, int64(4), keys["item-3"])
	assert.Equal(t, int64(8), keys["item-2"])
	assert.Equal(t, int64(9), keys["item-1"], "8 via stripped wood + 1 direct")
}

func TestFlattener_RowsCarryClassifierSteps(t *testing.T) {
	builder, flattener := woodworkingStore()
	tree, _ := builder.BuildForEntry(context.Background(),
		lists.ListEntry{Kind: catalog.KindItem, EntityID: 4, Quantity: 1}, nil)

	flat := flattener.Flatten([]*materials.MaterialNode{tree})

	steps := make(map[int64]int)
	for _, row := range flat {
		steps[row.EntityID] = row.Step
	}
	assert.Equal(t, 3, steps[3], "plank")
	assert.Equal(t, 2, steps[2], "stripped wood")
	assert.Equal(t, 1, steps[1], "raw log")
}

func TestFlattener_FirstSeenOrder(t *testing.T) {
	builder, flattener := woodworkingStore()
	tree, _ := builder.BuildForEntry(context.Background(),
		lists.ListEntry{Kind: catalog.KindItem, EntityID: 4, Quantity: 1}, nil)

	flat := flattener.Flatten([]*materials.MaterialNode{tree})

	// Pre-order under the root: plank, stripped wood, raw log; the
	// crate's direct raw-log stack merges into the existing row
	require.Len(t, flat, 3)
	assert.Equal(t, int64(3), flat[0].EntityID)
	assert.Equal(t, int64(2), flat[1].EntityID)
	assert.Equal(t, int64(1), flat[2].EntityID)
}

func TestFlattener_AggregatesAcrossTrees(t *testing.T) {
	builder, flattener := woodworkingStore()
	first, _ := builder.BuildForEntry(context.Background(),
		lists.ListEntry{Kind: catalog.KindItem, EntityID: 3, Quantity: 1}, nil)
	second, _ := builder.BuildForEntry(context.Background(),
		lists.ListEntry{Kind: catalog.KindItem, EntityID: 3, Quantity: 2}, nil)

	flat := flattener.Flatten([]*materials.MaterialNode{first, second, nil})

	require.Len(t, flat, 2)
	assert.Equal(t, int64(6), flat[0].Quantity, "stripped wood across both trees")
	assert.Equal(t, int64(6), flat[1].Quantity)
}
