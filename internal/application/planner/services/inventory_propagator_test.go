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

// planChain builds the tree for one entry of the given store
func planChain(t *testing.T, store catalog.Catalog, entry lists.ListEntry) *materials.MaterialNode {
	t.Helper()
	builder := services.NewTreeBuilder(store, services.NewRecipeSelector(store))
	tree, diagnostics := builder.BuildForEntry(context.Background(), entry, nil)
	require.NotNil(t, tree)
	require.Empty(t, diagnostics)
	return tree
}

// Widget (item 2) consumes 2 Gizmos (item 1) per unit
func widgetStore() catalog.Catalog {
	return helpers.NewCatalogBuilder().
		Item(1, "Gizmo", 1).
		Item(2, "Widget", 1).
		Recipe(catalog.Recipe{
			ID: 10, OutputKind: catalog.KindItem, OutputID: 2, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 1, Quantity: 2}},
		}).
		BuildStore()
}

func TestInventoryPropagator_PartialCoverageRescalesSubtree(t *testing.T) {
	// Arrange: 10 widgets wanted, 4 already on hand
	store := widgetStore()
	tree := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 10})
	propagator := services.NewInventoryPropagator()

	// Act
	result := propagator.Propagate(
		[]*materials.MaterialNode{tree},
		materials.HaveMap{2: 4}, nil, nil,
	)

	// Assert: 6 widgets remain, so only 12 of the 20 tree gizmos are
	// still needed; the 4 on-hand widgets cover the other 8
	widget := result.Needs["item-2"]
	require.NotNil(t, widget)
	assert.Equal(t, int64(10), widget.BaseRequired)
	assert.Equal(t, int64(6), widget.Remaining)

	gizmo := result.Needs["item-1"]
	require.NotNil(t, gizmo)
	assert.Equal(t, int64(12), gizmo.BaseRequired)
	assert.Equal(t, int64(12), gizmo.Remaining)

	require.Len(t, result.Contributions, 1)
	edge := result.Contributions[0]
	assert.Equal(t, catalog.EntityKey("item-1"), edge.ChildKey)
	assert.Equal(t, catalog.EntityKey("item-2"), edge.ParentKey)
	assert.Equal(t, int64(4), edge.QuantityUsed)
	assert.Equal(t, int64(8), edge.Covered)
}

func TestInventoryPropagator_FullCoverageSubsumesSubtree(t *testing.T) {
	store := widgetStore()
	tree := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 10})
	propagator := services.NewInventoryPropagator()

	result := propagator.Propagate(
		[]*materials.MaterialNode{tree},
		materials.HaveMap{2: 10}, nil, nil,
	)

	assert.Equal(t, int64(0), result.Needs["item-2"].Remaining)

	// The gizmo branch is never walked: it shows up only as a covered
	// contribution, not as a need
	assert.NotContains(t, result.Needs, catalog.EntityKey("item-1"))
	require.Len(t, result.Contributions, 1)
	assert.Equal(t, int64(20), result.Contributions[0].Covered)
}

func TestInventoryPropagator_CheckedOffSatisfiesWithoutConsuming(t *testing.T) {
	store := widgetStore()
	first := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 3})
	second := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 5})
	propagator := services.NewInventoryPropagator()

	result := propagator.Propagate(
		[]*materials.MaterialNode{first, second},
		nil, nil, materials.NewCheckedOffSet("item-2"),
	)

	// Checked-off supply is infinite: both positions fully covered
	widget := result.Needs["item-2"]
	require.NotNil(t, widget)
	assert.Equal(t, int64(8), widget.BaseRequired)
	assert.Equal(t, int64(0), widget.Remaining)
	assert.NotContains(t, result.Needs, catalog.EntityKey("item-1"))
}

func TestInventoryPropagator_BuildingsAreNeverSatisfiable(t *testing.T) {
	store := helpers.NewCatalogBuilder().
		Item(1, "Stone", 1).
		Building(10, "Kiln").
		Construction(catalog.ConstructionRecipe{
			ID: 20, BuildingDescID: 10,
			ConsumedItemStacks: []catalog.Stack{{EntityID: 1, Quantity: 5}},
		}).
		BuildStore()
	tree := planChain(t, store, lists.ListEntry{Kind: catalog.KindBuilding, EntityID: 10, Quantity: 1})
	propagator := services.NewInventoryPropagator()

	// Even checking the building off has no effect; its stone does
	result := propagator.Propagate(
		[]*materials.MaterialNode{tree},
		materials.HaveMap{1: 2}, nil, materials.NewCheckedOffSet("building-10"),
	)

	kiln := result.Needs["building-10"]
	require.NotNil(t, kiln)
	assert.Equal(t, kiln.BaseRequired, kiln.Remaining)

	stone := result.Needs["item-1"]
	require.NotNil(t, stone)
	assert.Equal(t, int64(5), stone.BaseRequired)
	assert.Equal(t, int64(3), stone.Remaining)
}

func TestInventoryPropagator_InventorySharedAcrossTrees(t *testing.T) {
	// Two roots draw from the same 6 gizmos: the first exhausts them
	store := widgetStore()
	first := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 3})
	second := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 3})
	propagator := services.NewInventoryPropagator()

	result := propagator.Propagate(
		[]*materials.MaterialNode{first, second},
		materials.HaveMap{1: 6}, nil, nil,
	)

	gizmo := result.Needs["item-1"]
	require.NotNil(t, gizmo)
	assert.Equal(t, int64(12), gizmo.BaseRequired)
	assert.Equal(t, int64(6), gizmo.Remaining, "only the first six are on hand")
}

func TestInventoryPropagator_RemainingNeverExceedsBaseRequired(t *testing.T) {
	store := widgetStore()
	tree := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 7})
	propagator := services.NewInventoryPropagator()

	result := propagator.Propagate(
		[]*materials.MaterialNode{tree},
		materials.HaveMap{2: 100, 1: 100}, nil, nil,
	)

	for key, need := range result.Needs {
		assert.GreaterOrEqual(t, need.Remaining, int64(0), key)
		assert.LessOrEqual(t, need.Remaining, need.BaseRequired, key)
	}
}

func TestInventoryPropagator_RepeatCallsAreIdempotent(t *testing.T) {
	store := widgetStore()
	tree := planChain(t, store, lists.ListEntry{Kind: catalog.KindItem, EntityID: 2, Quantity: 10})
	propagator := services.NewInventoryPropagator()
	have := materials.HaveMap{2: 4, 1: 3}

	first := propagator.Propagate([]*materials.MaterialNode{tree}, have, nil, nil)
	second := propagator.Propagate([]*materials.MaterialNode{tree}, have, nil, nil)

	assert.Equal(t, first.Needs, second.Needs)
	assert.Equal(t, first.Contributions, second.Contributions)
}
