package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/application/planner/services"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/test/helpers"
)

func TestFilterValidRecipes_DropsEmptyAndUnresolvable(t *testing.T) {
	// Arrange
	store := helpers.NewCatalogBuilder().
		Item(1, "Plank", 2).
		Item(2, "Log", 1).
		BuildStore()
	selector := services.NewRecipeSelector(store)

	empty := &catalog.Recipe{ID: 10, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1}
	unresolvable := &catalog.Recipe{
		ID: 11, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
		ItemIngredients: []catalog.Stack{{EntityID: 999, Quantity: 1}},
	}
	good := &catalog.Recipe{
		ID: 12, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
		ItemIngredients: []catalog.Stack{{EntityID: 2, Quantity: 2}},
	}

	// Act
	valid := selector.FilterValidRecipes([]*catalog.Recipe{empty, unresolvable, good}, 2)

	// Assert
	require.Len(t, valid, 1)
	assert.Equal(t, int64(12), valid[0].ID)

	// The report variant names the missing ingredient id
	valid, unresolved := selector.FilterValidRecipesReport([]*catalog.Recipe{empty, unresolvable, good}, 2)
	require.Len(t, valid, 1)
	assert.Equal(t, []int64{999}, unresolved)
}

func TestFilterValidRecipes_DowngradeFiltering(t *testing.T) {
	// Arrange
	store := helpers.NewCatalogBuilder().
		Item(1, "Refined Ore", 2).
		Item(2, "Pure Crystal", 4).
		Item(3, "Raw Ore", 1).
		Item(4, "Catalyst", catalog.TierUntiered).
		BuildStore()
	selector := services.NewRecipeSelector(store)

	downgrade := &catalog.Recipe{
		ID: 10, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
		ItemIngredients: []catalog.Stack{{EntityID: 2, Quantity: 1}},
	}
	normal := &catalog.Recipe{
		ID: 11, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
		ItemIngredients: []catalog.Stack{{EntityID: 3, Quantity: 3}},
	}
	untieredInput := &catalog.Recipe{
		ID: 12, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
		ItemIngredients: []catalog.Stack{{EntityID: 4, Quantity: 1}},
	}

	// Act: output tier 2, so the tier-4 ingredient recipe is a downgrade
	valid := selector.FilterValidRecipes([]*catalog.Recipe{downgrade, normal, untieredInput}, 2)

	// Assert: untiered ingredients bypass the tier rule entirely
	require.Len(t, valid, 2)
	assert.Equal(t, int64(11), valid[0].ID)
	assert.Equal(t, int64(12), valid[1].ID)

	// An untiered output suspends the rule for every recipe
	valid = selector.FilterValidRecipes([]*catalog.Recipe{downgrade, normal}, catalog.TierUntiered)
	assert.Len(t, valid, 2)
}

func TestCheapestRecipe_MissingCostSortsLast(t *testing.T) {
	// Arrange
	store := helpers.NewCatalogBuilder().BuildStore()
	selector := services.NewRecipeSelector(store)

	unpriced := &catalog.Recipe{ID: 10}
	cheap := &catalog.Recipe{ID: 11, Cost: helpers.Cost(5)}
	pricey := &catalog.Recipe{ID: 12, Cost: helpers.Cost(50)}

	// Act
	chosen, ok := selector.CheapestRecipe([]*catalog.Recipe{unpriced, pricey, cheap})

	// Assert
	require.True(t, ok)
	assert.Equal(t, int64(11), chosen.ID)
}

func TestCheapestRecipe_StableTieBreak(t *testing.T) {
	store := helpers.NewCatalogBuilder().BuildStore()
	selector := services.NewRecipeSelector(store)

	first := &catalog.Recipe{ID: 10, Cost: helpers.Cost(5)}
	second := &catalog.Recipe{ID: 11, Cost: helpers.Cost(5)}

	chosen, ok := selector.CheapestRecipe([]*catalog.Recipe{first, second})
	require.True(t, ok)
	assert.Equal(t, int64(10), chosen.ID, "equal costs must resolve to declaration order")

	_, ok = selector.CheapestRecipe(nil)
	assert.False(t, ok)
}

func TestSelectRecipe_PriorityChain(t *testing.T) {
	store := helpers.NewCatalogBuilder().BuildStore()
	selector := services.NewRecipeSelector(store)

	cheap := &catalog.Recipe{ID: 10, Cost: helpers.Cost(1)}
	preferred := &catalog.Recipe{ID: 11, Cost: helpers.Cost(9)}
	explicit := &catalog.Recipe{ID: 12, Cost: helpers.Cost(99)}
	valid := []*catalog.Recipe{cheap, preferred, explicit}

	key := catalog.EntityKey("item-1")
	preferences := lists.RecipePreferences{key: 11}

	// Explicit beats preference beats cheapest
	chosen, ok := selector.SelectRecipe(valid, key, 12, preferences)
	require.True(t, ok)
	assert.Equal(t, int64(12), chosen.ID)

	chosen, ok = selector.SelectRecipe(valid, key, 0, preferences)
	require.True(t, ok)
	assert.Equal(t, int64(11), chosen.ID)

	chosen, ok = selector.SelectRecipe(valid, key, 0, nil)
	require.True(t, ok)
	assert.Equal(t, int64(10), chosen.ID)

	// An id outside the valid set falls through to cheapest
	chosen, ok = selector.SelectRecipe(valid, key, 999, lists.RecipePreferences{key: 888})
	require.True(t, ok)
	assert.Equal(t, int64(10), chosen.ID)
}
