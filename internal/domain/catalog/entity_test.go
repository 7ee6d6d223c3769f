package catalog_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

func TestEntityKey_RoundTrip(t *testing.T) {
	key := catalog.NewEntityKey(catalog.KindItem, 142)
	assert.Equal(t, catalog.EntityKey("item-142"), key)

	kind, id, err := key.Parse()
	require.NoError(t, err)
	assert.Equal(t, catalog.KindItem, kind)
	assert.Equal(t, int64(142), id)
}

func TestEntityKey_ParseRejectsMalformedKeys(t *testing.T) {
	for _, raw := range []string{"", "item", "item-", "-142", "plot-142", "item-abc"} {
		_, _, err := catalog.EntityKey(raw).Parse()
		assert.Error(t, err, "key %q should not parse", raw)
	}
}

func TestParseEntityKind(t *testing.T) {
	kind, err := catalog.ParseEntityKind("CARGO")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindCargo, kind)

	_, err = catalog.ParseEntityKind("vehicle")
	var unknownKind *catalog.ErrUnknownKind
	assert.ErrorAs(t, err, &unknownKind)
}

func TestItem_Untiered(t *testing.T) {
	tiered := &catalog.Item{ID: 1, Tier: 3}
	untiered := &catalog.Item{ID: 2, Tier: catalog.TierUntiered}

	assert.False(t, tiered.Untiered())
	assert.True(t, untiered.Untiered())
}

func TestRecipe_CostOrInf(t *testing.T) {
	cost := 12.5
	priced := &catalog.Recipe{ID: 1, Cost: &cost}
	unpriced := &catalog.Recipe{ID: 2}
	nan := math.NaN()
	broken := &catalog.Recipe{ID: 3, Cost: &nan}

	assert.Equal(t, 12.5, priced.CostOrInf())
	assert.True(t, math.IsInf(unpriced.CostOrInf(), 1))
	// NaN never reaches a comparison: it normalizes like a missing cost
	assert.True(t, math.IsInf(broken.CostOrInf(), 1))
}

func TestRecipe_HasIngredients(t *testing.T) {
	empty := &catalog.Recipe{ID: 1}
	items := &catalog.Recipe{ID: 2, ItemIngredients: []catalog.Stack{{EntityID: 7, Quantity: 1}}}
	cargo := &catalog.Recipe{ID: 3, CargoIngredients: []catalog.Stack{{EntityID: 8, Quantity: 2}}}

	assert.False(t, empty.HasIngredients())
	assert.True(t, items.HasIngredients())
	assert.True(t, cargo.HasIngredients())
}

func TestConstructionRecipe_HasUpgradePrerequisite(t *testing.T) {
	base := &catalog.ConstructionRecipe{ID: 1, BuildingDescID: 10}
	upgrade := &catalog.ConstructionRecipe{ID: 2, BuildingDescID: 11, UpgradeFromBuildingID: 10}

	assert.False(t, base.HasUpgradePrerequisite())
	assert.True(t, upgrade.HasUpgradePrerequisite())
}
