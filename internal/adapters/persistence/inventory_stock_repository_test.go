package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/adapters/persistence"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/test/helpers"
)

func TestGormInventoryStockRepository_SetStockUpserts(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormInventoryStockRepository(db)
	ctx := context.Background()

	// Act: second write replaces the first for the same key
	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindItem, 1, 10))
	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindItem, 1, 25))

	// Assert
	have, err := repo.AggregatedQuantities(ctx, catalog.KindItem, nil)
	require.NoError(t, err)
	assert.Equal(t, materials.HaveMap{1: 25}, have)
}

func TestGormInventoryStockRepository_ZeroQuantityClears(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormInventoryStockRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindItem, 1, 10))

	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindItem, 1, 0))

	have, err := repo.AggregatedQuantities(ctx, catalog.KindItem, nil)
	require.NoError(t, err)
	assert.Empty(t, have)
}

func TestGormInventoryStockRepository_AggregatesAcrossSources(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormInventoryStockRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindItem, 1, 10))
	require.NoError(t, repo.SetStock(ctx, "carried", catalog.KindItem, 1, 5))
	require.NoError(t, repo.SetStock(ctx, "carried", catalog.KindItem, 2, 3))
	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindCargo, 1, 99))

	all, err := repo.AggregatedQuantities(ctx, catalog.KindItem, nil)
	require.NoError(t, err)
	assert.Equal(t, materials.HaveMap{1: 15, 2: 3}, all)

	bankOnly, err := repo.AggregatedQuantities(ctx, catalog.KindItem, []string{"bank"})
	require.NoError(t, err)
	assert.Equal(t, materials.HaveMap{1: 10}, bankOnly)

	cargo, err := repo.AggregatedQuantities(ctx, catalog.KindCargo, nil)
	require.NoError(t, err)
	assert.Equal(t, materials.HaveMap{1: 99}, cargo, "kinds never mix")
}

func TestGormInventoryStockRepository_ListSources(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormInventoryStockRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.SetStock(ctx, "carried", catalog.KindItem, 1, 1))
	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindItem, 2, 2))
	require.NoError(t, repo.SetStock(ctx, "bank", catalog.KindCargo, 3, 3))

	sources, err := repo.ListSources(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"bank", "carried"}, sources)
}
