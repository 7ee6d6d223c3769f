package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/adapters/persistence"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/test/helpers"
)

func sampleList(t *testing.T) *lists.CraftingList {
	t.Helper()
	list := lists.NewCraftingList("tier-3-gear", "Tier 3 Gear")
	require.NoError(t, list.AddEntry(lists.ListEntry{Kind: catalog.KindItem, EntityID: 7, Quantity: 5, ExplicitRecipeID: 42}))
	require.NoError(t, list.AddEntry(lists.ListEntry{Kind: catalog.KindBuilding, EntityID: 3, Quantity: 1}))
	list.SetPreference("item-9", 17)
	list.SetEnabledSources([]string{"bank", "carried"})
	return list
}

func TestGormListRepository_CreateAndFindRoundtrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormListRepository(db)
	ctx := context.Background()
	list := sampleList(t)

	// Act
	require.NoError(t, repo.Create(ctx, list))
	found, err := repo.FindByID(ctx, list.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, list.ID(), found.ID())
	assert.Equal(t, "Tier 3 Gear", found.Name())
	assert.Equal(t, list.Entries(), found.Entries())
	assert.Equal(t, list.Preferences(), found.Preferences())
	assert.Equal(t, []string{"bank", "carried"}, found.EnabledSourceIDs())
	assert.Equal(t, list.ContentHash(), found.ContentHash())
}

func TestGormListRepository_UpdatePersistsChanges(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormListRepository(db)
	ctx := context.Background()
	list := sampleList(t)
	require.NoError(t, repo.Create(ctx, list))

	list.Rename("Renamed")
	require.NoError(t, list.RemoveEntry(1))
	require.NoError(t, repo.Update(ctx, list))

	found, err := repo.FindByID(ctx, list.ID())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name())
	assert.Len(t, found.Entries(), 1)
}

func TestGormListRepository_FindByIDNotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormListRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")

	var notFound *lists.ErrListNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}

func TestGormListRepository_FindAllOrdersByRecency(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormListRepository(db)
	ctx := context.Background()

	older := lists.NewCraftingList("older", "Older")
	newer := lists.NewCraftingList("newer", "Newer")
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	newer.Rename("Touched")
	require.NoError(t, repo.Update(ctx, newer))

	found, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "newer", found[0].ID())
}

func TestGormListRepository_Delete(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormListRepository(db)
	ctx := context.Background()
	list := sampleList(t)
	require.NoError(t, repo.Create(ctx, list))

	require.NoError(t, repo.Delete(ctx, list.ID()))

	_, err := repo.FindByID(ctx, list.ID())
	var notFound *lists.ErrListNotFound
	assert.ErrorAs(t, err, &notFound)

	err = repo.Delete(ctx, list.ID())
	assert.ErrorAs(t, err, &notFound)
}

func TestGormListRepository_EmptyCollectionsSurviveRoundtrip(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormListRepository(db)
	ctx := context.Background()
	list := lists.NewCraftingList("bare", "Bare")
	require.NoError(t, repo.Create(ctx, list))

	found, err := repo.FindByID(ctx, "bare")

	require.NoError(t, err)
	assert.Empty(t, found.Entries())
	assert.Empty(t, found.Preferences())
	assert.Empty(t, found.EnabledSourceIDs())
}
