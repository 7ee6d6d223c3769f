package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/adapters/gamedata"
	"github.com/craftplan/craftplan-go/internal/adapters/persistence"
	"github.com/craftplan/craftplan-go/internal/application/lists/commands"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/test/helpers"
)

type commandFixture struct {
	repo  *persistence.GormListRepository
	store *gamedata.Store
}

func newCommandFixture(t *testing.T) commandFixture {
	t.Helper()
	store := helpers.NewCatalogBuilder().
		Item(1, "Raw Log", 1).
		Item(2, "Plank", 1).
		Cargo(5, "Clay Lump", 1).
		Building(9, "Sawmill").
		Recipe(catalog.Recipe{
			ID: 10, OutputKind: catalog.KindItem, OutputID: 2, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 1, Quantity: 2}},
		}).
		BuildStore()
	return commandFixture{
		repo:  persistence.NewGormListRepository(helpers.NewTestDB(t)),
		store: store,
	}
}

func (f commandFixture) createList(t *testing.T) string {
	t.Helper()
	response, err := commands.NewCreateListHandler(f.repo).
		Handle(context.Background(), &commands.CreateListCommand{Name: "Workshop Order"})
	require.NoError(t, err)
	return response.(*commands.CreateListResponse).ListID
}

func TestCreateListHandler_PersistsNamedList(t *testing.T) {
	// Arrange
	fixture := newCommandFixture(t)

	// Act
	listID := fixture.createList(t)

	// Assert
	found, err := fixture.repo.FindByID(context.Background(), listID)
	require.NoError(t, err)
	assert.Equal(t, "Workshop Order", found.Name())
	assert.Contains(t, listID, "workshop-order-")
}

func TestCreateListHandler_DefaultsEmptyName(t *testing.T) {
	fixture := newCommandFixture(t)

	response, err := commands.NewCreateListHandler(fixture.repo).
		Handle(context.Background(), &commands.CreateListCommand{})

	require.NoError(t, err)
	listID := response.(*commands.CreateListResponse).ListID
	found, err := fixture.repo.FindByID(context.Background(), listID)
	require.NoError(t, err)
	assert.Equal(t, "Untitled list", found.Name())
}

func TestAddEntryHandler_AppendsAndPersists(t *testing.T) {
	fixture := newCommandFixture(t)
	ctx := context.Background()
	listID := fixture.createList(t)
	handler := commands.NewAddEntryHandler(fixture.repo, fixture.store)

	first, err := handler.Handle(ctx, &commands.AddEntryCommand{
		ListID: listID, Kind: catalog.KindItem, EntityID: 2, Quantity: 4, ExplicitRecipeID: 10,
	})
	require.NoError(t, err)
	second, err := handler.Handle(ctx, &commands.AddEntryCommand{
		ListID: listID, Kind: catalog.KindBuilding, EntityID: 9, Quantity: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, first.(*commands.AddEntryResponse).EntryIndex)
	assert.Equal(t, 1, second.(*commands.AddEntryResponse).EntryIndex)

	found, err := fixture.repo.FindByID(ctx, listID)
	require.NoError(t, err)
	require.Len(t, found.Entries(), 2)
	assert.Equal(t, int64(10), found.Entries()[0].ExplicitRecipeID)
}

func TestAddEntryHandler_RejectsUnknownEntity(t *testing.T) {
	fixture := newCommandFixture(t)
	listID := fixture.createList(t)
	handler := commands.NewAddEntryHandler(fixture.repo, fixture.store)

	_, err := handler.Handle(context.Background(), &commands.AddEntryCommand{
		ListID: listID, Kind: catalog.KindItem, EntityID: 404, Quantity: 1,
	})

	var notFound *catalog.ErrEntityNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(404), notFound.ID)
}

func TestAddEntryHandler_RejectsInvalidEntry(t *testing.T) {
	fixture := newCommandFixture(t)
	listID := fixture.createList(t)
	handler := commands.NewAddEntryHandler(fixture.repo, fixture.store)

	// Explicit recipes only apply to item entries
	_, err := handler.Handle(context.Background(), &commands.AddEntryCommand{
		ListID: listID, Kind: catalog.KindCargo, EntityID: 5, Quantity: 1, ExplicitRecipeID: 10,
	})

	var invalid *lists.ErrInvalidEntry
	assert.ErrorAs(t, err, &invalid)
}

func TestRemoveEntryHandler_RemovesByIndex(t *testing.T) {
	fixture := newCommandFixture(t)
	ctx := context.Background()
	listID := fixture.createList(t)
	addHandler := commands.NewAddEntryHandler(fixture.repo, fixture.store)
	for _, id := range []int64{1, 2} {
		_, err := addHandler.Handle(ctx, &commands.AddEntryCommand{
			ListID: listID, Kind: catalog.KindItem, EntityID: id, Quantity: 1,
		})
		require.NoError(t, err)
	}

	response, err := commands.NewRemoveEntryHandler(fixture.repo).
		Handle(ctx, &commands.RemoveEntryCommand{ListID: listID, EntryIndex: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, response.(*commands.RemoveEntryResponse).RemainingEntries)
	found, err := fixture.repo.FindByID(ctx, listID)
	require.NoError(t, err)
	require.Len(t, found.Entries(), 1)
	assert.Equal(t, int64(2), found.Entries()[0].EntityID)
}

func TestRemoveEntryHandler_OutOfRange(t *testing.T) {
	fixture := newCommandFixture(t)
	listID := fixture.createList(t)

	_, err := commands.NewRemoveEntryHandler(fixture.repo).
		Handle(context.Background(), &commands.RemoveEntryCommand{ListID: listID, EntryIndex: 3})

	var outOfRange *lists.ErrEntryOutOfRange
	assert.ErrorAs(t, err, &outOfRange)
}

func TestSetRecipePreferenceHandler_SetAndClear(t *testing.T) {
	fixture := newCommandFixture(t)
	ctx := context.Background()
	listID := fixture.createList(t)
	handler := commands.NewSetRecipePreferenceHandler(fixture.repo)

	_, err := handler.Handle(ctx, &commands.SetRecipePreferenceCommand{
		ListID: listID, Key: "item-2", RecipeID: 10,
	})
	require.NoError(t, err)

	found, err := fixture.repo.FindByID(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), found.Preferences()["item-2"])

	// A zero recipe id clears the override
	_, err = handler.Handle(ctx, &commands.SetRecipePreferenceCommand{
		ListID: listID, Key: "item-2", RecipeID: 0,
	})
	require.NoError(t, err)
	found, err = fixture.repo.FindByID(ctx, listID)
	require.NoError(t, err)
	assert.Empty(t, found.Preferences())
}

func TestSetRecipePreferenceHandler_RejectsMalformedKey(t *testing.T) {
	fixture := newCommandFixture(t)
	listID := fixture.createList(t)

	_, err := commands.NewSetRecipePreferenceHandler(fixture.repo).
		Handle(context.Background(), &commands.SetRecipePreferenceCommand{
			ListID: listID, Key: "gadget/7", RecipeID: 10,
		})

	require.Error(t, err)
}

func TestSetInventorySourcesHandler_ReplacesSet(t *testing.T) {
	fixture := newCommandFixture(t)
	ctx := context.Background()
	listID := fixture.createList(t)
	handler := commands.NewSetInventorySourcesHandler(fixture.repo)

	response, err := handler.Handle(ctx, &commands.SetInventorySourcesCommand{
		ListID: listID, SourceIDs: []string{"bank", "carried"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bank", "carried"}, response.(*commands.SetInventorySourcesResponse).SourceIDs)

	_, err = handler.Handle(ctx, &commands.SetInventorySourcesCommand{ListID: listID})
	require.NoError(t, err)
	found, err := fixture.repo.FindByID(ctx, listID)
	require.NoError(t, err)
	assert.Empty(t, found.EnabledSourceIDs(), "an empty set means all sources")
}
