package commands

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// AddEntryCommand appends a root request to a crafting list. The
// explicit recipe id is optional and applies to item entries only.
type AddEntryCommand struct {
	ListID           string
	Kind             catalog.EntityKind
	EntityID         int64
	Quantity         int64
	ExplicitRecipeID int64
}

// AddEntryResponse returns the entry's index in the list
type AddEntryResponse struct {
	EntryIndex int
}

// AddEntryHandler handles the AddEntry command. It validates the entity
// against the catalog up front so a typoed id fails loudly here instead
// of silently producing an empty tree later.
type AddEntryHandler struct {
	listRepo lists.ListRepository
	catalog  catalog.Catalog
}

// NewAddEntryHandler creates the handler
func NewAddEntryHandler(listRepo lists.ListRepository, cat catalog.Catalog) *AddEntryHandler {
	return &AddEntryHandler{
		listRepo: listRepo,
		catalog:  cat,
	}
}

// Handle executes the AddEntry command
func (h *AddEntryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AddEntryCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.resolveEntity(cmd.Kind, cmd.EntityID); err != nil {
		return nil, err
	}

	list, err := h.listRepo.FindByID(ctx, cmd.ListID)
	if err != nil {
		return nil, err
	}

	entry := lists.ListEntry{
		Kind:             cmd.Kind,
		EntityID:         cmd.EntityID,
		Quantity:         cmd.Quantity,
		ExplicitRecipeID: cmd.ExplicitRecipeID,
	}
	if err := list.AddEntry(entry); err != nil {
		return nil, err
	}

	if err := h.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to update crafting list: %w", err)
	}

	return &AddEntryResponse{EntryIndex: len(list.Entries()) - 1}, nil
}

func (h *AddEntryHandler) resolveEntity(kind catalog.EntityKind, id int64) error {
	var found bool
	switch kind {
	case catalog.KindItem:
		_, found = h.catalog.ItemByID(id)
	case catalog.KindCargo:
		_, found = h.catalog.CargoByID(id)
	case catalog.KindBuilding:
		_, found = h.catalog.BuildingDescByID(id)
	default:
		return &catalog.ErrUnknownKind{Raw: string(kind)}
	}
	if !found {
		return &catalog.ErrEntityNotFound{Kind: kind, ID: id}
	}
	return nil
}
