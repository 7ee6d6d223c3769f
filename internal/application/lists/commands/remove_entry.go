package commands

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// RemoveEntryCommand deletes the entry at an index from a list
type RemoveEntryCommand struct {
	ListID     string
	EntryIndex int
}

// RemoveEntryResponse reports the remaining entry count
type RemoveEntryResponse struct {
	RemainingEntries int
}

// RemoveEntryHandler handles the RemoveEntry command
type RemoveEntryHandler struct {
	listRepo lists.ListRepository
}

// NewRemoveEntryHandler creates the handler
func NewRemoveEntryHandler(listRepo lists.ListRepository) *RemoveEntryHandler {
	return &RemoveEntryHandler{listRepo: listRepo}
}

// Handle executes the RemoveEntry command
func (h *RemoveEntryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RemoveEntryCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	list, err := h.listRepo.FindByID(ctx, cmd.ListID)
	if err != nil {
		return nil, err
	}

	if err := list.RemoveEntry(cmd.EntryIndex); err != nil {
		return nil, err
	}

	if err := h.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to update crafting list: %w", err)
	}

	return &RemoveEntryResponse{RemainingEntries: len(list.Entries())}, nil
}
