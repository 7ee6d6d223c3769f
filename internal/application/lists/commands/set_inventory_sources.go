package commands

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// SetInventorySourcesCommand replaces the enabled inventory source set
// for a list. An empty set means all sources.
type SetInventorySourcesCommand struct {
	ListID    string
	SourceIDs []string
}

// SetInventorySourcesResponse confirms the applied source set
type SetInventorySourcesResponse struct {
	SourceIDs []string
}

// SetInventorySourcesHandler handles the SetInventorySources command
type SetInventorySourcesHandler struct {
	listRepo lists.ListRepository
}

// NewSetInventorySourcesHandler creates the handler
func NewSetInventorySourcesHandler(listRepo lists.ListRepository) *SetInventorySourcesHandler {
	return &SetInventorySourcesHandler{listRepo: listRepo}
}

// Handle executes the SetInventorySources command
func (h *SetInventorySourcesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetInventorySourcesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	list, err := h.listRepo.FindByID(ctx, cmd.ListID)
	if err != nil {
		return nil, err
	}

	list.SetEnabledSources(cmd.SourceIDs)

	if err := h.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to update crafting list: %w", err)
	}

	return &SetInventorySourcesResponse{SourceIDs: list.EnabledSourceIDs()}, nil
}
