package queries

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/application/planner/services"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// GetMaterialTreeQuery fetches the expanded tree for one list entry
type GetMaterialTreeQuery struct {
	ListID     string
	EntryIndex int
}

// GetMaterialTreeResponse carries the tree for display. Tree is nil
// when the entry's entity did not resolve; the diagnostics say why.
type GetMaterialTreeResponse struct {
	Entry       lists.ListEntry
	Tree        *materials.MaterialNode
	Diagnostics []materials.Diagnostic
}

// GetMaterialTreeHandler handles the GetMaterialTree query
type GetMaterialTreeHandler struct {
	listRepo lists.ListRepository
	planner  *services.TreePlanner
}

// NewGetMaterialTreeHandler creates the handler
func NewGetMaterialTreeHandler(listRepo lists.ListRepository, planner *services.TreePlanner) *GetMaterialTreeHandler {
	return &GetMaterialTreeHandler{
		listRepo: listRepo,
		planner:  planner,
	}
}

// Handle executes the GetMaterialTree query
func (h *GetMaterialTreeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetMaterialTreeQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	list, err := h.listRepo.FindByID(ctx, query.ListID)
	if err != nil {
		return nil, err
	}

	entries := list.Entries()
	if query.EntryIndex < 0 || query.EntryIndex >= len(entries) {
		return nil, &lists.ErrEntryOutOfRange{Index: query.EntryIndex, Count: len(entries)}
	}

	trees, diagnostics, _ := h.planner.TreesForList(ctx, list)

	return &GetMaterialTreeResponse{
		Entry:       entries[query.EntryIndex],
		Tree:        trees[query.EntryIndex],
		Diagnostics: diagnostics,
	}, nil
}
