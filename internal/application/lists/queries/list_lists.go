package queries

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// ListListsQuery fetches every persisted crafting list
type ListListsQuery struct{}

// ListListsResponse carries the lists in repository order
type ListListsResponse struct {
	Lists []*lists.CraftingList
}

// ListListsHandler handles the ListLists query
type ListListsHandler struct {
	listRepo lists.ListRepository
}

// NewListListsHandler creates the handler
func NewListListsHandler(listRepo lists.ListRepository) *ListListsHandler {
	return &ListListsHandler{listRepo: listRepo}
}

// Handle executes the ListLists query
func (h *ListListsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListListsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	all, err := h.listRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return &ListListsResponse{Lists: all}, nil
}
