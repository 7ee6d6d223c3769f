package queries

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// GetListQuery fetches one crafting list by id
type GetListQuery struct {
	ListID string
}

// GetListResponse carries the list aggregate
type GetListResponse struct {
	List *lists.CraftingList
}

// GetListHandler handles the GetList query
type GetListHandler struct {
	listRepo lists.ListRepository
}

// NewGetListHandler creates the handler
func NewGetListHandler(listRepo lists.ListRepository) *GetListHandler {
	return &GetListHandler{listRepo: listRepo}
}

// Handle executes the GetList query
func (h *GetListHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetListQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	list, err := h.listRepo.FindByID(ctx, query.ListID)
	if err != nil {
		return nil, err
	}

	return &GetListResponse{List: list}, nil
}
