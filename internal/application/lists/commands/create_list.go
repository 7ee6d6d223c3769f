package commands

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/pkg/utils"
)

// CreateListCommand creates a new empty crafting list
type CreateListCommand struct {
	Name string
}

// CreateListResponse returns the generated list id
type CreateListResponse struct {
	ListID string
}

// CreateListHandler handles the CreateList command
type CreateListHandler struct {
	listRepo lists.ListRepository
}

// NewCreateListHandler creates the handler
func NewCreateListHandler(listRepo lists.ListRepository) *CreateListHandler {
	return &CreateListHandler{listRepo: listRepo}
}

// Handle executes the CreateList command
func (h *CreateListHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateListCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	name := cmd.Name
	if name == "" {
		name = "Untitled list"
	}

	list := lists.NewCraftingList(utils.GenerateListID(name), name)
	if err := h.listRepo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create crafting list: %w", err)
	}

	common.LoggerFromContext(ctx).Log("info", "crafting list created", map[string]interface{}{
		"list_id": list.ID(),
		"name":    name,
	})

	return &CreateListResponse{ListID: list.ID()}, nil
}
