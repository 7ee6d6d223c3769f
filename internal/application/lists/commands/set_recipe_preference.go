package commands

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// SetRecipePreferenceCommand records a recipe override for an entity
// key, applied at any node during expansion. A zero recipe id clears
// the override.
type SetRecipePreferenceCommand struct {
	ListID   string
	Key      catalog.EntityKey
	RecipeID int64
}

// SetRecipePreferenceResponse confirms the applied override
type SetRecipePreferenceResponse struct {
	Key      catalog.EntityKey
	RecipeID int64
}

// SetRecipePreferenceHandler handles the SetRecipePreference command
type SetRecipePreferenceHandler struct {
	listRepo lists.ListRepository
}

// NewSetRecipePreferenceHandler creates the handler
func NewSetRecipePreferenceHandler(listRepo lists.ListRepository) *SetRecipePreferenceHandler {
	return &SetRecipePreferenceHandler{listRepo: listRepo}
}

// Handle executes the SetRecipePreference command
func (h *SetRecipePreferenceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetRecipePreferenceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if _, _, err := cmd.Key.Parse(); err != nil {
		return nil, err
	}

	list, err := h.listRepo.FindByID(ctx, cmd.ListID)
	if err != nil {
		return nil, err
	}

	list.SetPreference(cmd.Key, cmd.RecipeID)

	if err := h.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to update crafting list: %w", err)
	}

	return &SetRecipePreferenceResponse{Key: cmd.Key, RecipeID: cmd.RecipeID}, nil
}
