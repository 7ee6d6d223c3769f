package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

// GormListRepository implements lists.ListRepository using GORM
type GormListRepository struct {
	db *gorm.DB
}

// NewGormListRepository creates a new GORM crafting list repository
func NewGormListRepository(db *gorm.DB) *GormListRepository {
	return &GormListRepository{db: db}
}

// Create persists a new crafting list
func (r *GormListRepository) Create(ctx context.Context, list *lists.CraftingList) error {
	model, err := r.entityToModel(list)
	if err != nil {
		return fmt.Errorf("failed to convert list to model: %w", err)
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to create crafting list: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing list
func (r *GormListRepository) Update(ctx context.Context, list *lists.CraftingList) error {
	model, err := r.entityToModel(list)
	if err != nil {
		return fmt.Errorf("failed to convert list to model: %w", err)
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update crafting list: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a list by its id
func (r *GormListRepository) FindByID(ctx context.Context, id string) (*lists.CraftingList, error) {
	var model CraftingListModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, &lists.ErrListNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to find crafting list: %w", result.Error)
	}
	return r.modelToEntity(&model)
}

// FindAll retrieves every persisted list, most recently updated first
func (r *GormListRepository) FindAll(ctx context.Context) ([]*lists.CraftingList, error) {
	var models []CraftingListModel
	result := r.db.WithContext(ctx).Order("updated_at DESC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find crafting lists: %w", result.Error)
	}

	found := make([]*lists.CraftingList, 0, len(models))
	for i := range models {
		list, err := r.modelToEntity(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert list %s: %w", models[i].ID, err)
		}
		found = append(found, list)
	}
	return found, nil
}

// Delete removes a list
func (r *GormListRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CraftingListModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete crafting list: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &lists.ErrListNotFound{ID: id}
	}
	return nil
}

// listEntryRecord is the JSON shape of one entry inside the blob column
type listEntryRecord struct {
	Kind             string `json:"kind"`
	EntityID         int64  `json:"entity_id"`
	Quantity         int64  `json:"quantity"`
	ExplicitRecipeID int64  `json:"explicit_recipe_id,omitempty"`
}

// entityToModel converts the domain aggregate to a database model
func (r *GormListRepository) entityToModel(list *lists.CraftingList) (*CraftingListModel, error) {
	records := make([]listEntryRecord, 0, len(list.Entries()))
	for _, entry := range list.Entries() {
		records = append(records, listEntryRecord{
			Kind:             string(entry.Kind),
			EntityID:         entry.EntityID,
			Quantity:         entry.Quantity,
			ExplicitRecipeID: entry.ExplicitRecipeID,
		})
	}
	entriesJSON, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entries: %w", err)
	}

	preferences := make(map[string]int64, len(list.Preferences()))
	for key, recipeID := range list.Preferences() {
		preferences[string(key)] = recipeID
	}
	preferencesJSON, err := json.Marshal(preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preferences: %w", err)
	}

	sourcesJSON, err := json.Marshal(list.EnabledSourceIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal enabled sources: %w", err)
	}

	return &CraftingListModel{
		ID:             list.ID(),
		Name:           list.Name(),
		Entries:        string(entriesJSON),
		Preferences:    string(preferencesJSON),
		EnabledSources: string(sourcesJSON),
		CreatedAt:      list.CreatedAt(),
		UpdatedAt:      list.UpdatedAt(),
	}, nil
}

// modelToEntity converts a database model back to the domain aggregate
func (r *GormListRepository) modelToEntity(model *CraftingListModel) (*lists.CraftingList, error) {
	var records []listEntryRecord
	if model.Entries != "" {
		if err := json.Unmarshal([]byte(model.Entries), &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
		}
	}
	entries := make([]lists.ListEntry, 0, len(records))
	for _, record := range records {
		kind, err := catalog.ParseEntityKind(record.Kind)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
		}
		entries = append(entries, lists.ListEntry{
			Kind:             kind,
			EntityID:         record.EntityID,
			Quantity:         record.Quantity,
			ExplicitRecipeID: record.ExplicitRecipeID,
		})
	}

	rawPreferences := make(map[string]int64)
	if model.Preferences != "" && model.Preferences != "null" {
		if err := json.Unmarshal([]byte(model.Preferences), &rawPreferences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
		}
	}
	preferences := make(lists.RecipePreferences, len(rawPreferences))
	for key, recipeID := range rawPreferences {
		preferences[catalog.EntityKey(key)] = recipeID
	}

	var sources []string
	if model.EnabledSources != "" && model.EnabledSources != "null" {
		if err := json.Unmarshal([]byte(model.EnabledSources), &sources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal enabled sources: %w", err)
		}
	}

	return lists.RestoreCraftingList(
		model.ID,
		model.Name,
		entries,
		preferences,
		sources,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}
