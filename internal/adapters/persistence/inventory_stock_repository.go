package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// GormInventoryStockRepository persists per-source on-hand quantities
// and implements lists.InventoryProvider by aggregating across the
// enabled sources.
type GormInventoryStockRepository struct {
	db *gorm.DB
}

// NewGormInventoryStockRepository creates a new GORM inventory repository
func NewGormInventoryStockRepository(db *gorm.DB) *GormInventoryStockRepository {
	return &GormInventoryStockRepository{db: db}
}

// SetStock upserts the quantity of one entity at one source. A zero
// quantity removes the row.
func (r *GormInventoryStockRepository) SetStock(
	ctx context.Context,
	sourceID string,
	kind catalog.EntityKind,
	entityID, quantity int64,
) error {
	if quantity <= 0 {
		result := r.db.WithContext(ctx).
			Where("source_id = ? AND entity_kind = ? AND entity_id = ?", sourceID, string(kind), entityID).
			Delete(&InventoryStockModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear inventory stock: %w", result.Error)
		}
		return nil
	}

	model := InventoryStockModel{
		SourceID:   sourceID,
		EntityKind: string(kind),
		EntityID:   entityID,
		Quantity:   quantity,
		UpdatedAt:  time.Now(),
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_id"}, {Name: "entity_kind"}, {Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to set inventory stock: %w", result.Error)
	}
	return nil
}

// AggregatedQuantities sums on-hand quantities per entity id for one
// kind across the given sources. An empty source set means all sources.
func (r *GormInventoryStockRepository) AggregatedQuantities(
	ctx context.Context,
	kind catalog.EntityKind,
	sourceIDs []string,
) (materials.HaveMap, error) {
	type row struct {
		EntityID int64
		Total    int64
	}

	query := r.db.WithContext(ctx).
		Model(&InventoryStockModel{}).
		Select("entity_id, SUM(quantity) AS total").
		Where("entity_kind = ?", string(kind)).
		Group("entity_id")
	if len(sourceIDs) > 0 {
		query = query.Where("source_id IN ?", sourceIDs)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	have := make(materials.HaveMap, len(rows))
	for _, r := range rows {
		have[r.EntityID] = r.Total
	}
	return have, nil
}

// ListSources returns every distinct source id with stored stock
func (r *GormInventoryStockRepository) ListSources(ctx context.Context) ([]string, error) {
	var sources []string
	err := r.db.WithContext(ctx).
		Model(&InventoryStockModel{}).
		Distinct("source_id").
		Order("source_id").
		Pluck("source_id", &sources).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory sources: %w", err)
	}
	return sources, nil
}
