package persistence

import (
	"time"
)

// CraftingListModel represents the crafting_lists table. Entries,
// preferences and enabled sources are JSON blobs: they are only ever
// read back whole, never queried into.
type CraftingListModel struct {
	ID             string    `gorm:"column:id;primaryKey;not null"`
	Name           string    `gorm:"column:name;not null"`
	Entries        string    `gorm:"column:entries;type:text"`         // JSON array as text
	Preferences    string    `gorm:"column:preferences;type:text"`     // JSON object as text
	EnabledSources string    `gorm:"column:enabled_sources;type:text"` // JSON array as text
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (CraftingListModel) TableName() string {
	return "crafting_lists"
}

// InventoryStockModel represents the inventory_stocks table: one row
// per (source, entity) with the on-hand quantity at that source
type InventoryStockModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SourceID   string    `gorm:"column:source_id;not null;uniqueIndex:idx_stock_source_entity"`
	EntityKind string    `gorm:"column:entity_kind;not null;uniqueIndex:idx_stock_source_entity"`
	EntityID   int64     `gorm:"column:entity_id;not null;uniqueIndex:idx_stock_source_entity"`
	Quantity   int64     `gorm:"column:quantity;not null;default:0"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (InventoryStockModel) TableName() string {
	return "inventory_stocks"
}
