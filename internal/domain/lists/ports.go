package lists

import (
	"context"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// ListRepository defines the persistence interface for crafting lists
type ListRepository interface {
	// Create persists a new crafting list
	Create(ctx context.Context, list *CraftingList) error

	// Update persists changes to an existing list
	Update(ctx context.Context, list *CraftingList) error

	// FindByID retrieves a list by its id
	FindByID(ctx context.Context, id string) (*CraftingList, error)

	// FindAll retrieves every persisted list
	FindAll(ctx context.Context) ([]*CraftingList, error)

	// Delete removes a list
	Delete(ctx context.Context, id string) error
}

// TreeCache memoizes expanded material trees per list. Keys combine the
// list id with its content hash, so a changed list misses and rebuilds.
type TreeCache interface {
	Get(key string) ([]*materials.MaterialNode, bool)
	Put(key string, trees []*materials.MaterialNode)

	// Clear drops every cached tree. Invoked on catalog reload, before
	// any subsequent read.
	Clear()
}

// SnapshotStore is opaque key-value persistence for computed requirement
// snapshots. The engine defines no wire format: callers store whatever
// blob they can later decode, keyed by list id plus content hash.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
}

// InventoryProvider aggregates on-hand quantities per entity id for one
// kind, pre-filtered by the enabled source set (empty = all sources).
type InventoryProvider interface {
	AggregatedQuantities(ctx context.Context, kind catalog.EntityKind, sourceIDs []string) (materials.HaveMap, error)
}
