package gamedata

import (
	"fmt"
	"sync"
	"time"

	"github.com/craftplan/craftplan-go/internal/adapters/metrics"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// Store holds the current catalog and swaps it wholesale on reload.
// It implements the catalog port by delegating to the current snapshot,
// so engine components hold one stable reference across reloads.
//
// Invalidation ordering: the new snapshot is swapped in first, then the
// registered invalidators run, so by the time derived caches are
// cleared every read already sees the new catalog version.
type Store struct {
	dir string

	mu           sync.RWMutex
	current      *Catalog
	version      int64
	invalidators []func()
}

// NewStore creates a store for a data directory; call Load before use
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// NewStoreWithCatalog creates a store pre-seeded with a catalog,
// bypassing file loading. Used by tests.
func NewStoreWithCatalog(cat *Catalog) *Store {
	return &Store{
		current: cat,
		version: cat.Version(),
	}
}

// OnInvalidate registers a callback run after every reload. Callbacks
// clear derived caches (classifier, trees) before any subsequent read
// repopulates them lazily.
func (s *Store) OnInvalidate(clear func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidators = append(s.invalidators, clear)
}

// Load reads the data directory and makes its catalog current,
// invalidating all derived caches
func (s *Store) Load() error {
	start := time.Now()
	data, err := LoadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to load game data from %s: %w", s.dir, err)
	}

	s.mu.Lock()
	s.version++
	version := s.version
	s.current = NewCatalog(data, s.version)
	invalidators := make([]func(), len(s.invalidators))
	copy(invalidators, s.invalidators)
	s.mu.Unlock()

	for _, clear := range invalidators {
		clear()
	}
	metrics.RecordCatalogReload(version, time.Since(start).Seconds())
	return nil
}

func (s *Store) snapshot() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) ItemByID(id int64) (*catalog.Item, bool) {
	return s.snapshot().ItemByID(id)
}

func (s *Store) CargoByID(id int64) (*catalog.Cargo, bool) {
	return s.snapshot().CargoByID(id)
}

func (s *Store) BuildingDescByID(id int64) (*catalog.BuildingDesc, bool) {
	return s.snapshot().BuildingDescByID(id)
}

func (s *Store) RecipesForItem(outputID int64) []*catalog.Recipe {
	return s.snapshot().RecipesForItem(outputID)
}

func (s *Store) RecipesForCargo(outputID int64) []*catalog.Recipe {
	return s.snapshot().RecipesForCargo(outputID)
}

func (s *Store) ConstructionRecipeByID(id int64) (*catalog.ConstructionRecipe, bool) {
	return s.snapshot().ConstructionRecipeByID(id)
}

func (s *Store) ConstructionRecipeForBuilding(buildingDescID int64) (*catalog.ConstructionRecipe, bool) {
	return s.snapshot().ConstructionRecipeForBuilding(buildingDescID)
}

func (s *Store) ExtractionRecipesForItem(itemID int64) []*catalog.ExtractionRecipe {
	return s.snapshot().ExtractionRecipesForItem(itemID)
}

func (s *Store) CargoSkillName(cargoID int64) (string, bool) {
	return s.snapshot().CargoSkillName(cargoID)
}

func (s *Store) ItemCargoDerivation(itemID int64) (string, bool) {
	return s.snapshot().ItemCargoDerivation(itemID)
}

func (s *Store) ItemListDerivation(itemID int64) (string, bool) {
	return s.snapshot().ItemListDerivation(itemID)
}

func (s *Store) Version() int64 {
	return s.snapshot().Version()
}

func (s *Store) NamedEntities() []NamedEntity {
	return s.snapshot().NamedEntities()
}
