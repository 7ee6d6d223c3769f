package materials

import (
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// HaveMap is an on-hand quantity per entity id, scoped to one entity kind
type HaveMap map[int64]int64

// Quantity returns the on-hand amount for an entity, zero when absent
func (h HaveMap) Quantity(entityID int64) int64 {
	return h[entityID]
}

// Merge returns a copy of h with every entry of overrides applied on top.
// Used for manual item overrides, which take precedence over computed
// on-hand inventory.
func (h HaveMap) Merge(overrides HaveMap) HaveMap {
	merged := make(HaveMap, len(h)+len(overrides))
	for id, qty := range h {
		merged[id] = qty
	}
	for id, qty := range overrides {
		merged[id] = qty
	}
	return merged
}

// CheckedOffSet is the set of entity keys the user marked as done.
// A checked-off entity is treated as having infinite supply: fully
// satisfied at every tree position without consuming real inventory.
type CheckedOffSet map[catalog.EntityKey]struct{}

// NewCheckedOffSet builds a set from a list of keys
func NewCheckedOffSet(keys ...catalog.EntityKey) CheckedOffSet {
	set := make(CheckedOffSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

// Contains reports whether the key is checked off
func (s CheckedOffSet) Contains(key catalog.EntityKey) bool {
	_, ok := s[key]
	return ok
}
