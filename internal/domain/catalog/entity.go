package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityKind discriminates the three kinds of craftable things.
// Every traversal that switches on the kind must handle all three
// and reject anything else.
type EntityKind string

const (
	// KindItem is a stackable crafted or gathered item
	KindItem EntityKind = "item"

	// KindCargo is a bulk good carried one unit at a time
	KindCargo EntityKind = "cargo"

	// KindBuilding is a constructed station, identified by its construction recipe
	KindBuilding EntityKind = "building"
)

// TierUntiered is the sentinel tier meaning "ignore tier rules for this entity"
const TierUntiered = -1

// Valid reports whether the kind is one of the three known kinds
func (k EntityKind) Valid() bool {
	switch k {
	case KindItem, KindCargo, KindBuilding:
		return true
	default:
		return false
	}
}

func (k EntityKind) String() string {
	return string(k)
}

// ParseEntityKind converts a raw string into an EntityKind
func ParseEntityKind(raw string) (EntityKind, error) {
	kind := EntityKind(strings.ToLower(raw))
	if !kind.Valid() {
		return "", &ErrUnknownKind{Raw: raw}
	}
	return kind, nil
}

// EntityKey is the canonical "<kind>-<id>" key used to identify an entity
// across maps, caches, and provenance records. Ids are only unique within
// their kind's namespace, so the kind is always part of the key.
type EntityKey string

// NewEntityKey builds the canonical key for an entity
func NewEntityKey(kind EntityKind, id int64) EntityKey {
	return EntityKey(string(kind) + "-" + strconv.FormatInt(id, 10))
}

// Parse splits a key back into its kind and id
func (k EntityKey) Parse() (EntityKind, int64, error) {
	idx := strings.LastIndex(string(k), "-")
	if idx <= 0 {
		return "", 0, fmt.Errorf("malformed entity key %q", string(k))
	}

	kind, err := ParseEntityKind(string(k[:idx]))
	if err != nil {
		return "", 0, fmt.Errorf("malformed entity key %q: %w", string(k), err)
	}

	id, err := strconv.ParseInt(string(k[idx+1:]), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed entity key %q: %w", string(k), err)
	}

	return kind, id, nil
}

func (k EntityKey) String() string {
	return string(k)
}

// Item is a stackable entity with tier progression and an optional
// externally precomputed crafting cost. A nil cost means "unknown" and
// sorts after every known cost during recipe selection.
type Item struct {
	ID   int64
	Name string
	Tier int
	Tag  string
	Cost *float64
}

// Key returns the item's canonical entity key
func (i *Item) Key() EntityKey {
	return NewEntityKey(KindItem, i.ID)
}

// Untiered reports whether tier rules are suspended for this item
func (i *Item) Untiered() bool {
	return i.Tier == TierUntiered
}

// Cargo is a bulk good. Cargo may have a producing recipe of its own;
// when it has none it is a gathered leaf.
type Cargo struct {
	ID   int64
	Name string
	Tier int
}

// Key returns the cargo's canonical entity key
func (c *Cargo) Key() EntityKey {
	return NewEntityKey(KindCargo, c.ID)
}

// BuildingDesc carries the display metadata for a constructed building.
// The buildable unit itself is the ConstructionRecipe; the desc is what
// players see.
type BuildingDesc struct {
	ID   int64
	Name string
}
