package lists

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// ListEntry is one user-chosen root request: an entity, the quantity
// wanted, and for items an optional explicit recipe id that overrides
// selection for the top-level entity only.
type ListEntry struct {
	Kind             catalog.EntityKind
	EntityID         int64
	Quantity         int64
	ExplicitRecipeID int64
}

// Key returns the entry entity's canonical key
func (e ListEntry) Key() catalog.EntityKey {
	return catalog.NewEntityKey(e.Kind, e.EntityID)
}

// RecipePreferences overrides recipe selection for any node in the tree,
// not just roots. Absent entries fall back to the cheapest valid recipe.
type RecipePreferences map[catalog.EntityKey]int64

// CraftingList is the aggregate root for one user-defined list: an
// ordered set of root requests plus recipe preferences and the inventory
// sources enabled for it (empty means all sources).
type CraftingList struct {
	id               string
	name             string
	entries          []ListEntry
	preferences      RecipePreferences
	enabledSourceIDs []string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewCraftingList creates an empty list
func NewCraftingList(id, name string) *CraftingList {
	now := time.Now()
	return &CraftingList{
		id:          id,
		name:        name,
		entries:     make([]ListEntry, 0),
		preferences: make(RecipePreferences),
		createdAt:   now,
		updatedAt:   now,
	}
}

// RestoreCraftingList rebuilds a list from persisted state
func RestoreCraftingList(
	id, name string,
	entries []ListEntry,
	preferences RecipePreferences,
	enabledSourceIDs []string,
	createdAt, updatedAt time.Time,
) *CraftingList {
	if preferences == nil {
		preferences = make(RecipePreferences)
	}
	return &CraftingList{
		id:               id,
		name:             name,
		entries:          entries,
		preferences:      preferences,
		enabledSourceIDs: enabledSourceIDs,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (l *CraftingList) ID() string          { return l.id }
func (l *CraftingList) Name() string        { return l.name }
func (l *CraftingList) CreatedAt() time.Time { return l.createdAt }
func (l *CraftingList) UpdatedAt() time.Time { return l.updatedAt }

// Entries returns the ordered root requests
func (l *CraftingList) Entries() []ListEntry {
	return l.entries
}

// Preferences returns the recipe preference map
func (l *CraftingList) Preferences() RecipePreferences {
	return l.preferences
}

// EnabledSourceIDs returns the inventory sources enabled for this list.
// Empty means all sources.
func (l *CraftingList) EnabledSourceIDs() []string {
	return l.enabledSourceIDs
}

// Rename changes the display name
func (l *CraftingList) Rename(name string) {
	l.name = name
	l.touch()
}

// AddEntry appends a root request to the list
func (l *CraftingList) AddEntry(entry ListEntry) error {
	if !entry.Kind.Valid() {
		return &ErrInvalidEntry{Reason: fmt.Sprintf("unknown kind %q", entry.Kind)}
	}
	if entry.Quantity < 1 {
		return &ErrInvalidEntry{Reason: fmt.Sprintf("quantity must be >= 1, got %d", entry.Quantity)}
	}
	if entry.ExplicitRecipeID != 0 && entry.Kind != catalog.KindItem {
		return &ErrInvalidEntry{Reason: "explicit recipes apply to item entries only"}
	}
	l.entries = append(l.entries, entry)
	l.touch()
	return nil
}

// RemoveEntry deletes the entry at index, preserving order of the rest
func (l *CraftingList) RemoveEntry(index int) error {
	if index < 0 || index >= len(l.entries) {
		return &ErrEntryOutOfRange{Index: index, Count: len(l.entries)}
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	l.touch()
	return nil
}

// SetPreference records a recipe override for an entity key. A zero
// recipe id clears the override.
func (l *CraftingList) SetPreference(key catalog.EntityKey, recipeID int64) {
	if recipeID == 0 {
		delete(l.preferences, key)
	} else {
		l.preferences[key] = recipeID
	}
	l.touch()
}

// SetEnabledSources replaces the enabled inventory source set
func (l *CraftingList) SetEnabledSources(sourceIDs []string) {
	l.enabledSourceIDs = sourceIDs
	l.touch()
}

// ContentHash is the deterministic digest over entries and preferences
// used as the tree-cache key. Two lists with identical entries (in
// order) and identical preferences hash the same regardless of name,
// sources, or preference insertion order.
func (l *CraftingList) ContentHash() string {
	digest := xxhash.New()

	for _, entry := range l.entries {
		writeHashField(digest, string(entry.Kind))
		writeHashField(digest, strconv.FormatInt(entry.EntityID, 10))
		writeHashField(digest, strconv.FormatInt(entry.Quantity, 10))
		writeHashField(digest, strconv.FormatInt(entry.ExplicitRecipeID, 10))
	}

	keys := make([]string, 0, len(l.preferences))
	for key := range l.preferences {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)
	for _, key := range keys {
		writeHashField(digest, key)
		writeHashField(digest, strconv.FormatInt(l.preferences[catalog.EntityKey(key)], 10))
	}

	return strconv.FormatUint(digest.Sum64(), 16)
}

func (l *CraftingList) touch() {
	l.updatedAt = time.Now()
}

func writeHashField(digest *xxhash.Digest, field string) {
	// Digest.WriteString never returns an error
	_, _ = digest.WriteString(field)
	_, _ = digest.WriteString("\x00")
}
