package lists

import "fmt"

// Domain errors for crafting list operations

// ErrListNotFound indicates a list id with no persisted list
type ErrListNotFound struct {
	ID string
}

func (e *ErrListNotFound) Error() string {
	return fmt.Sprintf("crafting list not found: %s", e.ID)
}

// ErrInvalidEntry indicates a root request that cannot be added
type ErrInvalidEntry struct {
	Reason string
}

func (e *ErrInvalidEntry) Error() string {
	return fmt.Sprintf("invalid list entry: %s", e.Reason)
}

// ErrEntryOutOfRange indicates an entry index outside the list
type ErrEntryOutOfRange struct {
	Index int
	Count int
}

func (e *ErrEntryOutOfRange) Error() string {
	return fmt.Sprintf("entry index %d out of range (list has %d entries)", e.Index, e.Count)
}

// ErrSnapshotNotFound indicates no cached snapshot for a list/hash pair
type ErrSnapshotNotFound struct {
	Key string
}

func (e *ErrSnapshotNotFound) Error() string {
	return fmt.Sprintf("requirement snapshot not found: %s", e.Key)
}
