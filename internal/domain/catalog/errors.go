package catalog

import "fmt"

// Domain errors for catalog lookups

// ErrUnknownKind indicates a string that names none of the three entity kinds
type ErrUnknownKind struct {
	Raw string
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown entity kind: %q", e.Raw)
}

// ErrEntityNotFound indicates an id that does not resolve in the loaded catalog
type ErrEntityNotFound struct {
	Kind EntityKind
	ID   int64
}

func (e *ErrEntityNotFound) Error() string {
	return fmt.Sprintf("%s %d not found in catalog", e.Kind, e.ID)
}

// ErrRecipeNotFound indicates a recipe id that does not resolve
type ErrRecipeNotFound struct {
	ID int64
}

func (e *ErrRecipeNotFound) Error() string {
	return fmt.Sprintf("recipe %d not found in catalog", e.ID)
}
