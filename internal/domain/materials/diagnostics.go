package materials

import (
	"fmt"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// DiagnosticKind classifies a data-quality warning raised during expansion
type DiagnosticKind string

const (
	// DiagnosticUnresolvedEntity marks an id that did not resolve in the
	// catalog and was dropped from the tree
	DiagnosticUnresolvedEntity DiagnosticKind = "unresolved-entity"

	// DiagnosticDepthCapped marks a branch cut by the recursion depth
	// ceiling, usually a cyclic recipe graph
	DiagnosticDepthCapped DiagnosticKind = "depth-capped"
)

// Diagnostic is one non-fatal warning surfaced alongside a computed tree.
// The computation itself never fails on malformed catalog data; the
// diagnostics make the holes observable instead of silent.
type Diagnostic struct {
	Kind    DiagnosticKind
	Entity  catalog.EntityKey
	Context string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Entity, d.Context)
}
