package materials

import (
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// FlatMaterial is one row per distinct entity appearing anywhere in a
// tree, keyed by kind+id. Step and Profession are properties of the
// entity under the loaded catalog, not of any particular tree position:
// recomputing them for the same entity and catalog version is idempotent.
type FlatMaterial struct {
	Kind       catalog.EntityKind
	EntityID   int64
	Name       string
	Tier       int
	Quantity   int64
	Step       int
	Profession string
}

// Key returns the row's canonical entity key
func (m *FlatMaterial) Key() catalog.EntityKey {
	return catalog.NewEntityKey(m.Kind, m.EntityID)
}

// Contribution is one provenance edge: QuantityUsed units of the parent
// entity's inventory indirectly covered Covered units of this child's
// requirement.
type Contribution struct {
	ChildKey     catalog.EntityKey
	ParentKey    catalog.EntityKey
	QuantityUsed int64
	Covered      int64
}

// Requirement extends a flat material with the inventory-propagation
// outcome. Invariants: 0 <= Remaining <= BaseRequired and
// Have + Remaining == BaseRequired, always.
type Requirement struct {
	FlatMaterial

	// BaseRequired is the stable full-tree amount assuming zero inventory
	BaseRequired int64

	// Remaining is what is still needed after propagating inventory
	Remaining int64

	// Have is the amount covered, directly or by an ancestor's surplus
	Have int64

	// IsComplete is Remaining == 0
	IsComplete bool

	// ParentContributions explains which ancestor's surplus covered
	// which share of this requirement, aggregated per ancestor
	ParentContributions []Contribution
}

// RequirementGroup is one display bucket of requirements with its
// aggregate totals.
type RequirementGroup struct {
	Label          string
	Requirements   []*Requirement
	TotalRequired  int64
	TotalAvailable int64
	IsComplete     bool
}

// StepProfessionGroup is one step bucket subdivided by profession
type StepProfessionGroup struct {
	Label       string
	Step        int
	Professions []*RequirementGroup
}

// NewRequirementGroup builds a group and computes its aggregates
func NewRequirementGroup(label string, requirements []*Requirement) *RequirementGroup {
	group := &RequirementGroup{
		Label:        label,
		Requirements: requirements,
		IsComplete:   true,
	}
	for _, req := range requirements {
		group.TotalRequired += req.BaseRequired
		group.TotalAvailable += req.Have
		if !req.IsComplete {
			group.IsComplete = false
		}
	}
	return group
}
