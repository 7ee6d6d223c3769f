package services

import (
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// Flattener aggregates material trees into one row per distinct entity,
// discarding positional structure. Root nodes are excluded: they are the
// user's requested end-products and are shown separately.
type Flattener struct {
	classifier *Classifier
}

// NewFlattener creates a flattener using the classifier for step and
// profession of each first-seen entity
func NewFlattener(classifier *Classifier) *Flattener {
	return &Flattener{classifier: classifier}
}

// Flatten walks every tree pre-order and merges repeated entities.
// A repeated occurrence adds its quantity to the running total and keeps
// the minimum step observed: an entity reachable both shallow and deep
// is classified at its shallowest step. Aggregation is shared across
// trees, so one row covers all roots. Rows come back in first-seen
// order, which is deterministic because tree child order follows the
// recipes' declared ingredient order.
func (f *Flattener) Flatten(trees []*materials.MaterialNode) []*materials.FlatMaterial {
	rows := make([]*materials.FlatMaterial, 0)
	byKey := make(map[catalog.EntityKey]*materials.FlatMaterial)

	for _, tree := range trees {
		if tree == nil {
			continue
		}
		for _, child := range tree.Children {
			f.flattenNode(child, byKey, &rows)
		}
	}

	return rows
}

func (f *Flattener) flattenNode(
	node *materials.MaterialNode,
	byKey map[catalog.EntityKey]*materials.FlatMaterial,
	rows *[]*materials.FlatMaterial,
) {
	key := node.Key()
	step := f.classifier.Step(node.Kind, node.EntityID)

	if row, seen := byKey[key]; seen {
		row.Quantity += node.Quantity
		if step < row.Step {
			row.Step = step
		}
	} else {
		row = &materials.FlatMaterial{
			Kind:       node.Kind,
			EntityID:   node.EntityID,
			Name:       node.Name,
			Tier:       node.Tier,
			Quantity:   node.Quantity,
			Step:       step,
			Profession: f.classifier.Profession(node.Kind, node.EntityID),
		}
		byKey[key] = row
		*rows = append(*rows, row)
	}

	for _, child := range node.Children {
		f.flattenNode(child, byKey, rows)
	}
}
