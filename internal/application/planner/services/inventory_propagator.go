package services

import (
	"math"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/pkg/utils"
)

// Need accumulates one entity's propagation outcome across every tree
// position it appears at.
type Need struct {
	BaseRequired int64
	Remaining    int64
}

// PropagationResult is the outcome of one propagation pass: per-entity
// needs plus the contribution edge set. Both remaining amounts and
// provenance derive from the same edges, recorded in a single pass.
type PropagationResult struct {
	Needs         map[catalog.EntityKey]*Need
	Contributions []materials.Contribution
}

// InventoryPropagator walks material trees depth-first, consuming the
// on-hand inventory to compute what is still needed per node, and
// records which ancestor's surplus covered which descendant.
//
// The used-so-far counters are shared across all trees within one call:
// a second root's need for an ingredient sees the first root's
// consumption. Each call starts from fresh counters, so a repeat call
// with identical inputs is idempotent.
type InventoryPropagator struct{}

// NewInventoryPropagator creates a propagator
func NewInventoryPropagator() *InventoryPropagator {
	return &InventoryPropagator{}
}

// propagation is the per-call state
type propagation struct {
	haveItems  materials.HaveMap
	haveCargo  materials.HaveMap
	checkedOff materials.CheckedOffSet

	used          map[catalog.EntityKey]int64
	needs         map[catalog.EntityKey]*Need
	contributions []materials.Contribution
}

// Propagate runs one pass over the trees. For every node it holds
// 0 <= stillNeeded <= needed by construction, so remaining never
// exceeds baseRequired and never goes negative.
func (p *InventoryPropagator) Propagate(
	trees []*materials.MaterialNode,
	haveItems, haveCargo materials.HaveMap,
	checkedOff materials.CheckedOffSet,
) *PropagationResult {
	run := &propagation{
		haveItems:  haveItems,
		haveCargo:  haveCargo,
		checkedOff: checkedOff,
		used:       make(map[catalog.EntityKey]int64),
		needs:      make(map[catalog.EntityKey]*Need),
	}

	for _, tree := range trees {
		if tree != nil {
			run.walk(tree, tree.Quantity)
		}
	}

	return &PropagationResult{
		Needs:         run.needs,
		Contributions: run.contributions,
	}
}

func (run *propagation) walk(node *materials.MaterialNode, needed int64) {
	if needed <= 0 {
		return
	}

	key := node.Key()
	use, still := run.satisfy(node, key, needed)

	need := run.needs[key]
	if need == nil {
		need = &Need{}
		run.needs[key] = need
	}
	need.BaseRequired += needed
	need.Remaining += still

	if node.IsLeaf() {
		return
	}

	// Child quantities were built for node.Quantity. Rescale them in
	// whole crafts: once to this position's needed amount, and once to
	// what is still uncovered after this node's inventory.
	outputQty := node.OutputQuantity()
	builtBatches := utils.CeilDiv(node.Quantity, outputQty)
	neededBatches := utils.CeilDiv(needed, outputQty)
	stillBatches := utils.CeilDiv(still, outputQty)

	for _, child := range node.Children {
		childForNeeded := utils.CeilDiv(child.Quantity*neededBatches, builtBatches)
		if childForNeeded <= 0 {
			continue
		}

		if still == 0 {
			// Full coverage: the whole subtree is subsumed by this
			// node's inventory usage, no quantity recursion required
			run.coverSubtree(child, childForNeeded, key, use)
			continue
		}

		childNeeded := utils.CeilDiv(child.Quantity*stillBatches, builtBatches)
		if coverage := childForNeeded - childNeeded; coverage > 0 {
			run.addContribution(child.Key(), key, use, coverage)
			ratio := float64(coverage) / float64(child.Quantity)
			for _, grandchild := range child.Children {
				run.coverFraction(grandchild, ratio, key, use)
			}
		}
		run.walk(child, childNeeded)
	}
}

// satisfy computes how much of needed this node's inventory covers.
// Checked-off entities satisfy everything without consuming real
// inventory; buildings are never satisfiable at all, though their
// children may still be covered further down.
func (run *propagation) satisfy(node *materials.MaterialNode, key catalog.EntityKey, needed int64) (use, still int64) {
	if node.Kind == catalog.KindBuilding {
		return 0, needed
	}

	if run.checkedOff.Contains(key) {
		return needed, 0
	}

	var have int64
	switch node.Kind {
	case catalog.KindItem:
		have = run.haveItems.Quantity(node.EntityID)
	case catalog.KindCargo:
		have = run.haveCargo.Quantity(node.EntityID)
	}

	available := utils.MaxInt64(0, have-run.used[key])
	use = utils.MinInt64(available, needed)
	run.used[key] += use
	return use, needed - use
}

// coverSubtree records a fully covered descendant subtree: the node
// itself at its exact rescaled amount, its descendants proportionally.
func (run *propagation) coverSubtree(node *materials.MaterialNode, covered int64, covererKey catalog.EntityKey, covererUsed int64) {
	run.addContribution(node.Key(), covererKey, covererUsed, covered)

	if node.Quantity <= 0 {
		return
	}
	ratio := float64(covered) / float64(node.Quantity)
	for _, child := range node.Children {
		run.coverFraction(child, ratio, covererKey, covererUsed)
	}
}

// coverFraction propagates partial coverage fractionally: each
// descendant is covered by the same ratio of its original quantity as
// its parent was. Amounts that round to zero end the branch.
func (run *propagation) coverFraction(node *materials.MaterialNode, ratio float64, covererKey catalog.EntityKey, covererUsed int64) {
	covered := int64(math.Round(float64(node.Quantity) * ratio))
	if covered <= 0 {
		return
	}
	run.addContribution(node.Key(), covererKey, covererUsed, covered)
	for _, child := range node.Children {
		run.coverFraction(child, ratio, covererKey, covererUsed)
	}
}

func (run *propagation) addContribution(childKey, parentKey catalog.EntityKey, quantityUsed, covered int64) {
	run.contributions = append(run.contributions, materials.Contribution{
		ChildKey:     childKey,
		ParentKey:    parentKey,
		QuantityUsed: quantityUsed,
		Covered:      covered,
	})
}
