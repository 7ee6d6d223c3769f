package materials

import (
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// MaterialNode is one position in the recursive expansion of a requested
// entity into its full ingredient breakdown. The node is a tagged union
// over the three entity kinds: Kind is the discriminator and every
// traversal must switch on it exhaustively.
//
// A node is exclusively owned by the tree that contains it. Trees are
// rebuilt wholesale when their list changes, never mutated node-by-node,
// and contain no back-edges: cyclic recipe graphs are cut during
// expansion, so a built tree is always acyclic.
type MaterialNode struct {
	// Kind discriminates item, cargo and building nodes
	Kind catalog.EntityKind

	// EntityID identifies the entity within its kind's namespace
	EntityID int64

	// Name is the entity's display name, resolved at build time
	Name string

	// Tier is the entity's progression rank; catalog.TierUntiered
	// suspends tier rules
	Tier int

	// Quantity required at this position. Always >= 1 in a built tree.
	Quantity int64

	// Recipe used to produce this node; nil for leaves (raw materials,
	// unproducible cargo, depth-capped nodes)
	Recipe *catalog.Recipe

	// Construction is set instead of Recipe for building nodes
	Construction *catalog.ConstructionRecipe

	// Children are the ingredient expansions, ordered by the recipe's
	// declared ingredient order
	Children []*MaterialNode
}

// Key returns the node entity's canonical "<kind>-<id>" key
func (n *MaterialNode) Key() catalog.EntityKey {
	return catalog.NewEntityKey(n.Kind, n.EntityID)
}

// IsLeaf reports whether this node has no ingredient expansion
func (n *MaterialNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// OutputQuantity returns the produced-per-craft amount of the node's
// recipe. Leaves and buildings produce one per craft: buildings are
// never batched, so the full requested amount is always crafted.
func (n *MaterialNode) OutputQuantity() int64 {
	if n.Recipe != nil && n.Recipe.OutputQuantity > 0 {
		return n.Recipe.OutputQuantity
	}
	return 1
}

// TotalDepth returns the maximum depth of the tree rooted at this node
func (n *MaterialNode) TotalDepth() int {
	if n.IsLeaf() {
		return 1
	}
	maxChild := 0
	for _, child := range n.Children {
		if d := child.TotalDepth(); d > maxChild {
			maxChild = d
		}
	}
	return maxChild + 1
}

// CountNodes returns the total number of nodes in the tree
func (n *MaterialNode) CountNodes() int {
	count := 1
	for _, child := range n.Children {
		count += child.CountNodes()
	}
	return count
}

// Walk visits the tree pre-order, parents before children, children in
// ingredient order. Returning false from visit stops the walk.
func (n *MaterialNode) Walk(visit func(node *MaterialNode) bool) bool {
	if !visit(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(visit) {
			return false
		}
	}
	return true
}
