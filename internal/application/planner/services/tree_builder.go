package services

import (
	"context"
	"fmt"

	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/pkg/utils"
)

// DefaultMaxDepth bounds tree recursion. It is the only runaway guard
// for cyclic or degenerate recipe graphs: a branch that reaches it is
// cut into a leaf instead of recursing further.
const DefaultMaxDepth = 50

// TreeBuilder expands a requested (entity, quantity) pair into a
// material tree, selecting one recipe per node and recursing into its
// ingredients. Expansion never fails on malformed catalog data: ids
// that do not resolve are dropped from the tree and surfaced as
// diagnostics on the result.
type TreeBuilder struct {
	catalog  catalog.Catalog
	selector *RecipeSelector
	maxDepth int
}

// NewTreeBuilder creates a builder with the default depth ceiling
func NewTreeBuilder(cat catalog.Catalog, selector *RecipeSelector) *TreeBuilder {
	return NewTreeBuilderWithDepth(cat, selector, DefaultMaxDepth)
}

// NewTreeBuilderWithDepth creates a builder with a custom depth ceiling
func NewTreeBuilderWithDepth(cat catalog.Catalog, selector *RecipeSelector, maxDepth int) *TreeBuilder {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &TreeBuilder{
		catalog:  cat,
		selector: selector,
		maxDepth: maxDepth,
	}
}

// BuildForEntry expands one list entry into its material tree.
//
// The returned tree is nil when the entry's entity id does not resolve;
// that case and every dropped ingredient appear in the diagnostics
// slice. The entry's explicit recipe id applies to the root node only;
// the preference map applies at every node.
func (b *TreeBuilder) BuildForEntry(
	ctx context.Context,
	entry lists.ListEntry,
	preferences lists.RecipePreferences,
) (*materials.MaterialNode, []materials.Diagnostic) {
	state := &buildState{preferences: preferences}

	var tree *materials.MaterialNode
	switch entry.Kind {
	case catalog.KindItem:
		tree = b.buildItem(state, entry.EntityID, entry.Quantity, entry.ExplicitRecipeID, 0)
	case catalog.KindCargo:
		tree = b.buildCargo(state, entry.EntityID, entry.Quantity, 0)
	case catalog.KindBuilding:
		tree = b.buildBuilding(state, entry.EntityID, entry.Quantity, 0)
	default:
		state.warn(materials.DiagnosticUnresolvedEntity, entry.Key(), "unknown entity kind")
	}

	logger := common.LoggerFromContext(ctx)
	if tree != nil {
		logger.Log("debug", "material tree built", map[string]interface{}{
			"root":        string(entry.Key()),
			"quantity":    entry.Quantity,
			"nodes":       tree.CountNodes(),
			"diagnostics": len(state.diagnostics),
		})
	} else {
		logger.Log("warn", "material tree root did not resolve", map[string]interface{}{
			"root": string(entry.Key()),
		})
	}

	return tree, state.diagnostics
}

// buildState carries per-build inputs and the diagnostics accumulator
type buildState struct {
	preferences lists.RecipePreferences
	diagnostics []materials.Diagnostic
	warned      map[materials.Diagnostic]bool
}

func (s *buildState) warn(kind materials.DiagnosticKind, key catalog.EntityKey, context string) {
	diagnostic := materials.Diagnostic{
		Kind:    kind,
		Entity:  key,
		Context: context,
	}
	if s.warned[diagnostic] {
		return
	}
	if s.warned == nil {
		s.warned = make(map[materials.Diagnostic]bool)
	}
	s.warned[diagnostic] = true
	s.diagnostics = append(s.diagnostics, diagnostic)
}

// warnUnresolvedIngredients records recipes rejected over item ids
// missing from the catalog. The recipe itself is already gone; these
// warnings are the only trace of the data hole.
func (s *buildState) warnUnresolvedIngredients(ids []int64) {
	for _, id := range ids {
		s.warn(materials.DiagnosticUnresolvedEntity, catalog.NewEntityKey(catalog.KindItem, id), "recipe ingredient")
	}
}

func (b *TreeBuilder) buildItem(state *buildState, id, quantity, explicitRecipeID int64, depth int) *materials.MaterialNode {
	item, ok := b.catalog.ItemByID(id)
	if !ok {
		state.warn(materials.DiagnosticUnresolvedEntity, catalog.NewEntityKey(catalog.KindItem, id), "item lookup")
		return nil
	}

	node := &materials.MaterialNode{
		Kind:     catalog.KindItem,
		EntityID: id,
		Name:     item.Name,
		Tier:     item.Tier,
		Quantity: quantity,
	}

	if depth >= b.maxDepth {
		state.warn(materials.DiagnosticDepthCapped, node.Key(), fmt.Sprintf("depth %d", depth))
		return node
	}

	valid, unresolved := b.selector.FilterValidRecipesReport(b.catalog.RecipesForItem(id), item.Tier)
	state.warnUnresolvedIngredients(unresolved)
	recipe, ok := b.selector.SelectRecipe(valid, node.Key(), explicitRecipeID, state.preferences)
	if !ok {
		// No valid recipe: a true raw material, or one we treat as such
		return node
	}

	node.Recipe = recipe
	craftCount := utils.CeilDiv(quantity, recipe.OutputQuantity)
	b.expandIngredients(state, node, recipe.ItemIngredients, recipe.CargoIngredients, craftCount, depth)
	return node
}

func (b *TreeBuilder) buildCargo(state *buildState, id, quantity int64, depth int) *materials.MaterialNode {
	cargo, ok := b.catalog.CargoByID(id)
	if !ok {
		state.warn(materials.DiagnosticUnresolvedEntity, catalog.NewEntityKey(catalog.KindCargo, id), "cargo lookup")
		return nil
	}

	node := &materials.MaterialNode{
		Kind:     catalog.KindCargo,
		EntityID: id,
		Name:     cargo.Name,
		Tier:     cargo.Tier,
		Quantity: quantity,
	}

	if depth >= b.maxDepth {
		state.warn(materials.DiagnosticDepthCapped, node.Key(), fmt.Sprintf("depth %d", depth))
		return node
	}

	valid, unresolved := b.selector.FilterValidRecipesReport(b.catalog.RecipesForCargo(id), cargo.Tier)
	state.warnUnresolvedIngredients(unresolved)
	recipe, ok := b.selector.SelectRecipe(valid, node.Key(), 0, state.preferences)
	if !ok {
		// Gathered cargo leaf
		return node
	}

	node.Recipe = recipe
	craftCount := utils.CeilDiv(quantity, recipe.OutputQuantity)
	b.expandIngredients(state, node, recipe.ItemIngredients, recipe.CargoIngredients, craftCount, depth)
	return node
}

func (b *TreeBuilder) buildBuilding(state *buildState, descID, quantity int64, depth int) *materials.MaterialNode {
	desc, ok := b.catalog.BuildingDescByID(descID)
	if !ok {
		state.warn(materials.DiagnosticUnresolvedEntity, catalog.NewEntityKey(catalog.KindBuilding, descID), "building lookup")
		return nil
	}

	// Buildings are never batched: the full requested amount is built,
	// so every consumed stack scales by the quantity directly
	node := &materials.MaterialNode{
		Kind:     catalog.KindBuilding,
		EntityID: descID,
		Name:     desc.Name,
		Tier:     catalog.TierUntiered,
		Quantity: quantity,
	}

	if depth >= b.maxDepth {
		state.warn(materials.DiagnosticDepthCapped, node.Key(), fmt.Sprintf("depth %d", depth))
		return node
	}

	construction, ok := b.catalog.ConstructionRecipeForBuilding(descID)
	if !ok {
		return node
	}

	node.Construction = construction
	b.expandIngredients(state, node, construction.ConsumedItemStacks, construction.ConsumedCargoStacks, quantity, depth)

	if construction.HasUpgradePrerequisite() {
		prerequisite := b.buildBuilding(state, construction.UpgradeFromBuildingID, quantity, depth+1)
		if prerequisite != nil {
			node.Children = append(node.Children, prerequisite)
		}
	}

	return node
}

// expandIngredients recurses into item then cargo stacks in declared
// order, multiplying each stack by the craft count. Children that do
// not resolve are dropped; the buildState records the hole.
func (b *TreeBuilder) expandIngredients(
	state *buildState,
	parent *materials.MaterialNode,
	itemStacks, cargoStacks []catalog.Stack,
	craftCount int64,
	depth int,
) {
	for _, stack := range itemStacks {
		child := b.buildItem(state, stack.EntityID, stack.Quantity*craftCount, 0, depth+1)
		if child != nil {
			parent.Children = append(parent.Children, child)
		}
	}
	for _, stack := range cargoStacks {
		child := b.buildCargo(state, stack.EntityID, stack.Quantity*craftCount, depth+1)
		if child != nil {
			parent.Children = append(parent.Children, child)
		}
	}
}
