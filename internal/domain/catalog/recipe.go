package catalog

import "math"

// Stack is a quantity of one entity consumed by a recipe
type Stack struct {
	EntityID int64
	Quantity int64
}

// LevelRequirement is a skill gate on a recipe (skill name plus minimum level)
type LevelRequirement struct {
	SkillName string
	Level     int
}

// Recipe transforms item and cargo inputs into a quantity of one output
// entity. A recipe with no inputs of either kind carries no information
// and is filtered out before selection.
type Recipe struct {
	ID               int64
	OutputKind       EntityKind
	OutputID         int64
	OutputQuantity   int64
	ItemIngredients  []Stack
	CargoIngredients []Stack
	Cost             *float64
	LevelRequirements []LevelRequirement
	Station          string
}

// HasIngredients reports whether the recipe consumes anything at all
func (r *Recipe) HasIngredients() bool {
	return len(r.ItemIngredients) > 0 || len(r.CargoIngredients) > 0
}

// CostOrInf returns the recipe cost, normalizing an unknown cost to +Inf
// so it sorts after every known cost. NaN never reaches a comparison.
func (r *Recipe) CostOrInf() float64 {
	if r.Cost == nil || math.IsNaN(*r.Cost) {
		return math.Inf(1)
	}
	return *r.Cost
}

// ExtractionRecipe describes how an item is obtained from the world
// (mining, foraging and the like) rather than crafted. Only its skill
// requirements matter to the engine: they are the profession fallback
// for items with no crafting recipe.
type ExtractionRecipe struct {
	ID                int64
	ItemID            int64
	LevelRequirements []LevelRequirement
}

// ConstructionRecipe is the buildable unit for a building: the item and
// cargo stacks it consumes, plus an optional prerequisite building that
// must exist first (a linear upgrade chain).
type ConstructionRecipe struct {
	ID                    int64
	BuildingDescID        int64
	ConsumedItemStacks    []Stack
	ConsumedCargoStacks   []Stack
	UpgradeFromBuildingID int64
}

// HasUpgradePrerequisite reports whether this building upgrades from another
func (r *ConstructionRecipe) HasUpgradePrerequisite() bool {
	return r.UpgradeFromBuildingID != 0
}
