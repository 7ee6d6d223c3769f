package services

import (
	"sync"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

const (
	// ProfessionCrafting is the fallback for craftable items whose recipe
	// names no skill, station, or tag
	ProfessionCrafting = "Crafting"

	// ProfessionGathering is the final fallback for raw materials
	ProfessionGathering = "Gathering"

	// ProfessionConstruction classifies every building
	ProfessionConstruction = "Construction"
)

// Classifier computes each entity's natural step (topological depth in
// the recipe graph, 1 = raw/gathered) and profession (source skill).
// Both are properties of the entity under the loaded catalog, not of any
// tree position, so results memoize permanently per catalog version.
//
// The caches are guarded by a mutex because the catalog watcher may
// invalidate them concurrently with a computation; within one
// computation all calls are sequential.
type Classifier struct {
	catalog  catalog.Catalog
	selector *RecipeSelector

	mu               sync.Mutex
	version          int64
	itemSteps        map[int64]int
	cargoSteps       map[int64]int
	itemProfessions  map[int64]string
	cargoProfessions map[int64]string
}

// NewClassifier creates a classifier with empty caches
func NewClassifier(cat catalog.Catalog, selector *RecipeSelector) *Classifier {
	c := &Classifier{
		catalog:  cat,
		selector: selector,
	}
	c.resetCaches()
	return c
}

// Clear drops all memoized steps and professions. Invoked on catalog
// reload, before any subsequent read.
func (c *Classifier) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetCaches()
}

func (c *Classifier) resetCaches() {
	c.version = c.catalog.Version()
	c.itemSteps = make(map[int64]int)
	c.cargoSteps = make(map[int64]int)
	c.itemProfessions = make(map[int64]string)
	c.cargoProfessions = make(map[int64]string)
}

// ensureVersion invalidates stale caches if the catalog was replaced
// since they were populated. Callers hold the mutex.
func (c *Classifier) ensureVersion() {
	if c.version != c.catalog.Version() {
		c.resetCaches()
	}
}

// Step returns the natural step for any entity kind. Buildings have no
// step of their own and classify as step 1.
func (c *Classifier) Step(kind catalog.EntityKind, id int64) int {
	switch kind {
	case catalog.KindItem:
		return c.ItemStep(id)
	case catalog.KindCargo:
		return c.CargoStep(id)
	default:
		return 1
	}
}

// ItemStep computes the item's topological depth in the recipe graph.
// Step 1 means no valid recipe (raw or gathered); otherwise one more
// than the deepest item-ingredient of the cheapest valid recipe, where
// any cargo ingredient contributes a flat depth of 1.
func (c *Classifier) ItemStep(id int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureVersion()
	return c.itemStepLocked(id, make(map[int64]bool), make(map[int64]bool))
}

// CargoStep is the cargo analogue of ItemStep, using cargo-producing
// recipes and recursing mutually into item steps.
func (c *Classifier) CargoStep(id int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureVersion()
	return c.cargoStepLocked(id, make(map[int64]bool), make(map[int64]bool))
}

func (c *Classifier) itemStepLocked(id int64, visitedItems, visitedCargo map[int64]bool) int {
	if step, ok := c.itemSteps[id]; ok {
		return step
	}
	// Revisit within the current call chain means a recipe cycle: break
	// it with the raw-material default instead of recursing forever
	if visitedItems[id] {
		return 1
	}
	visitedItems[id] = true
	defer delete(visitedItems, id)

	tier := catalog.TierUntiered
	if item, ok := c.catalog.ItemByID(id); ok {
		tier = item.Tier
	}

	recipe, ok := c.selector.CheapestValidRecipe(c.catalog.RecipesForItem(id), tier)
	if !ok {
		c.itemSteps[id] = 1
		return 1
	}

	deepest := 0
	for _, stack := range recipe.ItemIngredients {
		if step := c.itemStepLocked(stack.EntityID, visitedItems, visitedCargo); step > deepest {
			deepest = step
		}
	}
	if len(recipe.CargoIngredients) > 0 && deepest < 1 {
		deepest = 1
	}

	step := 1 + deepest
	c.itemSteps[id] = step
	return step
}

func (c *Classifier) cargoStepLocked(id int64, visitedItems, visitedCargo map[int64]bool) int {
	if step, ok := c.cargoSteps[id]; ok {
		return step
	}
	if visitedCargo[id] {
		return 1
	}
	visitedCargo[id] = true
	defer delete(visitedCargo, id)

	tier := catalog.TierUntiered
	if cargo, ok := c.catalog.CargoByID(id); ok {
		tier = cargo.Tier
	}

	recipe, ok := c.selector.CheapestValidRecipe(c.catalog.RecipesForCargo(id), tier)
	if !ok {
		c.cargoSteps[id] = 1
		return 1
	}

	deepest := 0
	for _, stack := range recipe.ItemIngredients {
		if step := c.itemStepLocked(stack.EntityID, visitedItems, visitedCargo); step > deepest {
			deepest = step
		}
	}
	if len(recipe.CargoIngredients) > 0 && deepest < 1 {
		deepest = 1
	}

	step := 1 + deepest
	c.cargoSteps[id] = step
	return step
}

// Profession returns the producing skill for any entity kind
func (c *Classifier) Profession(kind catalog.EntityKind, id int64) string {
	switch kind {
	case catalog.KindItem:
		return c.ItemProfession(id)
	case catalog.KindCargo:
		return c.CargoProfession(id)
	default:
		return ProfessionConstruction
	}
}

// ItemProfession resolves the skill that produces an item, by priority:
// explicit cargo-derivation mapping, explicit item-list derivation
// mapping, the cheapest valid crafting recipe's first skill requirement
// (falling back to its station, then the item's tag, then "Crafting"),
// the first extraction recipe's first skill requirement, and finally
// "Gathering".
func (c *Classifier) ItemProfession(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureVersion()

	if profession, ok := c.itemProfessions[id]; ok {
		return profession
	}

	profession := c.computeItemProfession(id)
	c.itemProfessions[id] = profession
	return profession
}

func (c *Classifier) computeItemProfession(id int64) string {
	if skill, ok := c.catalog.ItemCargoDerivation(id); ok && skill != "" {
		return skill
	}
	if skill, ok := c.catalog.ItemListDerivation(id); ok && skill != "" {
		return skill
	}

	tier := catalog.TierUntiered
	tag := ""
	if item, ok := c.catalog.ItemByID(id); ok {
		tier = item.Tier
		tag = item.Tag
	}

	if recipe, ok := c.selector.CheapestValidRecipe(c.catalog.RecipesForItem(id), tier); ok {
		if len(recipe.LevelRequirements) > 0 && recipe.LevelRequirements[0].SkillName != "" {
			return recipe.LevelRequirements[0].SkillName
		}
		if recipe.Station != "" {
			return recipe.Station
		}
		if tag != "" {
			return tag
		}
		return ProfessionCrafting
	}

	for _, extraction := range c.catalog.ExtractionRecipesForItem(id) {
		if len(extraction.LevelRequirements) > 0 && extraction.LevelRequirements[0].SkillName != "" {
			return extraction.LevelRequirements[0].SkillName
		}
		break
	}

	return ProfessionGathering
}

// CargoProfession is a direct lookup in the cargo-to-skill map with the
// gathering fallback
func (c *Classifier) CargoProfession(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureVersion()

	if profession, ok := c.cargoProfessions[id]; ok {
		return profession
	}

	profession := ProfessionGathering
	if skill, ok := c.catalog.CargoSkillName(id); ok && skill != "" {
		profession = skill
	}
	c.cargoProfessions[id] = profession
	return profession
}
