package gamedata

import (
	"sort"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// NamedEntity is a flat listing row used for catalog search and display
type NamedEntity struct {
	Key  catalog.EntityKey
	Kind catalog.EntityKind
	ID   int64
	Name string
	Tier int
}

// Data is the fully parsed game-data set a Catalog is built from. The
// loader fills it from JSON files; test helpers fill it directly.
type Data struct {
	Items                []*catalog.Item
	Cargo                []*catalog.Cargo
	BuildingDescs        []*catalog.BuildingDesc
	Recipes              []*catalog.Recipe
	ConstructionRecipes  []*catalog.ConstructionRecipe
	ExtractionRecipes    []*catalog.ExtractionRecipe
	CargoSkills          map[int64]string
	ItemCargoDerivations map[int64]string
	ItemListDerivations  map[int64]string
}

// Catalog is the in-memory indexed implementation of the catalog port.
// It is immutable after construction: a reload builds a whole new
// Catalog with a bumped version and swaps it in at the store.
type Catalog struct {
	version int64

	itemsByID          map[int64]*catalog.Item
	cargoByID          map[int64]*catalog.Cargo
	buildingDescsByID  map[int64]*catalog.BuildingDesc
	recipesByItem      map[int64][]*catalog.Recipe
	recipesByCargo     map[int64][]*catalog.Recipe
	constructionByID   map[int64]*catalog.ConstructionRecipe
	constructionByDesc map[int64]*catalog.ConstructionRecipe
	extractionByItem   map[int64][]*catalog.ExtractionRecipe

	cargoSkills          map[int64]string
	itemCargoDerivations map[int64]string
	itemListDerivations  map[int64]string
}

// NewCatalog indexes a data set under the given version
func NewCatalog(data Data, version int64) *Catalog {
	c := &Catalog{
		version:              version,
		itemsByID:            make(map[int64]*catalog.Item, len(data.Items)),
		cargoByID:            make(map[int64]*catalog.Cargo, len(data.Cargo)),
		buildingDescsByID:    make(map[int64]*catalog.BuildingDesc, len(data.BuildingDescs)),
		recipesByItem:        make(map[int64][]*catalog.Recipe),
		recipesByCargo:       make(map[int64][]*catalog.Recipe),
		constructionByID:     make(map[int64]*catalog.ConstructionRecipe, len(data.ConstructionRecipes)),
		constructionByDesc:   make(map[int64]*catalog.ConstructionRecipe, len(data.ConstructionRecipes)),
		extractionByItem:     make(map[int64][]*catalog.ExtractionRecipe),
		cargoSkills:          data.CargoSkills,
		itemCargoDerivations: data.ItemCargoDerivations,
		itemListDerivations:  data.ItemListDerivations,
	}

	if c.cargoSkills == nil {
		c.cargoSkills = make(map[int64]string)
	}
	if c.itemCargoDerivations == nil {
		c.itemCargoDerivations = make(map[int64]string)
	}
	if c.itemListDerivations == nil {
		c.itemListDerivations = make(map[int64]string)
	}

	for _, item := range data.Items {
		c.itemsByID[item.ID] = item
	}
	for _, cargoUnit := range data.Cargo {
		c.cargoByID[cargoUnit.ID] = cargoUnit
	}
	for _, desc := range data.BuildingDescs {
		c.buildingDescsByID[desc.ID] = desc
	}

	// Recipe index order preserves file order: the stable tie-break in
	// cheapest-recipe selection depends on it
	for _, recipe := range data.Recipes {
		switch recipe.OutputKind {
		case catalog.KindItem:
			c.recipesByItem[recipe.OutputID] = append(c.recipesByItem[recipe.OutputID], recipe)
		case catalog.KindCargo:
			c.recipesByCargo[recipe.OutputID] = append(c.recipesByCargo[recipe.OutputID], recipe)
		}
	}

	for _, construction := range data.ConstructionRecipes {
		c.constructionByID[construction.ID] = construction
		c.constructionByDesc[construction.BuildingDescID] = construction
	}
	for _, extraction := range data.ExtractionRecipes {
		c.extractionByItem[extraction.ItemID] = append(c.extractionByItem[extraction.ItemID], extraction)
	}

	return c
}

func (c *Catalog) ItemByID(id int64) (*catalog.Item, bool) {
	item, ok := c.itemsByID[id]
	return item, ok
}

func (c *Catalog) CargoByID(id int64) (*catalog.Cargo, bool) {
	cargoUnit, ok := c.cargoByID[id]
	return cargoUnit, ok
}

func (c *Catalog) BuildingDescByID(id int64) (*catalog.BuildingDesc, bool) {
	desc, ok := c.buildingDescsByID[id]
	return desc, ok
}

func (c *Catalog) RecipesForItem(outputID int64) []*catalog.Recipe {
	return c.recipesByItem[outputID]
}

func (c *Catalog) RecipesForCargo(outputID int64) []*catalog.Recipe {
	return c.recipesByCargo[outputID]
}

func (c *Catalog) ConstructionRecipeByID(id int64) (*catalog.ConstructionRecipe, bool) {
	construction, ok := c.constructionByID[id]
	return construction, ok
}

func (c *Catalog) ConstructionRecipeForBuilding(buildingDescID int64) (*catalog.ConstructionRecipe, bool) {
	construction, ok := c.constructionByDesc[buildingDescID]
	return construction, ok
}

func (c *Catalog) ExtractionRecipesForItem(itemID int64) []*catalog.ExtractionRecipe {
	return c.extractionByItem[itemID]
}

func (c *Catalog) CargoSkillName(cargoID int64) (string, bool) {
	skill, ok := c.cargoSkills[cargoID]
	return skill, ok
}

func (c *Catalog) ItemCargoDerivation(itemID int64) (string, bool) {
	skill, ok := c.itemCargoDerivations[itemID]
	return skill, ok
}

func (c *Catalog) ItemListDerivation(itemID int64) (string, bool) {
	skill, ok := c.itemListDerivations[itemID]
	return skill, ok
}

func (c *Catalog) Version() int64 {
	return c.version
}

// NamedEntities returns every catalog entity as a flat listing, ordered
// by kind then id so output is stable across runs
func (c *Catalog) NamedEntities() []NamedEntity {
	entities := make([]NamedEntity, 0, len(c.itemsByID)+len(c.cargoByID)+len(c.buildingDescsByID))
	for _, item := range c.itemsByID {
		entities = append(entities, NamedEntity{
			Key:  item.Key(),
			Kind: catalog.KindItem,
			ID:   item.ID,
			Name: item.Name,
			Tier: item.Tier,
		})
	}
	for _, cargoUnit := range c.cargoByID {
		entities = append(entities, NamedEntity{
			Key:  cargoUnit.Key(),
			Kind: catalog.KindCargo,
			ID:   cargoUnit.ID,
			Name: cargoUnit.Name,
			Tier: cargoUnit.Tier,
		})
	}
	for _, desc := range c.buildingDescsByID {
		entities = append(entities, NamedEntity{
			Key:  catalog.NewEntityKey(catalog.KindBuilding, desc.ID),
			Kind: catalog.KindBuilding,
			ID:   desc.ID,
			Name: desc.Name,
			Tier: catalog.TierUntiered,
		})
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Kind != entities[j].Kind {
			return entities[i].Kind < entities[j].Kind
		}
		return entities[i].ID < entities[j].ID
	})
	return entities
}
