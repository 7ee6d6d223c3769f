package helpers

import (
	"github.com/craftplan/craftplan-go/internal/adapters/gamedata"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// Cost returns a pointer to a recipe cost literal
func Cost(value float64) *float64 {
	return &value
}

// CatalogBuilder assembles an in-memory game data catalog for tests,
// bypassing the JSON loader
type CatalogBuilder struct {
	data gamedata.Data
}

// NewCatalogBuilder creates an empty builder
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		data: gamedata.Data{
			CargoSkills:          make(map[int64]string),
			ItemCargoDerivations: make(map[int64]string),
			ItemListDerivations:  make(map[int64]string),
		},
	}
}

// Item adds an item with no precomputed cost
func (b *CatalogBuilder) Item(id int64, name string, tier int) *CatalogBuilder {
	b.data.Items = append(b.data.Items, &catalog.Item{ID: id, Name: name, Tier: tier})
	return b
}

// ItemWithTag adds an item carrying a profession tag
func (b *CatalogBuilder) ItemWithTag(id int64, name string, tier int, tag string) *CatalogBuilder {
	b.data.Items = append(b.data.Items, &catalog.Item{ID: id, Name: name, Tier: tier, Tag: tag})
	return b
}

// Cargo adds a cargo unit
func (b *CatalogBuilder) Cargo(id int64, name string, tier int) *CatalogBuilder {
	b.data.Cargo = append(b.data.Cargo, &catalog.Cargo{ID: id, Name: name, Tier: tier})
	return b
}

// Building adds a building desc
func (b *CatalogBuilder) Building(id int64, name string) *CatalogBuilder {
	b.data.BuildingDescs = append(b.data.BuildingDescs, &catalog.BuildingDesc{ID: id, Name: name})
	return b
}

// Recipe adds a crafting recipe. Declaration order is preserved, which
// matters for cheapest-recipe tie-breaking.
func (b *CatalogBuilder) Recipe(recipe catalog.Recipe) *CatalogBuilder {
	copied := recipe
	b.data.Recipes = append(b.data.Recipes, &copied)
	return b
}

// Construction adds a building construction recipe
func (b *CatalogBuilder) Construction(recipe catalog.ConstructionRecipe) *CatalogBuilder {
	copied := recipe
	b.data.ConstructionRecipes = append(b.data.ConstructionRecipes, &copied)
	return b
}

// Extraction adds an extraction recipe
func (b *CatalogBuilder) Extraction(recipe catalog.ExtractionRecipe) *CatalogBuilder {
	copied := recipe
	b.data.ExtractionRecipes = append(b.data.ExtractionRecipes, &copied)
	return b
}

// CargoSkill maps a cargo id to its producing skill name
func (b *CatalogBuilder) CargoSkill(cargoID int64, skill string) *CatalogBuilder {
	b.data.CargoSkills[cargoID] = skill
	return b
}

// ItemCargoDerivation maps an item to the skill of the cargo it derives from
func (b *CatalogBuilder) ItemCargoDerivation(itemID int64, skill string) *CatalogBuilder {
	b.data.ItemCargoDerivations[itemID] = skill
	return b
}

// ItemListDerivation maps an item to a curated profession assignment
func (b *CatalogBuilder) ItemListDerivation(itemID int64, skill string) *CatalogBuilder {
	b.data.ItemListDerivations[itemID] = skill
	return b
}

// BuildStore returns a catalog store pre-seeded with the built data
func (b *CatalogBuilder) BuildStore() *gamedata.Store {
	return gamedata.NewStoreWithCatalog(gamedata.NewCatalog(b.data, 1))
}
