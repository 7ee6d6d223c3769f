package catalog

// Catalog is the read-only lookup the engine queries. Implementations are
// pre-loaded and fully in memory: every method is synchronous and performs
// no I/O. A reload replaces the whole catalog and bumps Version; all
// derived caches key on that version.
type Catalog interface {
	// Entity lookups
	ItemByID(id int64) (*Item, bool)
	CargoByID(id int64) (*Cargo, bool)
	BuildingDescByID(id int64) (*BuildingDesc, bool)

	// Recipe lookups by output entity
	RecipesForItem(outputID int64) []*Recipe
	RecipesForCargo(outputID int64) []*Recipe
	ConstructionRecipeByID(id int64) (*ConstructionRecipe, bool)
	ConstructionRecipeForBuilding(buildingDescID int64) (*ConstructionRecipe, bool)
	ExtractionRecipesForItem(itemID int64) []*ExtractionRecipe

	// Profession source data
	CargoSkillName(cargoID int64) (string, bool)
	ItemCargoDerivation(itemID int64) (string, bool)
	ItemListDerivation(itemID int64) (string, bool)

	// Version is monotonic, bumped on every reload. Derived caches
	// (steps, professions, trees) are only valid for the version they
	// were computed against.
	Version() int64
}
