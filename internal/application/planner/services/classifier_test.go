package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/craftplan/craftplan-go/internal/application/planner/services"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/test/helpers"
)

// chainStore builds Raw Log -> Stripped Wood -> Plank, a three-step
// crafting chain rooted in a gathered material
func chainStore() *services.Classifier {
	store := helpers.NewCatalogBuilder().
		Item(1, "Raw Log", 1).
		Item(2, "Stripped Wood", 1).
		Item(3, "Plank", 1).
		Recipe(catalog.Recipe{
			ID: 10, OutputKind: catalog.KindItem, OutputID: 2, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 1, Quantity: 1}},
		}).
		Recipe(catalog.Recipe{
			ID: 11, OutputKind: catalog.KindItem, OutputID: 3, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 2, Quantity: 2}},
		}).
		BuildStore()
	return services.NewClassifier(store, services.NewRecipeSelector(store))
}

func TestClassifier_ItemSteps(t *testing.T) {
	classifier := chainStore()

	assert.Equal(t, 1, classifier.ItemStep(1), "gathered material is step 1")
	assert.Equal(t, 2, classifier.ItemStep(2))
	assert.Equal(t, 3, classifier.ItemStep(3))
	assert.Equal(t, 1, classifier.ItemStep(999), "unknown items default to step 1")
}

func TestClassifier_CargoIngredientContributesFlatDepth(t *testing.T) {
	store := helpers.NewCatalogBuilder().
		Item(1, "Rope", 1).
		Cargo(5, "Fiber Bundle", 1).
		Recipe(catalog.Recipe{
			ID: 10, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
			CargoIngredients: []catalog.Stack{{EntityID: 5, Quantity: 3}},
		}).
		BuildStore()
	classifier := services.NewClassifier(store, services.NewRecipeSelector(store))

	assert.Equal(t, 2, classifier.ItemStep(1), "a cargo-only recipe is one step above gathering")
	assert.Equal(t, 1, classifier.CargoStep(5))
}

func TestClassifier_CycleBreaksAtStepOne(t *testing.T) {
	// Two items crafted from each other
	store := helpers.NewCatalogBuilder().
		Item(1, "Essence", 1).
		Item(2, "Distillate", 1).
		Recipe(catalog.Recipe{
			ID: 10, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 2, Quantity: 1}},
		}).
		Recipe(catalog.Recipe{
			ID: 11, OutputKind: catalog.KindItem, OutputID: 2, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 1, Quantity: 1}},
		}).
		BuildStore()
	classifier := services.NewClassifier(store, services.NewRecipeSelector(store))

	// Must terminate; the revisited node contributes the raw default
	assert.Equal(t, 2, classifier.ItemStep(1))
	assert.Equal(t, 2, classifier.ItemStep(2))
}

func TestClassifier_StepByKind(t *testing.T) {
	classifier := chainStore()

	assert.Equal(t, 3, classifier.Step(catalog.KindItem, 3))
	assert.Equal(t, 1, classifier.Step(catalog.KindBuilding, 1), "buildings have no step of their own")
}

func TestClassifier_ItemProfessionPriority(t *testing.T) {
	store := helpers.NewCatalogBuilder().
		Item(1, "Ingot", 1).
		Item(2, "Ore Dust", 1).
		ItemWithTag(3, "Carved Figure", 1, "Carving").
		Item(4, "Nails", 1).
		Item(5, "Raw Ore", 1).
		Item(6, "Mystery Rock", 1).
		ItemCargoDerivation(1, "Smelting").
		ItemListDerivation(2, "Mining").
		Recipe(catalog.Recipe{
			ID: 10, OutputKind: catalog.KindItem, OutputID: 1, OutputQuantity: 1,
			ItemIngredients:   []catalog.Stack{{EntityID: 5, Quantity: 1}},
			LevelRequirements: []catalog.LevelRequirement{{SkillName: "Forging", Level: 3}},
		}).
		Recipe(catalog.Recipe{
			ID: 11, OutputKind: catalog.KindItem, OutputID: 3, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 5, Quantity: 1}},
		}).
		Recipe(catalog.Recipe{
			ID: 12, OutputKind: catalog.KindItem, OutputID: 4, OutputQuantity: 1,
			ItemIngredients: []catalog.Stack{{EntityID: 5, Quantity: 1}},
			Station:         "Smithy",
		}).
		Extraction(catalog.ExtractionRecipe{
			ID: 20, ItemID: 5,
			LevelRequirements: []catalog.LevelRequirement{{SkillName: "Mining", Level: 1}},
		}).
		BuildStore()
	classifier := services.NewClassifier(store, services.NewRecipeSelector(store))

	assert.Equal(t, "Smelting", classifier.ItemProfession(1), "cargo derivation wins over the recipe skill")
	assert.Equal(t, "Mining", classifier.ItemProfession(2), "list derivation is second priority")
	assert.Equal(t, "Carving", classifier.ItemProfession(3), "tag fallback when the recipe names no skill or station")
	assert.Equal(t, "Smithy", classifier.ItemProfession(4), "station before tag")
	assert.Equal(t, "Mining", classifier.ItemProfession(5), "extraction skill for uncraftable items")
	assert.Equal(t, services.ProfessionGathering, classifier.ItemProfession(6))
}

func TestClassifier_CargoProfession(t *testing.T) {
	store := helpers.NewCatalogBuilder().
		Cargo(1, "Clay Lump", 1).
		Cargo(2, "Odd Residue", 1).
		CargoSkill(1, "Pottery").
		BuildStore()
	classifier := services.NewClassifier(store, services.NewRecipeSelector(store))

	assert.Equal(t, "Pottery", classifier.CargoProfession(1))
	assert.Equal(t, services.ProfessionGathering, classifier.CargoProfession(2))
	assert.Equal(t, services.ProfessionConstruction, classifier.Profession(catalog.KindBuilding, 1))
}
