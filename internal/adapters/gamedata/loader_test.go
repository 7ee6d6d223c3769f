package gamedata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/adapters/gamedata"
)

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir_ParsesAllSections(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeDataFile(t, dir, "items.json", `[
		{"id": 1, "name": "Raw Log", "tier": 1, "tag": "Forestry"},
		{"id": 2, "name": "Plank", "tier": 1, "cost": 2.5}
	]`)
	writeDataFile(t, dir, "cargo.json", `[{"id": 5, "name": "Clay Lump", "tier": 1}]`)
	writeDataFile(t, dir, "building_descs.json", `[{"id": 9, "name": "Sawmill"}]`)
	writeDataFile(t, dir, "recipes.json", `[{
		"id": 10, "output_kind": "item", "output_id": 2, "output_quantity": 1,
		"item_ingredients": [{"id": 1, "quantity": 2}],
		"level_requirements": [{"skill": "Carpentry", "level": 3}],
		"station": "Sawbench"
	}]`)
	writeDataFile(t, dir, "construction_recipes.json", `[{
		"id": 20, "building_desc_id": 9,
		"consumed_items": [{"id": 2, "quantity": 12}],
		"upgrade_from_building_id": 0
	}]`)
	writeDataFile(t, dir, "extraction_recipes.json", `[{
		"id": 30, "item_id": 1,
		"level_requirements": [{"skill": "Forestry", "level": 1}]
	}]`)
	writeDataFile(t, dir, "skills.json", `{
		"cargo_skills": {"5": "Pottery"},
		"item_cargo_derivations": {"2": "Carpentry"}
	}`)

	// Act
	data, err := gamedata.LoadDir(dir)

	// Assert
	require.NoError(t, err)
	require.Len(t, data.Items, 2)
	assert.Equal(t, "Raw Log", data.Items[0].Name)
	assert.Equal(t, "Forestry", data.Items[0].Tag)
	require.NotNil(t, data.Items[1].Cost)
	assert.Equal(t, 2.5, *data.Items[1].Cost)

	require.Len(t, data.Recipes, 1)
	recipe := data.Recipes[0]
	assert.Equal(t, int64(2), recipe.OutputID)
	assert.Equal(t, "Sawbench", recipe.Station)
	require.Len(t, recipe.LevelRequirements, 1)
	assert.Equal(t, "Carpentry", recipe.LevelRequirements[0].SkillName)
	require.Len(t, recipe.ItemIngredients, 1)
	assert.Equal(t, int64(2), recipe.ItemIngredients[0].Quantity)

	require.Len(t, data.ConstructionRecipes, 1)
	assert.False(t, data.ConstructionRecipes[0].HasUpgradePrerequisite())

	require.Len(t, data.ExtractionRecipes, 1)
	assert.Equal(t, int64(1), data.ExtractionRecipes[0].ItemID)

	assert.Equal(t, "Pottery", data.CargoSkills[5])
	assert.Equal(t, "Carpentry", data.ItemCargoDerivations[2])
}

func TestLoadDir_MissingFilesYieldEmptySections(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "items.json", `[{"id": 1, "name": "Lone", "tier": 1}]`)

	data, err := gamedata.LoadDir(dir)

	require.NoError(t, err)
	assert.Len(t, data.Items, 1)
	assert.Empty(t, data.Recipes)
	assert.Empty(t, data.Cargo)
	assert.Empty(t, data.CargoSkills)
}

func TestLoadDir_OutputQuantityFloorsToOne(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "recipes.json", `[{
		"id": 10, "output_kind": "item", "output_id": 1, "output_quantity": 0
	}]`)

	data, err := gamedata.LoadDir(dir)

	require.NoError(t, err)
	require.Len(t, data.Recipes, 1)
	assert.Equal(t, int64(1), data.Recipes[0].OutputQuantity)
}

func TestLoadDir_BadKindFails(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "recipes.json", `[{"id": 10, "output_kind": "vehicle", "output_id": 1}]`)

	_, err := gamedata.LoadDir(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipe 10")
}

func TestLoadDir_MalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "items.json", `{not json`)

	_, err := gamedata.LoadDir(dir)

	require.Error(t, err)
}
