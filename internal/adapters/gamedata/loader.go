package gamedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/craftplan/craftplan-go/internal/domain/catalog"
)

// File names the loader expects in the data directory. Missing files
// yield empty sections, not errors: catalogs ship partial data sets.
const (
	itemsFile        = "items.json"
	cargoFile        = "cargo.json"
	buildingsFile    = "building_descs.json"
	recipesFile      = "recipes.json"
	constructionFile = "construction_recipes.json"
	extractionFile   = "extraction_recipes.json"
	skillsFile       = "skills.json"
)

type rawItem struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Tier int      `json:"tier"`
	Tag  string   `json:"tag"`
	Cost *float64 `json:"cost"`
}

type rawCargo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tier int    `json:"tier"`
}

type rawBuildingDesc struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawStack struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

type rawLevelRequirement struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

type rawRecipe struct {
	ID                int64                 `json:"id"`
	OutputKind        string                `json:"output_kind"`
	OutputID          int64                 `json:"output_id"`
	OutputQuantity    int64                 `json:"output_quantity"`
	ItemIngredients   []rawStack            `json:"item_ingredients"`
	CargoIngredients  []rawStack            `json:"cargo_ingredients"`
	Cost              *float64              `json:"cost"`
	LevelRequirements []rawLevelRequirement `json:"level_requirements"`
	Station           string                `json:"station"`
}

type rawConstructionRecipe struct {
	ID                    int64      `json:"id"`
	BuildingDescID        int64      `json:"building_desc_id"`
	ConsumedItems         []rawStack `json:"consumed_items"`
	ConsumedCargo         []rawStack `json:"consumed_cargo"`
	UpgradeFromBuildingID int64      `json:"upgrade_from_building_id"`
}

type rawExtractionRecipe struct {
	ID                int64                 `json:"id"`
	ItemID            int64                 `json:"item_id"`
	LevelRequirements []rawLevelRequirement `json:"level_requirements"`
}

type rawSkills struct {
	CargoSkills          map[string]string `json:"cargo_skills"`
	ItemCargoDerivations map[string]string `json:"item_cargo_derivations"`
	ItemListDerivations  map[string]string `json:"item_list_derivations"`
}

// LoadDir parses every game-data file in dir into a Data set
func LoadDir(dir string) (Data, error) {
	var data Data

	var items []rawItem
	if err := loadFile(filepath.Join(dir, itemsFile), &items); err != nil {
		return Data{}, err
	}
	for _, raw := range items {
		data.Items = append(data.Items, &catalog.Item{
			ID:   raw.ID,
			Name: raw.Name,
			Tier: raw.Tier,
			Tag:  raw.Tag,
			Cost: raw.Cost,
		})
	}

	var cargoUnits []rawCargo
	if err := loadFile(filepath.Join(dir, cargoFile), &cargoUnits); err != nil {
		return Data{}, err
	}
	for _, raw := range cargoUnits {
		data.Cargo = append(data.Cargo, &catalog.Cargo{
			ID:   raw.ID,
			Name: raw.Name,
			Tier: raw.Tier,
		})
	}

	var descs []rawBuildingDesc
	if err := loadFile(filepath.Join(dir, buildingsFile), &descs); err != nil {
		return Data{}, err
	}
	for _, raw := range descs {
		data.BuildingDescs = append(data.BuildingDescs, &catalog.BuildingDesc{
			ID:   raw.ID,
			Name: raw.Name,
		})
	}

	var recipes []rawRecipe
	if err := loadFile(filepath.Join(dir, recipesFile), &recipes); err != nil {
		return Data{}, err
	}
	for _, raw := range recipes {
		recipe, err := convertRecipe(raw)
		if err != nil {
			return Data{}, err
		}
		data.Recipes = append(data.Recipes, recipe)
	}

	var constructions []rawConstructionRecipe
	if err := loadFile(filepath.Join(dir, constructionFile), &constructions); err != nil {
		return Data{}, err
	}
	for _, raw := range constructions {
		data.ConstructionRecipes = append(data.ConstructionRecipes, &catalog.ConstructionRecipe{
			ID:                    raw.ID,
			BuildingDescID:        raw.BuildingDescID,
			ConsumedItemStacks:    convertStacks(raw.ConsumedItems),
			ConsumedCargoStacks:   convertStacks(raw.ConsumedCargo),
			UpgradeFromBuildingID: raw.UpgradeFromBuildingID,
		})
	}

	var extractions []rawExtractionRecipe
	if err := loadFile(filepath.Join(dir, extractionFile), &extractions); err != nil {
		return Data{}, err
	}
	for _, raw := range extractions {
		data.ExtractionRecipes = append(data.ExtractionRecipes, &catalog.ExtractionRecipe{
			ID:                raw.ID,
			ItemID:            raw.ItemID,
			LevelRequirements: convertLevelRequirements(raw.LevelRequirements),
		})
	}

	var skills rawSkills
	if err := loadFile(filepath.Join(dir, skillsFile), &skills); err != nil {
		return Data{}, err
	}
	data.CargoSkills, _ = convertIDMap(skills.CargoSkills)
	data.ItemCargoDerivations, _ = convertIDMap(skills.ItemCargoDerivations)
	data.ItemListDerivations, _ = convertIDMap(skills.ItemListDerivations)

	return data, nil
}

// loadFile unmarshals path into target; a missing file is not an error
func loadFile(path string, target interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func convertRecipe(raw rawRecipe) (*catalog.Recipe, error) {
	kind, err := catalog.ParseEntityKind(raw.OutputKind)
	if err != nil {
		return nil, fmt.Errorf("recipe %d: %w", raw.ID, err)
	}
	outputQty := raw.OutputQuantity
	if outputQty < 1 {
		outputQty = 1
	}
	return &catalog.Recipe{
		ID:                raw.ID,
		OutputKind:        kind,
		OutputID:          raw.OutputID,
		OutputQuantity:    outputQty,
		ItemIngredients:   convertStacks(raw.ItemIngredients),
		CargoIngredients:  convertStacks(raw.CargoIngredients),
		Cost:              raw.Cost,
		LevelRequirements: convertLevelRequirements(raw.LevelRequirements),
		Station:           raw.Station,
	}, nil
}

func convertStacks(raw []rawStack) []catalog.Stack {
	if len(raw) == 0 {
		return nil
	}
	stacks := make([]catalog.Stack, 0, len(raw))
	for _, stack := range raw {
		stacks = append(stacks, catalog.Stack{
			EntityID: stack.ID,
			Quantity: stack.Quantity,
		})
	}
	return stacks
}

func convertLevelRequirements(raw []rawLevelRequirement) []catalog.LevelRequirement {
	if len(raw) == 0 {
		return nil
	}
	requirements := make([]catalog.LevelRequirement, 0, len(raw))
	for _, req := range raw {
		requirements = append(requirements, catalog.LevelRequirement{
			SkillName: req.Skill,
			Level:     req.Level,
		})
	}
	return requirements
}

// convertIDMap turns JSON's string-keyed id maps into int64 keys,
// dropping keys that do not parse
func convertIDMap(raw map[string]string) (map[int64]string, error) {
	converted := make(map[int64]string, len(raw))
	for key, value := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		converted[id] = value
	}
	return converted, nil
}
