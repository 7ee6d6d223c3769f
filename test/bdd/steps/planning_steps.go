package steps

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/craftplan/craftplan-go/internal/adapters/cache"
	"github.com/craftplan/craftplan-go/internal/adapters/persistence"
	"github.com/craftplan/craftplan-go/internal/application/planner/queries"
	"github.com/craftplan/craftplan-go/internal/application/planner/services"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
	"github.com/craftplan/craftplan-go/internal/infrastructure/database"
	"github.com/craftplan/craftplan-go/test/helpers"
)

type planningContext struct {
	builder      *helpers.CatalogBuilder
	itemIDs      map[string]int64
	nextItemID   int64
	nextRecipeID int64

	entries   []lists.ListEntry
	overrides materials.HaveMap
	checked   []catalog.EntityKey

	handler  *queries.ComputeRequirementsHandler
	listID   string
	result   *queries.ComputeRequirementsResponse
	previous *queries.ComputeRequirementsResponse
}

func (pc *planningContext) reset() {
	pc.builder = helpers.NewCatalogBuilder()
	pc.itemIDs = make(map[string]int64)
	pc.nextItemID = 1
	pc.nextRecipeID = 100
	pc.entries = nil
	pc.overrides = make(materials.HaveMap)
	pc.checked = nil
	pc.handler = nil
	pc.listID = ""
	pc.result = nil
	pc.previous = nil
}

// Catalog setup steps

func (pc *planningContext) theCatalogHasItems(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		name := row.Cells[0].Value
		tier, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("bad tier for %s: %w", name, err)
		}
		id := pc.nextItemID
		pc.nextItemID++
		pc.itemIDs[name] = id
		pc.builder.Item(id, name, tier)
	}
	return nil
}

func (pc *planningContext) theCatalogHasRecipes(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		outputID, ok := pc.itemIDs[row.Cells[0].Value]
		if !ok {
			return fmt.Errorf("unknown output item %q", row.Cells[0].Value)
		}
		quantity, err := strconv.ParseInt(row.Cells[1].Value, 10, 64)
		if err != nil {
			return fmt.Errorf("bad output quantity: %w", err)
		}
		ingredients, err := pc.parseIngredients(row.Cells[2].Value)
		if err != nil {
			return err
		}

		recipe := catalog.Recipe{
			ID:              pc.nextRecipeID,
			OutputKind:      catalog.KindItem,
			OutputID:        outputID,
			OutputQuantity:  quantity,
			ItemIngredients: ingredients,
		}
		if raw := strings.TrimSpace(row.Cells[3].Value); raw != "" {
			cost, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("bad cost: %w", err)
			}
			recipe.Cost = &cost
		}
		pc.nextRecipeID++
		pc.builder.Recipe(recipe)
	}
	return nil
}

// parseIngredients reads "2 Raw Log, 1 Resin" into stacks
func (pc *planningContext) parseIngredients(raw string) ([]catalog.Stack, error) {
	var stacks []catalog.Stack
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, " ", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("bad ingredient %q, want \"<quantity> <name>\"", part)
		}
		quantity, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ingredient quantity in %q: %w", part, err)
		}
		id, ok := pc.itemIDs[fields[1]]
		if !ok {
			return nil, fmt.Errorf("unknown ingredient %q", fields[1])
		}
		stacks = append(stacks, catalog.Stack{EntityID: id, Quantity: quantity})
	}
	return stacks, nil
}

// List and inventory steps

func (pc *planningContext) aCraftingListRequesting(quantity int, name string) error {
	id, ok := pc.itemIDs[name]
	if !ok {
		return fmt.Errorf("unknown item %q", name)
	}
	pc.entries = append(pc.entries, lists.ListEntry{
		Kind:     catalog.KindItem,
		EntityID: id,
		Quantity: int64(quantity),
	})
	return nil
}

func (pc *planningContext) itemsAreOnHand(quantity int, name string) error {
	id, ok := pc.itemIDs[name]
	if !ok {
		return fmt.Errorf("unknown item %q", name)
	}
	pc.overrides[id] = int64(quantity)
	return nil
}

func (pc *planningContext) itemIsCheckedOff(name string) error {
	id, ok := pc.itemIDs[name]
	if !ok {
		return fmt.Errorf("unknown item %q", name)
	}
	pc.checked = append(pc.checked, catalog.NewEntityKey(catalog.KindItem, id))
	return nil
}

// Computation steps

func (pc *planningContext) theRequirementsAreComputed() error {
	if pc.handler == nil {
		if err := pc.buildHandler(); err != nil {
			return err
		}
	}

	response, err := pc.handler.Handle(context.Background(), &queries.ComputeRequirementsQuery{
		ListID:        pc.listID,
		ItemOverrides: pc.overrides,
		CheckedOff:    materials.NewCheckedOffSet(pc.checked...),
	})
	if err != nil {
		return err
	}

	pc.previous = pc.result
	pc.result = response.(*queries.ComputeRequirementsResponse)
	return nil
}

func (pc *planningContext) buildHandler() error {
	store := pc.builder.BuildStore()
	selector := services.NewRecipeSelector(store)
	classifier := services.NewClassifier(store, selector)
	treeBuilder := services.NewTreeBuilder(store, selector)
	planner := services.NewTreePlanner(treeBuilder, cache.NewMemoryTreeCache(time.Minute))

	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	listRepo := persistence.NewGormListRepository(db)
	stockRepo := persistence.NewGormInventoryStockRepository(db)

	list := lists.NewCraftingList("scenario-list", "Scenario List")
	for _, entry := range pc.entries {
		if err := list.AddEntry(entry); err != nil {
			return err
		}
	}
	if err := listRepo.Create(context.Background(), list); err != nil {
		return err
	}
	pc.listID = list.ID()

	pc.handler = queries.NewComputeRequirementsHandler(
		listRepo,
		planner,
		services.NewFlattener(classifier),
		services.NewBatchOptimizer(store, selector, classifier),
		services.NewInventoryPropagator(),
		services.NewRequirementAssembler(),
		stockRepo,
		cache.NewMemorySnapshotStore(time.Minute),
	)
	return nil
}

// Assertion steps

func (pc *planningContext) requirementByName(name string) (*materials.Requirement, error) {
	if pc.result == nil {
		return nil, fmt.Errorf("requirements have not been computed")
	}
	for _, req := range pc.result.Requirements {
		if req.Name == name {
			return req, nil
		}
	}
	return nil, fmt.Errorf("no requirement for %q", name)
}

func (pc *planningContext) shouldRequireInTotal(name string, total int) error {
	req, err := pc.requirementByName(name)
	if err != nil {
		return err
	}
	if req.BaseRequired != int64(total) {
		return fmt.Errorf("%s requires %d, expected %d", name, req.BaseRequired, total)
	}
	return nil
}

func (pc *planningContext) shouldRequireWithOnHandAndRemaining(name string, total, have, remaining int) error {
	req, err := pc.requirementByName(name)
	if err != nil {
		return err
	}
	if req.BaseRequired != int64(total) || req.Have != int64(have) || req.Remaining != int64(remaining) {
		return fmt.Errorf("%s: got required=%d have=%d remaining=%d, expected %d/%d/%d",
			name, req.BaseRequired, req.Have, req.Remaining, total, have, remaining)
	}
	return nil
}

func (pc *planningContext) shouldBeComplete(name string) error {
	req, err := pc.requirementByName(name)
	if err != nil {
		return err
	}
	if !req.IsComplete {
		return fmt.Errorf("%s still has %d remaining", name, req.Remaining)
	}
	return nil
}

func (pc *planningContext) shouldNotAppear(name string) error {
	if _, err := pc.requirementByName(name); err == nil {
		return fmt.Errorf("%s unexpectedly appears in the requirements", name)
	}
	return nil
}

func (pc *planningContext) everyRequirementShouldConserveQuantities() error {
	if pc.result == nil {
		return fmt.Errorf("requirements have not been computed")
	}
	for _, req := range pc.result.Requirements {
		if req.Remaining < 0 || req.Remaining > req.BaseRequired {
			return fmt.Errorf("%s: remaining %d outside [0, %d]", req.Name, req.Remaining, req.BaseRequired)
		}
		if req.Have+req.Remaining != req.BaseRequired {
			return fmt.Errorf("%s: have %d + remaining %d != required %d",
				req.Name, req.Have, req.Remaining, req.BaseRequired)
		}
	}
	return nil
}

func (pc *planningContext) aDepthWarningShouldBeRaised() error {
	if pc.result == nil {
		return fmt.Errorf("requirements have not been computed")
	}
	for _, diagnostic := range pc.result.Diagnostics {
		if diagnostic.Kind == materials.DiagnosticDepthCapped {
			return nil
		}
	}
	return fmt.Errorf("no depth warning among %d diagnostics", len(pc.result.Diagnostics))
}

func (pc *planningContext) bothComputationsShouldAgree() error {
	if pc.result == nil || pc.previous == nil {
		return fmt.Errorf("need two computations to compare")
	}
	if !reflect.DeepEqual(pc.previous.Requirements, pc.result.Requirements) {
		return fmt.Errorf("computations differ")
	}
	return nil
}

func InitializePlanningScenario(sc *godog.ScenarioContext) {
	ctx := &planningContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	// Catalog setup
	sc.Step(`^the catalog has items:$`, ctx.theCatalogHasItems)
	sc.Step(`^the catalog has recipes:$`, ctx.theCatalogHasRecipes)

	// List and inventory
	sc.Step(`^a crafting list requesting (\d+) "([^"]*)"$`, ctx.aCraftingListRequesting)
	sc.Step(`^(\d+) "([^"]*)" are on hand$`, ctx.itemsAreOnHand)
	sc.Step(`^"([^"]*)" is checked off$`, ctx.itemIsCheckedOff)

	// Computation
	sc.Step(`^the requirements are computed$`, ctx.theRequirementsAreComputed)
	sc.Step(`^the requirements are computed again$`, ctx.theRequirementsAreComputed)

	// Assertions
	sc.Step(`^"([^"]*)" should require (\d+) in total$`, ctx.shouldRequireInTotal)
	sc.Step(`^"([^"]*)" should require (\d+) with (\d+) on hand and (\d+) remaining$`, ctx.shouldRequireWithOnHandAndRemaining)
	sc.Step(`^"([^"]*)" should be complete$`, ctx.shouldBeComplete)
	sc.Step(`^"([^"]*)" should not appear in the requirements$`, ctx.shouldNotAppear)
	sc.Step(`^every requirement should conserve quantities$`, ctx.everyRequirementShouldConserveQuantities)
	sc.Step(`^a depth warning should be raised$`, ctx.aDepthWarningShouldBeRaised)
}
