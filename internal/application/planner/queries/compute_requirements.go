package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/craftplan/craftplan-go/internal/adapters/metrics"
	"github.com/craftplan/craftplan-go/internal/application/common"
	"github.com/craftplan/craftplan-go/internal/application/planner/services"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/lists"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

// ComputeRequirementsQuery computes the full requirement set for a
// crafting list. ItemOverrides and CheckedOff are transient viewing
// state supplied per call, never persisted by the engine.
type ComputeRequirementsQuery struct {
	ListID        string
	ItemOverrides materials.HaveMap
	CheckedOff    materials.CheckedOffSet
}

// ComputeRequirementsResponse carries the flat requirements, the three
// grouped views plus the nested one, and any data-quality diagnostics
// raised while expanding trees.
type ComputeRequirementsResponse struct {
	ListID         string
	ContentHash    string
	Requirements   []*materials.Requirement
	ByTier         []*materials.RequirementGroup
	ByStep         []*materials.RequirementGroup
	ByProfession   []*materials.RequirementGroup
	StepProfession []*materials.StepProfessionGroup
	Diagnostics    []materials.Diagnostic
	TreeCacheHit   bool
}

// RequirementSnapshot is the blob stored per (list, content hash) for
// external consumers; the engine only ever writes it
type RequirementSnapshot struct {
	ListID       string                   `json:"list_id"`
	ContentHash  string                   `json:"content_hash"`
	ComputedAt   time.Time                `json:"computed_at"`
	Requirements []*materials.Requirement `json:"requirements"`
}

// ComputeRequirementsHandler runs the full pipeline: load list, expand
// (or fetch cached) trees, flatten and classify, batch-optimize,
// propagate inventory, assemble and group.
type ComputeRequirementsHandler struct {
	listRepo   lists.ListRepository
	planner    *services.TreePlanner
	flattener  *services.Flattener
	optimizer  *services.BatchOptimizer
	propagator *services.InventoryPropagator
	assembler  *services.RequirementAssembler
	inventory  lists.InventoryProvider
	snapshots  lists.SnapshotStore
}

// NewComputeRequirementsHandler creates the handler
func NewComputeRequirementsHandler(
	listRepo lists.ListRepository,
	planner *services.TreePlanner,
	flattener *services.Flattener,
	optimizer *services.BatchOptimizer,
	propagator *services.InventoryPropagator,
	assembler *services.RequirementAssembler,
	inventory lists.InventoryProvider,
	snapshots lists.SnapshotStore,
) *ComputeRequirementsHandler {
	return &ComputeRequirementsHandler{
		listRepo:   listRepo,
		planner:    planner,
		flattener:  flattener,
		optimizer:  optimizer,
		propagator: propagator,
		assembler:  assembler,
		inventory:  inventory,
		snapshots:  snapshots,
	}
}

// Handle executes the ComputeRequirements query
func (h *ComputeRequirementsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ComputeRequirementsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	list, err := h.listRepo.FindByID(ctx, query.ListID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	trees, diagnostics, cacheHit := h.planner.TreesForList(ctx, list)

	flat := h.flattener.Flatten(trees)
	h.optimizer.Optimize(flat, list.Entries())

	haveItems, haveCargo, err := h.loadInventory(ctx, list, query.ItemOverrides)
	if err != nil {
		return nil, err
	}

	propagation := h.propagator.Propagate(trees, haveItems, haveCargo, query.CheckedOff)
	requirements := h.assembler.Assemble(flat, propagation)

	metrics.RecordPropagationEdges(list.ID(), len(propagation.Contributions))
	metrics.RecordRequirementsComputation(list.ID(), len(requirements), time.Since(start).Seconds())

	response := &ComputeRequirementsResponse{
		ListID:         list.ID(),
		ContentHash:    list.ContentHash(),
		Requirements:   requirements,
		ByTier:         h.assembler.GroupByTier(requirements),
		ByStep:         h.assembler.GroupByStep(requirements),
		ByProfession:   h.assembler.GroupByProfession(requirements),
		StepProfession: h.assembler.GroupByStepProfession(requirements),
		Diagnostics:    diagnostics,
		TreeCacheHit:   cacheHit,
	}

	h.storeSnapshot(ctx, response)
	return response, nil
}

// loadInventory aggregates on-hand quantities filtered by the list's
// enabled sources. Manual item overrides take precedence over computed
// quantities; cargo has no override mechanism.
func (h *ComputeRequirementsHandler) loadInventory(
	ctx context.Context,
	list *lists.CraftingList,
	overrides materials.HaveMap,
) (haveItems, haveCargo materials.HaveMap, err error) {
	haveItems, err = h.inventory.AggregatedQuantities(ctx, catalog.KindItem, list.EnabledSourceIDs())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate item inventory: %w", err)
	}
	haveCargo, err = h.inventory.AggregatedQuantities(ctx, catalog.KindCargo, list.EnabledSourceIDs())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate cargo inventory: %w", err)
	}
	if len(overrides) > 0 {
		haveItems = haveItems.Merge(overrides)
	}
	return haveItems, haveCargo, nil
}

// storeSnapshot persists the computed requirements for external
// consumers. Failures only log: a snapshot miss is never worth failing
// the computation over.
func (h *ComputeRequirementsHandler) storeSnapshot(ctx context.Context, response *ComputeRequirementsResponse) {
	if h.snapshots == nil {
		return
	}

	snapshot := RequirementSnapshot{
		ListID:       response.ListID,
		ContentHash:  response.ContentHash,
		ComputedAt:   time.Now(),
		Requirements: response.Requirements,
	}
	blob, err := json.Marshal(snapshot)
	if err != nil {
		common.LoggerFromContext(ctx).Log("warn", "failed to marshal requirement snapshot", map[string]interface{}{
			"list_id": response.ListID,
			"error":   err.Error(),
		})
		return
	}

	key := response.ListID + ":" + response.ContentHash
	if err := h.snapshots.Put(ctx, key, blob); err != nil {
		common.LoggerFromContext(ctx).Log("warn", "failed to store requirement snapshot", map[string]interface{}{
			"list_id": response.ListID,
			"error":   err.Error(),
		})
	}
}
