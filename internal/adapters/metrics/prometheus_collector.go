package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "craftplan"
	// Subsystem for planner metrics
	subsystem = "planner"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPlannerCollector is the singleton planner metrics collector
	// Set by SetGlobalPlannerCollector() when metrics are enabled
	globalPlannerCollector PlannerMetricsRecorder
)

// PlannerMetricsRecorder defines the interface for recording planner metrics events
// This interface is used by application code to record metrics
type PlannerMetricsRecorder interface {
	RecordTreeBuild(listID string, nodeCount int, duration float64)
	RecordTreeCacheLookup(hit bool)
	RecordRequirementsComputation(listID string, materialCount int, duration float64)
	RecordPropagationEdges(listID string, edgeCount int)
	RecordCatalogReload(version int64, durationSeconds float64)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalPlannerCollector sets the global planner metrics collector
// This should be called after the collector is created and registered
func SetGlobalPlannerCollector(collector PlannerMetricsRecorder) {
	globalPlannerCollector = collector
}

// RecordTreeBuild records a material tree build event globally
func RecordTreeBuild(listID string, nodeCount int, duration float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordTreeBuild(listID, nodeCount, duration)
	}
}

// RecordTreeCacheLookup records a tree cache hit or miss globally
func RecordTreeCacheLookup(hit bool) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordTreeCacheLookup(hit)
	}
}

// RecordRequirementsComputation records a full requirements computation globally
func RecordRequirementsComputation(listID string, materialCount int, duration float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordRequirementsComputation(listID, materialCount, duration)
	}
}

// RecordPropagationEdges records the number of contribution edges produced
// by an inventory propagation pass globally
func RecordPropagationEdges(listID string, edgeCount int) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordPropagationEdges(listID, edgeCount)
	}
}

// RecordCatalogReload records a catalog reload event globally
func RecordCatalogReload(version int64, durationSeconds float64) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordCatalogReload(version, durationSeconds)
	}
}
