package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PlannerMetricsCollector handles all recipe-tree and requirements metrics
type PlannerMetricsCollector struct {
	treeBuildsTotal      *prometheus.CounterVec
	treeBuildDuration    *prometheus.HistogramVec
	treeNodeCount        *prometheus.HistogramVec
	treeCacheLookups     *prometheus.CounterVec
	computationsTotal    *prometheus.CounterVec
	computationDuration  *prometheus.HistogramVec
	materialCount        *prometheus.HistogramVec
	propagationEdges     *prometheus.HistogramVec
	catalogReloadsTotal  prometheus.Counter
	catalogVersion       prometheus.Gauge
	catalogReloadSeconds prometheus.Histogram
}

// NewPlannerMetricsCollector creates a new planner metrics collector
func NewPlannerMetricsCollector() *PlannerMetricsCollector {
	return &PlannerMetricsCollector{
		treeBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tree_builds_total",
				Help:      "Total number of material tree builds by list",
			},
			[]string{"list_id"},
		),

		treeBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tree_build_duration_seconds",
				Help:      "Material tree build duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"list_id"},
		),

		treeNodeCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tree_node_count",
				Help:      "Number of nodes per built material tree",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"list_id"},
		),

		treeCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tree_cache_lookups_total",
				Help:      "Tree cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),

		computationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requirements_computations_total",
				Help:      "Total number of requirements computations by list",
			},
			[]string{"list_id"},
		),

		computationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requirements_computation_duration_seconds",
				Help:      "Full requirements computation duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"list_id"},
		),

		materialCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requirements_material_count",
				Help:      "Number of distinct materials per requirements computation",
				Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"list_id"},
		),

		propagationEdges: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "propagation_edges",
				Help:      "Number of contribution edges per inventory propagation pass",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000},
			},
			[]string{"list_id"},
		),

		catalogReloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "reloads_total",
				Help:      "Total number of game data catalog reloads",
			},
		),

		catalogVersion: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "version",
				Help:      "Current catalog snapshot version",
			},
		),

		catalogReloadSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "reload_duration_seconds",
				Help:      "Catalog reload duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
	}
}

// Register registers all planner metrics with the given registry
func (c *PlannerMetricsCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		c.treeBuildsTotal,
		c.treeBuildDuration,
		c.treeNodeCount,
		c.treeCacheLookups,
		c.computationsTotal,
		c.computationDuration,
		c.materialCount,
		c.propagationEdges,
		c.catalogReloadsTotal,
		c.catalogVersion,
		c.catalogReloadSeconds,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordTreeBuild records a completed material tree build
func (c *PlannerMetricsCollector) RecordTreeBuild(listID string, nodeCount int, duration float64) {
	c.treeBuildsTotal.WithLabelValues(listID).Inc()
	c.treeBuildDuration.WithLabelValues(listID).Observe(duration)
	c.treeNodeCount.WithLabelValues(listID).Observe(float64(nodeCount))
}

// RecordTreeCacheLookup records a tree cache hit or miss
func (c *PlannerMetricsCollector) RecordTreeCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.treeCacheLookups.WithLabelValues(result).Inc()
}

// RecordRequirementsComputation records a full requirements computation
func (c *PlannerMetricsCollector) RecordRequirementsComputation(listID string, materialCount int, duration float64) {
	c.computationsTotal.WithLabelValues(listID).Inc()
	c.computationDuration.WithLabelValues(listID).Observe(duration)
	c.materialCount.WithLabelValues(listID).Observe(float64(materialCount))
}

// RecordPropagationEdges records the contribution edge count of a propagation pass
func (c *PlannerMetricsCollector) RecordPropagationEdges(listID string, edgeCount int) {
	c.propagationEdges.WithLabelValues(listID).Observe(float64(edgeCount))
}

// RecordCatalogReload records a catalog reload event
func (c *PlannerMetricsCollector) RecordCatalogReload(version int64, durationSeconds float64) {
	c.catalogReloadsTotal.Inc()
	c.catalogVersion.Set(float64(version))
	c.catalogReloadSeconds.Observe(durationSeconds)
}
