package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Seed outcomes used as the "outcome" label of SeedsTotal.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRejected    = "rejected"
	OutcomeSkipped     = "skipped"
	OutcomeFailed      = "failed"
	OutcomeInterrupted = "interrupted"
)

// Registry holds all metrics for the application
type Registry struct {
	// Growth Metrics
	SeedsTotal         *prometheus.CounterVec
	GrowthSteps        prometheus.Histogram
	ClusterSize        prometheus.Histogram
	WorkersActive      prometheus.Gauge
	OrderBufferPending prometheus.Gauge

	// Merge Metrics
	MergeDuration       *prometheus.HistogramVec
	MergeInputClusters  *prometheus.HistogramVec
	MergeOutputClusters *prometheus.HistogramVec

	// Run Metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
	ComplexesEmitted prometheus.Gauge

	// Process Metrics
	UptimeSeconds    prometheus.Gauge
	Goroutines       prometheus.Gauge
	HeapInUseBytes   prometheus.Gauge
	HeapBytesPerNode prometheus.Gauge
	GCCycles         prometheus.Gauge

	registry   *prometheus.Registry
	mu         sync.Mutex
	graphNodes int // last value passed to SetGraphSize, guarded by mu
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initGrowthMetrics()
	r.initMergeMetrics()
	r.initRunMetrics()
	r.initProcessMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
