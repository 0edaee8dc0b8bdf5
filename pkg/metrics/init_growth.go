package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGrowthMetrics() {
	r.SeedsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterone_seeds_total",
			Help: "Seeds processed, by outcome",
		},
		[]string{"outcome"},
	)

	r.GrowthSteps = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterone_growth_steps",
			Help:    "Add or remove steps taken per grown seed",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	r.ClusterSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterone_cluster_size",
			Help:    "Members per accepted cluster before merging",
			Buckets: []float64{3, 5, 10, 20, 50, 100, 500, 1000},
		},
	)

	r.WorkersActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_workers_active",
			Help: "Growth workers currently running",
		},
	)

	r.OrderBufferPending = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_order_buffer_pending",
			Help: "Results held back waiting for an earlier sequence number",
		},
	)
}
