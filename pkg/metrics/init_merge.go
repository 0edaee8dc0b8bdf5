package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initMergeMetrics() {
	r.MergeDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clusterone_merge_duration_seconds",
			Help:    "Time spent merging overlapping clusters",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"method"},
	)

	r.MergeInputClusters = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clusterone_merge_input_clusters",
			Help:    "Clusters handed to the merger",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{"method"},
	)

	r.MergeOutputClusters = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clusterone_merge_output_clusters",
			Help:    "Clusters left after merging",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{"method"},
	)
}
