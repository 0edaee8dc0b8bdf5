package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterone_runs_total",
			Help: "Clustering runs, by status",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterone_run_duration_seconds",
			Help:    "Wall time of a clustering run",
			Buckets: []float64{0.01, 0.1, 1.0, 10.0, 60.0, 300.0, 1800.0},
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_graph_nodes",
			Help: "Nodes in the graph of the last run",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_graph_edges",
			Help: "Edges in the graph of the last run",
		},
	)

	r.ComplexesEmitted = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_complexes",
			Help: "Complexes reported by the last run",
		},
	)
}
