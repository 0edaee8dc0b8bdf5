package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process gauges are sampled on scrape by SampleProcess, not on every seed.
func (r *Registry) initProcessMetrics() {
	r.UptimeSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_process_uptime_seconds",
			Help: "Seconds since the clustering process started",
		},
	)

	r.Goroutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_process_goroutines",
			Help: "Goroutines alive, including growth workers and the seed producer",
		},
	)

	r.HeapInUseBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_process_heap_inuse_bytes",
			Help: "Heap bytes in use by the graph, worker node sets and pending results",
		},
	)

	r.HeapBytesPerNode = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_heap_bytes_per_graph_node",
			Help: "Heap in use divided by the node count of the graph being clustered",
		},
	)

	r.GCCycles = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterone_process_gc_cycles",
			Help: "Completed garbage collection cycles",
		},
	)
}
