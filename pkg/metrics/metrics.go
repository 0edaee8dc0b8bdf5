package metrics

import (
	"runtime"
	"time"
)

// RecordSeed records the outcome of one seed. steps and size are only observed
// for seeds that were grown and accepted respectively.
func (r *Registry) RecordSeed(outcome string, steps, size int) {
	r.SeedsTotal.WithLabelValues(outcome).Inc()
	switch outcome {
	case OutcomeAccepted:
		r.GrowthSteps.Observe(float64(steps))
		r.ClusterSize.Observe(float64(size))
	case OutcomeRejected:
		r.GrowthSteps.Observe(float64(steps))
	}
}

// RecordMerge records one merge phase
func (r *Registry) RecordMerge(method string, in, out int, duration time.Duration) {
	r.MergeDuration.WithLabelValues(method).Observe(duration.Seconds())
	r.MergeInputClusters.WithLabelValues(method).Observe(float64(in))
	r.MergeOutputClusters.WithLabelValues(method).Observe(float64(out))
}

// RecordRun records a finished run
func (r *Registry) RecordRun(status string, complexes int, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.ComplexesEmitted.Set(float64(complexes))
}

// SetGraphSize records the size of the graph being clustered
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.mu.Lock()
	r.graphNodes = nodes
	r.mu.Unlock()

	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// SampleProcess refreshes the process gauges. Heap per node stays 0 until a
// graph size has been recorded.
func (r *Registry) SampleProcess(started time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.UptimeSeconds.Set(time.Since(started).Seconds())
	r.Goroutines.Set(float64(runtime.NumGoroutine()))
	r.HeapInUseBytes.Set(float64(mem.HeapInuse))
	r.GCCycles.Set(float64(mem.NumGC))
	if r.graphNodes > 0 {
		r.HeapBytesPerNode.Set(float64(mem.HeapInuse) / float64(r.graphNodes))
	}
}
