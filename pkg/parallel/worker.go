package parallel

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-complexes/pkg/filter"
	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/growth"
	"github.com/dd0wney/cluso-complexes/pkg/metrics"
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/quality"
	"github.com/dd0wney/cluso-complexes/pkg/seeds"
)

// ErrSeedPanic wraps a panic raised while growing one seed.
var ErrSeedPanic = errors.New("panic while growing seed")

// Result is the outcome of one seed. Every seed taken from the queue yields
// exactly one Result.
type Result struct {
	Seq    uint64
	Seed   seeds.Seed
	Worker int

	// Cluster is the accepted cluster; nil when the seed was rejected by the
	// filters, skipped, interrupted or failed.
	Cluster *nodeset.ValuedNodeSet
	Steps   int

	Skipped     bool // every seed member was already covered
	Interrupted bool // the run was cancelled before or during growth
	Err         error
}

// Outcome classifies the result for metrics and logging
func (r Result) Outcome() string {
	switch {
	case r.Err != nil:
		return metrics.OutcomeFailed
	case r.Interrupted:
		return metrics.OutcomeInterrupted
	case r.Skipped:
		return metrics.OutcomeSkipped
	case r.Cluster == nil:
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeAccepted
	}
}

// worker owns the mutable state for growing seeds one after another.
type worker struct {
	id      int
	graph   *graph.Graph
	quality quality.Function
	opts    growth.Options
	filters filter.Chain
	used    *nodeset.UsedNodeSet

	process *growth.Process
}

func newWorker(id int, g *graph.Graph, cfg Config) *worker {
	w := &worker{
		id:      id,
		graph:   g,
		quality: cfg.Quality,
		opts:    cfg.Growth,
		filters: cfg.Filters,
		used:    cfg.Used,
	}
	w.rebuild()
	return w
}

// rebuild discards the node set, which may be inconsistent after a panic.
func (w *worker) rebuild() {
	w.process = growth.NewProcess(nodeset.NewMutable(w.graph), w.quality, w.opts)
}

func (w *worker) grow(ctx context.Context, seq uint64, seed seeds.Seed) (r Result) {
	r = Result{Seq: seq, Seed: seed, Worker: w.id}

	defer func() {
		if rec := recover(); rec != nil {
			r.Cluster = nil
			r.Err = fmt.Errorf("%w %v: %v", ErrSeedPanic, seed.Members, rec)
			w.rebuild()
		}
	}()

	if ctx.Err() != nil {
		r.Interrupted = true
		return r
	}
	if w.used != nil && w.used.CoversAll(seed.Members) {
		r.Skipped = true
		return r
	}

	if err := w.process.Reset(seed.Members); err != nil {
		r.Err = fmt.Errorf("seed %v: %w", seed.Members, err)
		return r
	}
	w.process.Run(ctx)
	r.Steps = w.process.Steps()
	if ctx.Err() != nil {
		r.Interrupted = true
		return r
	}

	set := w.process.Set()
	if !w.filters.Apply(set) {
		return r
	}
	r.Cluster = nodeset.NewValued(set.Freeze(), 1)
	return r
}
