package parallel

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-complexes/pkg/filter"
	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/growth"
	"github.com/dd0wney/cluso-complexes/pkg/logging"
	"github.com/dd0wney/cluso-complexes/pkg/metrics"
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/quality"
	"github.com/dd0wney/cluso-complexes/pkg/seeds"
)

var (
	// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrNoQuality is returned when the pool is configured without a quality function.
	ErrNoQuality = errors.New("pool requires a quality function")
)

// MaxWorkers is the maximum number of workers allowed in a pool. Every worker
// holds per-node state for the whole graph.
const MaxWorkers = 4096

// Config describes how seeds are grown.
type Config struct {
	Workers   int // 0 means runtime.NumCPU()
	QueueSize int // 0 means twice the worker count
	Quality   quality.Function
	Growth    growth.Options
	Filters   filter.Chain

	// Used enables skipping seeds that are fully covered by clusters accepted
	// for earlier seeds. The pool marks accepted clusters in submission order.
	Used *nodeset.UsedNodeSet

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Stats summarises one Run.
type Stats struct {
	Submitted   int
	Accepted    int
	Rejected    int
	Skipped     int
	Failed      int
	Interrupted int
	MaxPending  int  // largest number of results held back for ordering
	Cancelled   bool // the caller's context ended the run
}

// Pool grows seeds on a fixed set of workers and hands results back in
// submission order.
type Pool struct {
	graph   *graph.Graph
	cfg     Config
	workers int
	queue   int
	logger  logging.Logger
}

type task struct {
	seq  uint64
	seed seeds.Seed
}

// NewPool creates a pool for g.
// Returns an error if the worker count exceeds MaxWorkers.
func NewPool(g *graph.Graph, cfg Config) (*Pool, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	if cfg.Quality == nil {
		return nil, ErrNoQuality
	}

	queue := cfg.QueueSize
	if queue <= 0 {
		queue = workers * 2
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Pool{
		graph:   g,
		cfg:     cfg,
		workers: workers,
		queue:   queue,
		logger:  logger.With(logging.Component("pool")),
	}, nil
}

// Workers returns the number of worker goroutines a Run starts
func (p *Pool) Workers() int {
	return p.workers
}

// Run grows every seed and calls handle once per seed, in the order the seeds
// were produced. handle runs on the calling goroutine.
//
// Cancelling ctx stops the run early without an error; Stats.Cancelled is set
// and handle has seen a prefix of the full result sequence. An error returned
// by handle stops the run and is returned.
func (p *Pool) Run(ctx context.Context, input iter.Seq[seeds.Seed], handle func(Result) error) (Stats, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan task, p.queue)
	results := make(chan Result, p.queue)

	// closing tasks tells the workers no more seeds follow
	go func() {
		defer close(tasks)
		var seq uint64
		for seed := range input {
			select {
			case tasks <- task{seq: seq, seed: seed}:
				seq++
			case <-runCtx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		w := newWorker(i, p.graph, p.cfg)
		wg.Add(1)
		go p.work(runCtx, w, tasks, results, &wg)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		stats  Stats
		runErr error
	)
	buffer := NewOrderedBuffer[Result](0)
	for r := range results {
		stats.Submitted++
		if err := buffer.Push(r.Seq, r); err != nil {
			// only reachable through a bug in sequencing
			if runErr == nil {
				runErr = err
				cancel()
			}
			continue
		}
		if p.cfg.Metrics != nil {
			p.cfg.Metrics.OrderBufferPending.Set(float64(buffer.Pending()))
		}

		for {
			next, ok := buffer.Pop()
			if !ok {
				break
			}
			if runErr != nil || runCtx.Err() != nil {
				next.Cluster = nil
				next.Interrupted = true
				stats.record(next)
				continue
			}
			if err := p.deliver(next, &stats, handle); err != nil {
				runErr = err
				cancel()
			}
		}
	}

	stats.MaxPending = buffer.MaxPending()
	stats.Cancelled = runErr == nil && ctx.Err() != nil
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.OrderBufferPending.Set(0)
	}
	return stats, runErr
}

// work processes tasks until the queue is closed
func (p *Pool) work(ctx context.Context, w *worker, tasks <-chan task, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.WorkersActive.Inc()
		defer p.cfg.Metrics.WorkersActive.Dec()
	}

	for t := range tasks {
		results <- w.grow(ctx, t.seq, t.seed)
	}
}

// deliver finalises one in-order result and passes it to handle.
func (p *Pool) deliver(r Result, stats *Stats, handle func(Result) error) error {
	used := p.cfg.Used
	if used != nil && r.Err == nil && !r.Skipped && used.CoversAll(r.Seed.Members) {
		// covered by a cluster accepted after this seed was picked up
		r.Cluster = nil
		r.Skipped = true
	}
	if used != nil && r.Cluster != nil {
		used.Mark(r.Cluster.Members())
	}

	stats.record(r)
	if p.cfg.Metrics != nil {
		size := 0
		if r.Cluster != nil {
			size = r.Cluster.Size()
		}
		p.cfg.Metrics.RecordSeed(r.Outcome(), r.Steps, size)
	}
	if p.logger.Enabled(logging.DebugLevel) {
		p.logger.Debug("seed processed",
			logging.Seq(r.Seq),
			logging.Worker(r.Worker),
			logging.Seed(r.Seed.Members),
			logging.String("outcome", r.Outcome()),
			logging.Int("steps", r.Steps),
		)
	}
	return handle(r)
}

func (s *Stats) record(r Result) {
	switch r.Outcome() {
	case metrics.OutcomeAccepted:
		s.Accepted++
	case metrics.OutcomeRejected:
		s.Rejected++
	case metrics.OutcomeSkipped:
		s.Skipped++
	case metrics.OutcomeFailed:
		s.Failed++
	case metrics.OutcomeInterrupted:
		s.Interrupted++
	}
}
