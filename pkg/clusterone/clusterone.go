// Package clusterone finds overlapping dense complexes in a weighted graph.
//
// A run grows one candidate cluster per seed in parallel, keeps the clusters
// that pass the filters in seed order, merges clusters that overlap too much
// and reports the survivors with their quality and significance.
package clusterone

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-complexes/pkg/filter"
	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/growth"
	"github.com/dd0wney/cluso-complexes/pkg/logging"
	"github.com/dd0wney/cluso-complexes/pkg/merge"
	"github.com/dd0wney/cluso-complexes/pkg/metrics"
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/parallel"
	"github.com/dd0wney/cluso-complexes/pkg/quality"
	"github.com/dd0wney/cluso-complexes/pkg/seeds"
	"github.com/dd0wney/cluso-complexes/pkg/significance"
	"github.com/dd0wney/cluso-complexes/pkg/similarity"
)

// Complex is a reported cluster. Values count how many grown clusters that
// were merged into it contained each member.
type Complex struct {
	*nodeset.ValuedNodeSet
	Quality float64
	PValue  float64
}

// Stats summarises a run.
type Stats struct {
	Seeds      parallel.Stats
	Grown      int // clusters accepted before merging
	Merged     int // clusters left after merging
	Refiltered int // merged clusters dropped by the density filter
	Dropped    int // complexes above the p-value limit
	Duration   time.Duration
}

// Result is the outcome of a run. A cancelled run carries the complexes found
// from the seeds that completed before cancellation.
type Result struct {
	RunID     string
	Complexes []*Complex
	Stats     Stats
	Cancelled bool
}

// Algorithm is a configured clustering run. It is safe to call Run concurrently.
type Algorithm struct {
	params       Params
	quality      quality.Function
	similarity   similarity.Function
	merger       merge.Merger
	filters      filter.Chain
	significance significance.Test
	logger       logging.Logger
	metrics      *metrics.Registry
}

// Option customises an Algorithm.
type Option func(*Algorithm)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(a *Algorithm) { a.logger = l }
}

// WithMetrics records run metrics into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(a *Algorithm) { a.metrics = r }
}

// WithSignificance replaces the p-value test.
func WithSignificance(t significance.Test) Option {
	return func(a *Algorithm) { a.significance = t }
}

// New validates params and resolves every strategy they name, so unknown names
// fail before any seed is grown.
func New(params Params, opts ...Option) (*Algorithm, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	qf, err := quality.New(params.Quality, quality.Options{NodePenalty: params.NodePenalty})
	if err != nil {
		return nil, err
	}
	sim, err := similarity.New(params.Similarity)
	if err != nil {
		return nil, err
	}
	merger, err := merge.New(params.MergeMethod, merge.Options{
		MaxPasses: params.MaxMergePasses,
		Verify:    params.VerifyMerge,
	})
	if err != nil {
		return nil, err
	}

	a := &Algorithm{
		params:     params,
		quality:    qf,
		similarity: sim,
		merger:     merger,
		filters: filter.Build(filter.Options{
			Haircut:        params.Haircut,
			Fluff:          params.Fluff,
			FluffThreshold: params.FluffThreshold,
			MinSize:        params.MinSize,
			MinDensity:     params.MinDensity,
			KCore:          params.KCore,
		}),
		significance: significance.MannWhitney{},
		logger:       logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Params returns the validated parameters
func (a *Algorithm) Params() Params {
	return a.params
}

// Run clusters g. Cancelling ctx stops growth early; the result then holds the
// merged clusters of the seeds finished so far and Cancelled is set.
func (a *Algorithm) Run(ctx context.Context, g *graph.Graph) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := a.logger.With(logging.RunID(res.RunID))
	started := time.Now()

	result, err := a.run(ctx, g, logger, res)
	res.Stats.Duration = time.Since(started)

	status := "completed"
	switch {
	case err != nil:
		status = "failed"
		logger.Error("run failed", logging.Error(err), logging.Latency(res.Stats.Duration))
	case res.Cancelled:
		status = "cancelled"
		logger.Warn("run cancelled", logging.Count(len(res.Complexes)), logging.Latency(res.Stats.Duration))
	default:
		logger.Info("run finished", logging.Count(len(res.Complexes)), logging.Latency(res.Stats.Duration))
	}
	if a.metrics != nil {
		a.metrics.RecordRun(status, len(res.Complexes), res.Stats.Duration)
	}
	return result, err
}

func (a *Algorithm) run(ctx context.Context, g *graph.Graph, logger logging.Logger, res *Result) (*Result, error) {
	if g.NodeCount() == 0 {
		return nil, ErrEmptyGraph
	}
	if a.metrics != nil {
		a.metrics.SetGraphSize(g.NodeCount(), g.EdgeCount())
	}

	gen, err := a.generator(g)
	if err != nil {
		return nil, err
	}

	var used *nodeset.UsedNodeSet
	if seeds.SkipsCovered(gen) {
		used = nodeset.NewUsed(g.NodeCount())
	}

	pool, err := parallel.NewPool(g, parallel.Config{
		Workers: a.params.Workers,
		Quality: a.quality,
		Growth: growth.Options{
			KeepInitialSeeds: a.params.KeepInitialSeeds,
			MinGain:          growth.DefaultMinGain,
			MaxSteps:         a.params.MaxGrowthSteps,
		},
		Filters: a.filters,
		Used:    used,
		Logger:  logger,
		Metrics: a.metrics,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("run started",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.Method(gen.Name()),
		logging.Int("workers", pool.Workers()),
	)

	grown, stats, err := a.grow(ctx, pool, gen, g, logger)
	res.Stats.Seeds = stats
	res.Stats.Grown = len(grown)
	if err != nil {
		return nil, err
	}
	res.Cancelled = stats.Cancelled

	// a cancelled run still merges what it has
	merged, err := a.merge(context.WithoutCancel(ctx), grown, logger)
	if err != nil {
		return nil, err
	}
	res.Stats.Merged = len(merged)

	res.Complexes = a.report(merged, &res.Stats)
	return res, nil
}

// generator resolves the seed method; named seed sets are mapped onto g.
func (a *Algorithm) generator(g *graph.Graph) (seeds.Generator, error) {
	var given [][]int
	if a.params.SeedMethod == "file" {
		sets, err := seeds.Resolve(g, a.params.SeedSets)
		if err != nil {
			return nil, err
		}
		given = sets
	}
	return seeds.New(a.params.SeedMethod, given)
}

// grow runs the pool and collects accepted clusters in seed order.
func (a *Algorithm) grow(ctx context.Context, pool *parallel.Pool, gen seeds.Generator, g *graph.Graph, logger logging.Logger) ([]*nodeset.ValuedNodeSet, parallel.Stats, error) {
	timer := logging.StartTimer(logger, "growth finished")

	var grown []*nodeset.ValuedNodeSet
	stats, err := pool.Run(ctx, gen.Seeds(g), func(r parallel.Result) error {
		if r.Err != nil {
			if a.params.OnSeedError == OnSeedErrorAbort {
				return &RunError{Op: "grow", Seq: int64(r.Seq), Seed: r.Seed.Members, Cause: r.Err}
			}
			logger.Warn("seed failed, skipping",
				logging.Seq(r.Seq),
				logging.Seed(r.Seed.Members),
				logging.Error(r.Err),
			)
			return nil
		}
		if r.Cluster != nil {
			grown = append(grown, r.Cluster)
		}
		return nil
	})
	if err != nil {
		timer.EndError(err)
		return nil, stats, err
	}

	timer.End(
		logging.Int("accepted", stats.Accepted),
		logging.Int("rejected", stats.Rejected),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
		logging.Int("max_pending", stats.MaxPending),
	)
	return grown, stats, nil
}

func (a *Algorithm) merge(ctx context.Context, grown []*nodeset.ValuedNodeSet, logger logging.Logger) ([]*nodeset.ValuedNodeSet, error) {
	timer := logging.StartTimer(logger, "merge finished", logging.Method(a.merger.Name()))

	merged, err := a.merger.Merge(ctx, grown, a.similarity, a.params.OverlapThreshold)
	elapsed := timer.Elapsed()
	if a.metrics != nil {
		a.metrics.RecordMerge(a.merger.Name(), len(grown), len(merged), elapsed)
	}
	if err != nil {
		timer.EndError(err)
		if errors.Is(err, merge.ErrMergeNotConverged) {
			return nil, &RunError{Op: "merge", Seq: -1, Cause: err}
		}
		return nil, err
	}

	timer.End(logging.Int("in", len(grown)), logging.Int("out", len(merged)))
	return merged, nil
}

// report applies the post-merge filters and attaches quality and p-values.
func (a *Algorithm) report(merged []*nodeset.ValuedNodeSet, stats *Stats) []*Complex {
	complexes := make([]*Complex, 0, len(merged))
	for _, set := range merged {
		if a.params.RefilterMerged && set.Density() < a.params.MinDensity {
			stats.Refiltered++
			continue
		}
		c := &Complex{
			ValuedNodeSet: set,
			Quality:       a.quality.Quality(set),
			PValue:        a.significance.PValue(set.NodeSet),
		}
		if c.PValue > a.params.MaxPValue {
			stats.Dropped++
			continue
		}
		complexes = append(complexes, c)
	}
	return complexes
}
