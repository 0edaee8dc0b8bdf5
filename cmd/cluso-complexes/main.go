// Command cluso-complexes detects overlapping protein complexes (or any other
// dense, overlapping groups) in a weighted graph.
//
// Usage:
//
//	cluso-complexes [flags] <edge list | s3://bucket/key | postgres://...>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-complexes/pkg/clusterone"
	"github.com/dd0wney/cluso-complexes/pkg/config"
	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/logging"
	"github.com/dd0wney/cluso-complexes/pkg/metrics"
	"github.com/dd0wney/cluso-complexes/pkg/server"
)

// exit code for a run stopped by a signal
const exitCancelled = 130

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "cluso-complexes:", err)
		return 2
	}

	logger := logging.NewJSONLogger(stderr, cfg.LogLevel())
	logging.SetDefaultLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	if cfg.Metrics.ListenAddr != "" {
		ms := server.NewMetricsServer(cfg.Metrics.ListenAddr, reg, logger)
		go func() {
			if err := ms.Start(); err != nil {
				logger.Error("metrics endpoint failed", logging.Error(err))
			}
		}()
		defer ms.Shutdown(5 * time.Second)
	}

	res, err := cluster(ctx, cfg, logger, reg)
	if err != nil {
		logger.Error("clustering failed", logging.Error(err))
		return 1
	}

	if err := emit(cfg.Output, res.Complexes, stdout); err != nil {
		logger.Error("failed to write complexes", logging.Error(err))
		return 1
	}
	if res.Cancelled {
		return exitCancelled
	}
	return 0
}

// cluster loads the graph and runs the algorithm
func cluster(ctx context.Context, cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*clusterone.Result, error) {
	alg, err := clusterone.New(cfg.Algorithm,
		clusterone.WithLogger(logger),
		clusterone.WithMetrics(reg),
	)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.SourceOptions()
	if err != nil {
		return nil, err
	}

	timer := logging.StartTimer(logger, "graph loaded", logging.Source(cfg.Input.URI))
	g, err := graph.Open(ctx, cfg.Input.URI, opts)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End(logging.Int("nodes", g.NodeCount()), logging.Int("edges", g.EdgeCount()))

	return alg.Run(ctx, g)
}

// emit writes the complexes to the configured path or stdout
func emit(out config.OutputConfig, complexes []*clusterone.Complex, stdout io.Writer) error {
	if out.Path == "" {
		return writeComplexes(stdout, out.Format, complexes)
	}
	f, err := os.Create(out.Path)
	if err != nil {
		return err
	}
	if err := writeComplexes(f, out.Format, complexes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseFlags loads the config file and applies flags that were set explicitly.
// LOG_LEVEL overrides the file; -log-level overrides both.
func parseFlags(args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("cluso-complexes", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configFile  = fs.String("config", "", "YAML configuration file")
		output      = fs.String("output", "", "Write complexes to this file instead of stdout")
		format      = fs.String("format", "", "Output format: plain or csv")
		logLevel    = fs.String("log-level", "", "Log level: debug, info, warn, error")
		metricsAddr = fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")
		duplicates  = fs.String("duplicates", "", "Duplicate edge policy: max, sum, first")

		minSize     = fs.Int("min-size", 0, "Minimum complex size")
		minDensity  = fs.Float64("min-density", 0, "Minimum complex density")
		penalty     = fs.Float64("penalty", 0, "Node penalty of the cohesiveness function")
		haircut     = fs.Float64("haircut", 0, "Haircut threshold, 0 disables")
		fluff       = fs.Bool("fluff", false, "Fluff clusters after growth")
		kcore       = fs.Int("k-core", 0, "Reduce clusters to their k-core, 0 disables")
		seedMethod  = fs.String("seed-method", "", "Seed method: nodes, unused_nodes, edges, file")
		mergeMethod = fs.String("merge-method", "", "Merge method: single, multi, none")
		similarity  = fs.String("similarity", "", "Overlap similarity: match, jaccard, simpson, dice")
		overlap     = fs.Float64("overlap", 0, "Overlap threshold for merging")
		maxPValue   = fs.Float64("max-pvalue", 0, "Drop complexes with a larger p-value")
		workers     = fs.Int("workers", 0, "Growth workers, 0 uses every CPU")
		onSeedError = fs.String("on-seed-error", "", "Seed failure policy: skip or abort")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cluso-complexes [flags] <graph>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	p := &cfg.Algorithm
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.Output.Path = *output
		case "format":
			cfg.Output.Format = *format
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "metrics-addr":
			cfg.Metrics.ListenAddr = *metricsAddr
		case "duplicates":
			cfg.Input.Duplicates = *duplicates
		case "min-size":
			p.MinSize = *minSize
		case "min-density":
			p.MinDensity = *minDensity
		case "penalty":
			p.NodePenalty = *penalty
		case "haircut":
			p.Haircut = *haircut
		case "fluff":
			p.Fluff = *fluff
		case "k-core":
			p.KCore = *kcore
		case "seed-method":
			p.SeedMethod = *seedMethod
		case "merge-method":
			p.MergeMethod = *mergeMethod
		case "similarity":
			p.Similarity = *similarity
		case "overlap":
			p.OverlapThreshold = *overlap
		case "max-pvalue":
			p.MaxPValue = *maxPValue
		case "workers":
			p.Workers = *workers
		case "on-seed-error":
			p.OnSeedError = *onSeedError
		}
	})

	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected one graph, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		cfg.Input.URI = fs.Arg(0)
	}
	if cfg.Input.URI == "" {
		return nil, errors.New("no input graph given")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
