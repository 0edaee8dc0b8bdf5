// Package merge collapses highly overlapping clusters into one.
//
// Two clusters are related when their similarity reaches the threshold. The
// mergers only ever compare clusters that share a node: a node to cluster
// index yields the candidate pairs, which is equivalent to scanning every pair
// because disjoint clusters have similarity 0.
package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/similarity"
)

var (
	ErrUnknownMethod     = errors.New("unknown merge method")
	ErrInvalidThreshold  = errors.New("merge threshold must be in (0, 1]")
	ErrMergeNotConverged = errors.New("merged clusters still overlap above the threshold")
)

// Merger combines clusters whose similarity reaches threshold.
type Merger interface {
	Name() string
	Merge(ctx context.Context, sets []*nodeset.ValuedNodeSet, fn similarity.Function, threshold float64) ([]*nodeset.ValuedNodeSet, error)
}

// Options configures the multi-pass merger.
type Options struct {
	MaxPasses int  // 0 means DefaultMaxPasses
	Verify    bool // fail with ErrMergeNotConverged if overlapping pairs remain
}

// DefaultMaxPasses bounds multi-pass merging
const DefaultMaxPasses = 100

// New returns the merger registered under method: "single", "multi" or "none".
func New(method string, opts Options) (Merger, error) {
	switch method {
	case "single":
		return SinglePass{}, nil
	case "multi":
		if opts.MaxPasses <= 0 {
			opts.MaxPasses = DefaultMaxPasses
		}
		return MultiPass{MaxPasses: opts.MaxPasses, Verify: opts.Verify}, nil
	case "none":
		return Dummy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Methods lists the registered merge methods
func Methods() []string {
	return []string{"multi", "none", "single"}
}

// Dummy leaves the clusters untouched.
type Dummy struct{}

func (Dummy) Name() string { return "none" }

func (Dummy) Merge(_ context.Context, sets []*nodeset.ValuedNodeSet, _ similarity.Function, _ float64) ([]*nodeset.ValuedNodeSet, error) {
	return sets, nil
}

// pair is a candidate merge with i < j.
type pair struct {
	i, j  int
	score float64
}

func checkThreshold(threshold float64) error {
	if threshold <= 0 || threshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// qualifyingPairs returns every pair (i<j) of overlapping sets whose
// similarity reaches threshold, ordered by i then j.
func qualifyingPairs(ctx context.Context, sets []*nodeset.ValuedNodeSet, fn similarity.Function, threshold float64) ([]pair, error) {
	index := make(map[int][]int)
	for i, s := range sets {
		for _, v := range s.Members() {
			index[v] = append(index[v], i)
		}
	}

	var pairs []pair
	seen := make(map[int]struct{})
	for i, s := range sets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clear(seen)
		for _, v := range s.Members() {
			for _, j := range index[v] {
				if j <= i {
					continue
				}
				seen[j] = struct{}{}
			}
		}
		for _, j := range sortedKeys(seen) {
			if score := fn.Similarity(s.NodeSet, sets[j].NodeSet); score >= threshold {
				pairs = append(pairs, pair{i: i, j: j, score: score})
			}
		}
	}
	return pairs, nil
}
