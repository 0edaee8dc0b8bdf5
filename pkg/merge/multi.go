package merge

import (
	"context"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/similarity"
)

// MultiPass merges in rounds until no pair reaches the threshold.
//
// A round visits the qualifying pairs from most to least similar (ties by
// index) and merges a pair only if neither cluster was merged earlier in the
// same round. Merged clusters take the position of their lower index and are
// compared again in the next round.
//
// Repeating SinglePass instead would fuse every chain of overlapping clusters
// in the first round; pairing only the closest clusters lets a chain split into
// separate groups once the merged clusters stop overlapping enough.
type MultiPass struct {
	MaxPasses int
	Verify    bool
}

func (MultiPass) Name() string { return "multi" }

func (m MultiPass) Merge(ctx context.Context, sets []*nodeset.ValuedNodeSet, fn similarity.Function, threshold float64) ([]*nodeset.ValuedNodeSet, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	maxPasses := m.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	current := sets
	for pass := 0; pass < maxPasses && len(current) > 1; pass++ {
		pairs, err := qualifyingPairs(ctx, current, fn, threshold)
		if err != nil {
			return nil, err
		}
		if len(pairs) == 0 {
			return current, nil
		}
		current = mergeRound(current, pairs)
	}

	if m.Verify && len(current) > 1 {
		remaining, err := qualifyingPairs(ctx, current, fn, threshold)
		if err != nil {
			return nil, err
		}
		if len(remaining) > 0 {
			p := remaining[0]
			return current, fmt.Errorf("%w: %d pairs after %d passes, e.g. clusters %d and %d at %.4f",
				ErrMergeNotConverged, len(remaining), maxPasses, p.i, p.j, p.score)
		}
	}
	return current, nil
}

// mergeRound greedily matches the pairs and returns the merged list.
func mergeRound(sets []*nodeset.ValuedNodeSet, pairs []pair) []*nodeset.ValuedNodeSet {
	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].score > pairs[b].score
	})

	partner := make([]int, len(sets))
	for i := range partner {
		partner[i] = -1
	}
	for _, p := range pairs {
		if partner[p.i] >= 0 || partner[p.j] >= 0 {
			continue
		}
		partner[p.i], partner[p.j] = p.j, p.i
	}

	out := make([]*nodeset.ValuedNodeSet, 0, len(sets))
	for i, s := range sets {
		switch j := partner[i]; {
		case j < 0:
			out = append(out, s)
		case j > i:
			out = append(out, nodeset.MergeValued(s.Graph(), s, sets[j]))
		}
	}
	return out
}
