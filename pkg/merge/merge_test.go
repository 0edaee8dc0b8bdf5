package merge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/similarity"
)

func valued(t *testing.T, g *graph.Graph, members ...[]int) []*nodeset.ValuedNodeSet {
	t.Helper()
	out := make([]*nodeset.ValuedNodeSet, len(members))
	for i, m := range members {
		set, err := nodeset.New(g, m)
		require.NoError(t, err)
		out[i] = nodeset.NewValued(set, 1)
	}
	return out
}

func emptyGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g, err := graph.FromEdges(n, nil)
	require.NoError(t, err)
	return g
}

// overlapFixture: {0..5}, {4..8}, {3..11}, {3,4,5}
func overlapFixture(t *testing.T) []*nodeset.ValuedNodeSet {
	return valued(t, emptyGraph(t, 12),
		[]int{0, 1, 2, 3, 4, 5},
		[]int{4, 5, 6, 7, 8},
		[]int{3, 4, 5, 6, 7, 8, 9, 10, 11},
		[]int{3, 4, 5},
	)
}

func members(sets []*nodeset.ValuedNodeSet) [][]int {
	out := make([][]int, len(sets))
	for i, s := range sets {
		out[i] = s.Members()
	}
	return out
}

func TestMultiPass_Fixture(t *testing.T) {
	m, err := New("multi", Options{})
	require.NoError(t, err)

	out, err := m.Merge(context.Background(), overlapFixture(t), similarity.Jaccard{}, 0.3)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, out[0].Members())
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 11}, out[1].Members())

	// {0..5} absorbed {3,4,5}
	assert.Equal(t, 1, out[0].Value(0))
	assert.Equal(t, 2, out[0].Value(3))
	assert.Equal(t, 9, out[0].TotalValue())
}

func TestSinglePass_Fixture(t *testing.T) {
	out, err := SinglePass{}.Merge(context.Background(), overlapFixture(t), similarity.Jaccard{}, 0.3)
	require.NoError(t, err)

	// {4..8}-{3..11}, {0..5}-{3,4,5} and {3,4,5}-{3..11} chain everything together
	require.Len(t, out, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, out[0].Members())
	assert.Equal(t, 23, out[0].TotalValue())
}

func TestMultiPass_DiffersFromRepeatedSinglePass(t *testing.T) {
	ctx := context.Background()

	// repeat single-pass until nothing changes
	sets := overlapFixture(t)
	for {
		next, err := SinglePass{}.Merge(ctx, sets, similarity.Jaccard{}, 0.3)
		require.NoError(t, err)
		if len(next) == len(sets) {
			sets = next
			break
		}
		sets = next
	}

	multi, err := MultiPass{MaxPasses: DefaultMaxPasses}.Merge(ctx, overlapFixture(t), similarity.Jaccard{}, 0.3)
	require.NoError(t, err)

	assert.Len(t, sets, 1, "repeated single-pass fuses the whole chain")
	assert.Len(t, multi, 2, "multi-pass keeps the chain ends apart")
}

func TestSinglePass_PassThroughAndOrder(t *testing.T) {
	sets := valued(t, emptyGraph(t, 10),
		[]int{7, 8, 9},
		[]int{0, 1, 2},
		[]int{0, 1, 2, 3},
		[]int{5},
	)
	out, err := SinglePass{}.Merge(context.Background(), sets, similarity.Match{}, 0.7)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Same(t, sets[0], out[0], "unmerged clusters are returned as they are")
	assert.Equal(t, []int{0, 1, 2, 3}, out[1].Members())
	assert.Equal(t, []int{2, 2, 2, 1}, out[1].Values())
	assert.Same(t, sets[3], out[2])
}

func TestMerge_Idempotent(t *testing.T) {
	ctx := context.Background()
	for _, method := range []string{"single", "multi"} {
		t.Run(method, func(t *testing.T) {
			m, err := New(method, Options{})
			require.NoError(t, err)

			first, err := m.Merge(ctx, overlapFixture(t), similarity.Jaccard{}, 0.3)
			require.NoError(t, err)

			again, err := SinglePass{}.Merge(ctx, first, similarity.Jaccard{}, 0.3)
			require.NoError(t, err)
			assert.Equal(t, members(first), members(again))
		})
	}
}

func TestMultiPass_VerifyReportsLeftovers(t *testing.T) {
	m := MultiPass{MaxPasses: 1, Verify: true}

	// one round merges {0..4} into {0..5}; {0,1,2,3} still reaches 4/6 against it
	sets := valued(t, emptyGraph(t, 6),
		[]int{0, 1, 2, 3},
		[]int{0, 1, 2, 3, 4},
		[]int{0, 1, 2, 3, 4, 5},
	)
	out, err := m.Merge(context.Background(), sets, similarity.Jaccard{}, 0.5)
	assert.True(t, errors.Is(err, ErrMergeNotConverged), "got %v", err)
	assert.Len(t, out, 2)

	m.MaxPasses = 10
	out, err = m.Merge(context.Background(), sets, similarity.Jaccard{}, 0.5)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestDummy(t *testing.T) {
	m, err := New("none", Options{})
	require.NoError(t, err)

	sets := overlapFixture(t)
	out, err := m.Merge(context.Background(), sets, similarity.Jaccard{}, 0.3)
	require.NoError(t, err)
	assert.Equal(t, sets, out)
}

func TestNew_Errors(t *testing.T) {
	_, err := New("complete", Options{})
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = SinglePass{}.Merge(context.Background(), overlapFixture(t), similarity.Jaccard{}, 0)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestMerge_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SinglePass{}.Merge(ctx, overlapFixture(t), similarity.Jaccard{}, 0.3)
	assert.ErrorIs(t, err, context.Canceled)
}
