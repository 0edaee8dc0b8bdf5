package quality

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
)

func randomGraph(t *testing.T, n, m int) *graph.Graph {
	t.Helper()
	rng := rand.New(rand.NewPCG(3, 5))
	edges := make([]graph.Edge, 0, m)
	for i := 0; i < m; i++ {
		edges = append(edges, graph.Edge{Source: rng.IntN(n), Target: rng.IntN(n), Weight: 0.5 + rng.Float64()})
	}
	g, err := graph.FromEdges(n, edges)
	require.NoError(t, err)
	return g
}

func scratchQuality(t *testing.T, f Function, g *graph.Graph, members []int) float64 {
	ns, err := nodeset.New(g, members)
	require.NoError(t, err)
	return f.Quality(ns)
}

func without(members []int, m int) []int {
	out := make([]int, 0, len(members))
	for _, v := range members {
		if v != m {
			out = append(out, v)
		}
	}
	return out
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		f, err := New(name, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}

	_, err := New("modularity", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

func TestCohesiveness_Values(t *testing.T) {
	pairs := [][2]int{{0, 1}, {1, 3}, {3, 4}, {4, 6}, {6, 5}, {5, 3}, {3, 2}, {2, 0}, {0, 3}}
	edges := make([]graph.Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = graph.Edge{Source: p[0], Target: p[1], Weight: float64(i + 1)}
	}
	g, err := graph.FromEdges(7, edges)
	require.NoError(t, err)

	ns, _ := nodeset.New(g, []int{0, 1, 2, 6})
	assert.InDelta(t, 9.0/(9+27), NewCohesiveness(0).Quality(ns), 1e-12)
	assert.InDelta(t, 9.0/(9+27+8), NewCohesiveness(2).Quality(ns), 1e-12)

	empty, _ := nodeset.New(g, nil)
	assert.Zero(t, NewCohesiveness(2).Quality(empty))
}

func TestAffinityContract(t *testing.T) {
	const n = 30
	g := randomGraph(t, n, 90)
	functions := []Function{NewCohesiveness(2), NewCohesiveness(0), Density{}}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	for _, f := range functions {
		properties.Property(f.Name()+" affinities equal quality deltas", prop.ForAll(
			func(members []int, probe int) bool {
				s, err := nodeset.NewMutableFrom(g, members)
				if err != nil {
					return false
				}
				base := scratchQuality(t, f, g, s.Members())
				current := append([]int(nil), s.Members()...)

				if s.Contains(probe) {
					got := f.RemovalAffinity(s, probe)
					want := scratchQuality(t, f, g, without(current, probe)) - base
					return math.Abs(got-want) < 1e-9
				}
				got := f.AdditionAffinity(s, probe)
				want := scratchQuality(t, f, g, append(current, probe)) - base
				return math.Abs(got-want) < 1e-9
			},
			gen.SliceOf(gen.IntRange(0, n-1)),
			gen.IntRange(0, n-1),
		))
	}

	properties.TestingRun(t)
}
