package growth

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/quality"
)

// twoCliques returns two K5s, {0..4} and {5..9}, joined by a weak 4-5 bridge.
func twoCliques(t *testing.T) *graph.Graph {
	t.Helper()
	var edges []graph.Edge
	for _, base := range []int{0, 5} {
		for i := 0; i < 5; i++ {
			for j := i + 1; j < 5; j++ {
				edges = append(edges, graph.Edge{Source: base + i, Target: base + j, Weight: 1})
			}
		}
	}
	edges = append(edges, graph.Edge{Source: 4, Target: 5, Weight: 0.1})
	g, err := graph.FromEdges(10, edges)
	require.NoError(t, err)
	return g
}

func newProcess(g *graph.Graph, opts Options) *Process {
	return NewProcess(nodeset.NewMutable(g), quality.NewCohesiveness(2), opts)
}

func members(p *Process) *nodeset.NodeSet {
	return p.Set().Freeze()
}

func TestProcess_GrowsToClique(t *testing.T) {
	g := twoCliques(t)
	p := newProcess(g, DefaultOptions())

	require.NoError(t, p.Reset([]int{0}))
	assert.Equal(t, Growing, p.State())

	p.Run(context.Background())

	assert.Equal(t, Terminated, p.State())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, members(p).Members())
	assert.Equal(t, 4, p.Steps())
	assert.Equal(t, Terminate, p.SuggestAction().Kind)
	assert.False(t, p.Step(), "a terminated process must not step")
}

func TestProcess_TiesGoToLowestIndex(t *testing.T) {
	g := twoCliques(t)
	p := newProcess(g, DefaultOptions())
	require.NoError(t, p.Reset([]int{2}))

	// 0, 1, 3 and 4 are interchangeable from the outside except for 4's bridge
	action := p.SuggestAction()
	assert.Equal(t, Add, action.Kind)
	assert.Equal(t, 0, action.Node)
	assert.Greater(t, action.Gain, 0.0)
}

func TestProcess_RemovesWeakMember(t *testing.T) {
	g := twoCliques(t)
	p := newProcess(g, DefaultOptions())
	require.NoError(t, p.Reset([]int{0, 1, 2, 3, 4, 7}))

	p.Run(context.Background())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, members(p).Members())
}

func TestProcess_KeepInitialSeeds(t *testing.T) {
	g := twoCliques(t)
	opts := DefaultOptions()
	opts.KeepInitialSeeds = true
	p := newProcess(g, opts)
	require.NoError(t, p.Reset([]int{0, 1, 2, 3, 4, 7}))

	p.Run(context.Background())
	assert.True(t, p.Set().Contains(7), "protected seed member must survive")

	// protection is dropped on the next seed
	require.NoError(t, p.Reset([]int{0}))
	p.opts.KeepInitialSeeds = false
	require.NoError(t, p.Reset([]int{0, 1, 2, 3, 4, 7}))
	p.Run(context.Background())
	assert.False(t, p.Set().Contains(7))
}

func TestProcess_MaxSteps(t *testing.T) {
	g := twoCliques(t)
	opts := DefaultOptions()
	opts.MaxSteps = 2
	p := newProcess(g, opts)
	require.NoError(t, p.Reset([]int{0}))

	p.Run(context.Background())
	assert.Equal(t, 2, p.Steps())
	assert.Equal(t, 3, p.Set().Size())
	assert.Equal(t, Terminated, p.State())
}

func TestProcess_CancelledContext(t *testing.T) {
	g := twoCliques(t)
	p := newProcess(g, DefaultOptions())
	require.NoError(t, p.Reset([]int{0}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)

	assert.Zero(t, p.Steps())
	assert.Equal(t, 1, p.Set().Size())
}

func TestProcess_InvalidSeed(t *testing.T) {
	g := twoCliques(t)
	p := newProcess(g, DefaultOptions())
	assert.ErrorIs(t, p.Reset([]int{42}), nodeset.ErrNodeOutOfRange)
	assert.False(t, p.Step())
}

func TestProcess_QualityIncreasesEveryStep(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	const n = 60
	edges := make([]graph.Edge, 0, 300)
	for i := 0; i < 300; i++ {
		edges = append(edges, graph.Edge{Source: rng.IntN(n), Target: rng.IntN(n), Weight: 0.2 + rng.Float64()})
	}
	g, err := graph.FromEdges(n, edges)
	require.NoError(t, err)

	for _, fn := range []quality.Function{quality.NewCohesiveness(2), quality.NewCohesiveness(0.5)} {
		p := NewProcess(nodeset.NewMutable(g), fn, DefaultOptions())
		for seed := 0; seed < n; seed += 7 {
			require.NoError(t, p.Reset([]int{seed}))
			prev := fn.Quality(p.Set())
			for p.Step() {
				q := fn.Quality(p.Set())
				assert.Greater(t, q, prev-1e-12, "seed %d step %d", seed, p.Steps())
				prev = q
			}
		}
	}
}
