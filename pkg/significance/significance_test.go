package significance

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
)

func TestUTest_SeparatedSamples(t *testing.T) {
	high := []float64{6, 7, 8, 9, 10}
	low := []float64{1, 2, 3, 4, 5}

	// U = 25, mean 12.5, variance 25/12*11, z = 12/sqrt(22.9167)
	want := 0.006085
	if got := UTest(high, low); math.Abs(got-want) > 1e-4 {
		t.Errorf("UTest(high, low) = %v, want ~%v", got, want)
	}
	if got := UTest(low, high); got < 0.99 {
		t.Errorf("UTest(low, high) = %v, want close to 1", got)
	}
}

func TestUTest_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
	}{
		{"empty xs", nil, []float64{1}},
		{"empty ys", []float64{1}, nil},
		{"all tied", []float64{2, 2, 2}, []float64{2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UTest(tt.xs, tt.ys); got != 1 {
				t.Errorf("Expected 1, got %v", got)
			}
		})
	}
}

func TestMannWhitney_Clique(t *testing.T) {
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
	if err != nil {
		t.Fatal(err)
	}

	clique, _ := nodeset.New(g, []int{0, 1, 2, 3, 4})
	if p := (MannWhitney{}).PValue(clique); p > 0.01 {
		t.Errorf("Clique p-value = %v, want < 0.01", p)
	}

	straddle, _ := nodeset.New(g, []int{3, 4, 5, 6})
	if p := (MannWhitney{}).PValue(straddle); p < 0.1 {
		t.Errorf("Straddling set p-value = %v, want large", p)
	}

	single, _ := nodeset.New(g, []int{0})
	if p := (MannWhitney{}).PValue(single); p != 1 {
		t.Errorf("Singleton p-value = %v, want 1", p)
	}
}

func TestUTest_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	sample := gen.SliceOf(gen.Float64Range(0, 10))
	nonEmpty := sample.SuchThat(func(v []float64) bool { return len(v) > 0 })

	properties.Property("p-value is a probability", prop.ForAll(
		func(xs, ys []float64) bool {
			p := UTest(xs, ys)
			return p >= 0 && p <= 1
		},
		sample, sample,
	))

	properties.Property("xs entirely above ys is at most 0.5", prop.ForAll(
		func(xs, ys []float64) bool {
			shifted := make([]float64, len(xs))
			for i, x := range xs {
				shifted[i] = x + 20
			}
			return UTest(shifted, ys) <= 0.5
		},
		nonEmpty, nonEmpty,
	))

	properties.TestingRun(t)
}
