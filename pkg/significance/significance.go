// Package significance attaches p-values to reported complexes.
package significance

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
)

// Test computes a p-value for a node set; lower means more significant.
type Test interface {
	PValue(s *nodeset.NodeSet) float64
}

// MannWhitney is a one-sided Mann-Whitney U test of the hypothesis that the members'
// internal weights are larger than their external weights. It uses the normal
// approximation with tie and continuity corrections.
type MannWhitney struct{}

// PValue implements Test
func (MannWhitney) PValue(s *nodeset.NodeSet) float64 {
	k := s.Size()
	if k < 2 {
		return 1
	}

	inner := make([]float64, k)
	outer := make([]float64, k)
	for i, v := range s.Members() {
		inner[i] = s.InternalWeight(v)
		outer[i] = s.ExternalWeight(v)
	}
	return UTest(inner, outer)
}

type observation struct {
	value float64
	first bool
}

// UTest returns the one-sided p-value that xs tends to be larger than ys.
func UTest(xs, ys []float64) float64 {
	n1, n2 := len(xs), len(ys)
	if n1 == 0 || n2 == 0 {
		return 1
	}

	obs := make([]observation, 0, n1+n2)
	for _, x := range xs {
		obs = append(obs, observation{value: x, first: true})
	}
	for _, y := range ys {
		obs = append(obs, observation{value: y})
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].value < obs[j].value })

	// average ranks over ties and collect the tie correction term
	n := len(obs)
	rankSum := 0.0
	tieTerm := 0.0
	for i := 0; i < n; {
		j := i + 1
		for j < n && obs[j].value == obs[i].value {
			j++
		}
		rank := float64(i+j+1) / 2
		for _, o := range obs[i:j] {
			if o.first {
				rankSum += rank
			}
		}
		t := float64(j - i)
		tieTerm += t*t*t - t
		i = j
	}

	u := rankSum - float64(n1)*float64(n1+1)/2
	mean := float64(n1) * float64(n2) / 2
	variance := float64(n1) * float64(n2) / 12 * (float64(n+1) - tieTerm/(float64(n)*float64(n-1)))
	if variance <= 0 {
		return 1
	}

	z := (u - mean - 0.5) / math.Sqrt(variance)
	return distuv.UnitNormal.Survival(z)
}
