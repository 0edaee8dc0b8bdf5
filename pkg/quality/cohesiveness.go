package quality

import "github.com/dd0wney/cluso-complexes/pkg/nodeset"

// Cohesiveness scores a set by the fraction of its incident weight that stays inside:
//
//	in / (in + boundary + penalty*size)
//
// The per-node penalty stands in for interactions missing from the input, so small
// sets with little evidence are not rated perfect.
type Cohesiveness struct {
	Penalty float64
}

// NewCohesiveness creates a cohesiveness function with the given node penalty
func NewCohesiveness(penalty float64) Cohesiveness {
	return Cohesiveness{Penalty: penalty}
}

// Name returns the registry name
func (Cohesiveness) Name() string {
	return "cohesiveness"
}

func (c Cohesiveness) score(size int, in, boundary float64) float64 {
	den := in + boundary + c.Penalty*float64(size)
	if den <= 0 {
		return 0
	}
	return in / den
}

// Quality scores a node set
func (c Cohesiveness) Quality(s nodeset.Stats) float64 {
	return c.score(s.Size(), s.TotalInternalWeight(), s.TotalBoundaryWeight())
}

// AdditionAffinity returns the quality change caused by adding v
func (c Cohesiveness) AdditionAffinity(s *nodeset.MutableNodeSet, v int) float64 {
	size, in, boundary := additionState(s, v)
	return c.score(size, in, boundary) - c.Quality(s)
}

// RemovalAffinity returns the quality change caused by removing m
func (c Cohesiveness) RemovalAffinity(s *nodeset.MutableNodeSet, m int) float64 {
	size, in, boundary := removalState(s, m)
	return c.score(size, in, boundary) - c.Quality(s)
}
