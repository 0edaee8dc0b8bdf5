package quality

import "github.com/dd0wney/cluso-complexes/pkg/nodeset"

// Density scores a set by its normalised internal weight, ignoring the boundary.
type Density struct{}

// Name returns the registry name
func (Density) Name() string {
	return "density"
}

// Quality scores a node set
func (Density) Quality(s nodeset.Stats) float64 {
	return nodeset.Density(s.Size(), s.TotalInternalWeight())
}

// AdditionAffinity returns the quality change caused by adding v
func (d Density) AdditionAffinity(s *nodeset.MutableNodeSet, v int) float64 {
	size, in, _ := additionState(s, v)
	return nodeset.Density(size, in) - d.Quality(s)
}

// RemovalAffinity returns the quality change caused by removing m
func (d Density) RemovalAffinity(s *nodeset.MutableNodeSet, m int) float64 {
	size, in, _ := removalState(s, m)
	return nodeset.Density(size, in) - d.Quality(s)
}
