// Package filter holds the post-growth steps that trim, extend, accept or reject
// a grown cluster.
package filter

import (
	"slices"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
)

// Filter may transform the set in place and reports whether it is still accepted.
type Filter interface {
	Name() string
	Apply(set *nodeset.MutableNodeSet) bool
}

// Chain applies filters in order and stops at the first rejection.
type Chain []Filter

// Apply runs every filter; the set is accepted only if all accept it.
func (c Chain) Apply(set *nodeset.MutableNodeSet) bool {
	for _, f := range c {
		if !f.Apply(set) {
			return false
		}
	}
	return true
}

// Names lists the filters in application order
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name()
	}
	return names
}

// Options selects and parameterises the standard filters.
type Options struct {
	Haircut        float64 // 0 disables
	Fluff          bool
	FluffThreshold float64
	MinSize        int
	MinDensity     float64
	KCore          int // 0 disables
}

// Build assembles the standard chain: haircut, fluff, minimum size,
// minimum density, k-core.
func Build(opts Options) Chain {
	var chain Chain
	if opts.Haircut > 0 {
		chain = append(chain, Haircut{Threshold: opts.Haircut})
	}
	if opts.Fluff {
		chain = append(chain, Fluff{Threshold: opts.FluffThreshold})
	}
	chain = append(chain, MinSize{Size: opts.MinSize}, MinDensity{Density: opts.MinDensity})
	if opts.KCore > 0 {
		chain = append(chain, KCore{K: opts.KCore})
	}
	return chain
}

// snapshot copies and sorts nodes so in-place changes do not disturb iteration
// and results do not depend on internal ordering.
func snapshot(nodes []int) []int {
	out := slices.Clone(nodes)
	slices.Sort(out)
	return out
}

// MinSize rejects sets smaller than Size.
type MinSize struct {
	Size int
}

// Name returns the filter name
func (MinSize) Name() string { return "size" }

// Apply implements Filter
func (f MinSize) Apply(set *nodeset.MutableNodeSet) bool {
	return set.Size() >= f.Size
}

// MinDensity rejects sets whose density is below Density.
type MinDensity struct {
	Density float64
}

// Name returns the filter name
func (MinDensity) Name() string { return "density" }

// Apply implements Filter
func (f MinDensity) Apply(set *nodeset.MutableNodeSet) bool {
	return set.Density() >= f.Density
}
