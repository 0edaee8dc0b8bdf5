// Package similarity scores the overlap between two clusters.
package similarity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
)

// ErrUnknownFunction is returned for an unregistered similarity name.
var ErrUnknownFunction = errors.New("unknown similarity function")

// Function is symmetric, ranges over [0,1] and is 0 for disjoint sets.
type Function interface {
	Name() string
	Similarity(a, b *nodeset.NodeSet) float64
}

// Default is the function used when none is configured.
const Default = "match"

var registry = map[string]Function{
	"jaccard": Jaccard{},
	"match":   Match{},
	"simpson": Simpson{},
	"dice":    Dice{},
}

// New returns the function registered under name.
func New(name string) (Function, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn, nil
}

// Names lists the registered functions, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// overlap returns |A∩B|, |A| and |B|; ok is false when either set is empty or
// they are disjoint.
func overlap(a, b *nodeset.NodeSet) (common, sa, sb float64, ok bool) {
	if a.Size() == 0 || b.Size() == 0 {
		return 0, 0, 0, false
	}
	n := a.IntersectionSize(b)
	if n == 0 {
		return 0, 0, 0, false
	}
	return float64(n), float64(a.Size()), float64(b.Size()), true
}

// Jaccard is |A∩B| / |A∪B|.
type Jaccard struct{}

func (Jaccard) Name() string { return "jaccard" }

func (Jaccard) Similarity(a, b *nodeset.NodeSet) float64 {
	common, sa, sb, ok := overlap(a, b)
	if !ok {
		return 0
	}
	return common / (sa + sb - common)
}

// Match is the matching score |A∩B|² / (|A|·|B|).
type Match struct{}

func (Match) Name() string { return "match" }

func (Match) Similarity(a, b *nodeset.NodeSet) float64 {
	common, sa, sb, ok := overlap(a, b)
	if !ok {
		return 0
	}
	return common * common / (sa * sb)
}

// Simpson is |A∩B| / min(|A|,|B|).
type Simpson struct{}

func (Simpson) Name() string { return "simpson" }

func (Simpson) Similarity(a, b *nodeset.NodeSet) float64 {
	common, sa, sb, ok := overlap(a, b)
	if !ok {
		return 0
	}
	return common / min(sa, sb)
}

// Dice is 2|A∩B| / (|A|+|B|).
type Dice struct{}

func (Dice) Name() string { return "dice" }

func (Dice) Similarity(a, b *nodeset.NodeSet) float64 {
	common, sa, sb, ok := overlap(a, b)
	if !ok {
		return 0
	}
	return 2 * common / (sa + sb)
}
