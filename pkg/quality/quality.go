// Package quality provides the scoring functions that steer greedy cluster growth.
//
// Every Function must keep its affinities consistent with Quality:
//
//	AdditionAffinity(S, v) == Quality(S ∪ {v}) − Quality(S)
//	RemovalAffinity(S, m)  == Quality(S \ {m}) − Quality(S)
//
// and compute them in constant time from the per-node weights a MutableNodeSet caches.
package quality

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
)

// ErrUnknownFunction is returned for an unregistered quality function name.
var ErrUnknownFunction = errors.New("unknown quality function")

// Function scores node sets and the marginal effect of single-node changes.
type Function interface {
	Name() string
	Quality(s nodeset.Stats) float64
	AdditionAffinity(s *nodeset.MutableNodeSet, v int) float64
	RemovalAffinity(s *nodeset.MutableNodeSet, m int) float64
}

// Options carries the tunables quality functions may use.
type Options struct {
	NodePenalty float64 // extra boundary weight per member, models unseen edges
}

// DefaultOptions returns the usual settings.
func DefaultOptions() Options {
	return Options{NodePenalty: 2}
}

var registry = map[string]func(Options) Function{
	"cohesiveness": func(o Options) Function { return NewCohesiveness(o.NodePenalty) },
	"density":      func(Options) Function { return Density{} },
}

// New looks up a quality function by configuration name.
func New(name string, opts Options) (Function, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return ctor(opts), nil
}

// Names lists the registered function names
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// additionState returns size, internal and boundary weight after adding v.
func additionState(s *nodeset.MutableNodeSet, v int) (int, float64, float64) {
	in := s.InternalWeight(v)
	out := s.ExternalWeight(v)
	return s.Size() + 1, s.TotalInternalWeight() + in, s.TotalBoundaryWeight() - in + out
}

// removalState returns size, internal and boundary weight after removing m.
func removalState(s *nodeset.MutableNodeSet, m int) (int, float64, float64) {
	in := s.InternalWeight(m)
	out := s.ExternalWeight(m)
	return s.Size() - 1, s.TotalInternalWeight() - in, s.TotalBoundaryWeight() + in - out
}
