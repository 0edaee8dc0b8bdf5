// Package seeds produces the initial node sets that growth starts from.
package seeds

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
)

// ErrUnknownMethod is returned for an unregistered seeding method.
var ErrUnknownMethod = errors.New("unknown seed method")

// ErrNoSeeds is returned when the "file" method is selected without seed sets.
var ErrNoSeeds = errors.New("seed method requires explicit seed sets")

// Seed is the initial member set handed to one growth run.
type Seed struct {
	Members []int
}

// Generator lazily produces seeds. The iteration order defines the output order.
type Generator interface {
	Name() string
	Seeds(g *graph.Graph) iter.Seq[Seed]
}

// CoverageAware generators ask the caller to skip seeds whose members are all
// covered by clusters accepted earlier in the run.
type CoverageAware interface {
	SkipsCovered() bool
}

// SkipsCovered reports whether gen wants covered seeds skipped
func SkipsCovered(gen Generator) bool {
	ca, ok := gen.(CoverageAware)
	return ok && ca.SkipsCovered()
}

var methods = []string{"edges", "file", "nodes", "unused_nodes"}

// Methods lists the registered method names
func Methods() []string {
	return append([]string(nil), methods...)
}

// New returns the generator registered under method. given is only used by "file".
func New(method string, given [][]int) (Generator, error) {
	switch method {
	case "nodes":
		return Nodes{}, nil
	case "unused_nodes":
		return UnusedNodes{}, nil
	case "edges":
		return Edges{}, nil
	case "file":
		if len(given) == 0 {
			return nil, ErrNoSeeds
		}
		return Given{Sets: given}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Nodes seeds growth from every node, in index order.
type Nodes struct{}

// Name returns the registry name
func (Nodes) Name() string { return "nodes" }

// Seeds implements Generator
func (Nodes) Seeds(g *graph.Graph) iter.Seq[Seed] {
	return func(yield func(Seed) bool) {
		for v := 0; v < g.NodeCount(); v++ {
			if !yield(Seed{Members: []int{v}}) {
				return
			}
		}
	}
}

// UnusedNodes seeds from nodes in decreasing order of strength (ties by index),
// skipping nodes that already belong to an accepted cluster.
type UnusedNodes struct{}

// Name returns the registry name
func (UnusedNodes) Name() string { return "unused_nodes" }

// SkipsCovered implements CoverageAware
func (UnusedNodes) SkipsCovered() bool { return true }

// Seeds implements Generator
func (UnusedNodes) Seeds(g *graph.Graph) iter.Seq[Seed] {
	return func(yield func(Seed) bool) {
		order := make([]int, g.NodeCount())
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return g.Strength(order[i]) > g.Strength(order[j])
		})
		for _, v := range order {
			if !yield(Seed{Members: []int{v}}) {
				return
			}
		}
	}
}

// Edges seeds growth from the endpoints of every edge, in edge order.
type Edges struct{}

// Name returns the registry name
func (Edges) Name() string { return "edges" }

// Seeds implements Generator
func (Edges) Seeds(g *graph.Graph) iter.Seq[Seed] {
	return func(yield func(Seed) bool) {
		for e := range g.Edges() {
			if !yield(Seed{Members: []int{e.Source, e.Target}}) {
				return
			}
		}
	}
}

// Given replays an explicit list of seed sets.
type Given struct {
	Sets [][]int
}

// Name returns the registry name
func (Given) Name() string { return "file" }

// Seeds implements Generator
func (s Given) Seeds(*graph.Graph) iter.Seq[Seed] {
	return func(yield func(Seed) bool) {
		for _, members := range s.Sets {
			if !yield(Seed{Members: members}) {
				return
			}
		}
	}
}

// Resolve maps seed sets given by node name to node indices.
// Unknown names are reported together in one error.
func Resolve(g *graph.Graph, named [][]string) ([][]int, error) {
	var unknown []string
	sets := make([][]int, 0, len(named))
	for _, names := range named {
		members := make([]int, 0, len(names))
		for _, name := range names {
			v, ok := g.Index(name)
			if !ok {
				unknown = append(unknown, name)
				continue
			}
			members = append(members, v)
		}
		if len(members) > 0 {
			sets = append(sets, members)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("seed sets reference unknown nodes: %v", unknown)
	}
	return sets, nil
}
