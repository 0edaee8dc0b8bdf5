package graph

import (
	"fmt"
	"math"
	"sort"
)

// DuplicatePolicy decides how repeated edges between the same pair of nodes are combined.
type DuplicatePolicy int

const (
	DuplicateMax   DuplicatePolicy = iota // keep the largest weight
	DuplicateSum                          // add the weights up
	DuplicateFirst                        // keep the first weight seen
)

// ParseDuplicatePolicy converts a configuration name to a DuplicatePolicy
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "max":
		return DuplicateMax, nil
	case "sum":
		return DuplicateSum, nil
	case "first":
		return DuplicateFirst, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// String returns the configuration name of the policy
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateMax:
		return "max"
	case DuplicateSum:
		return "sum"
	case DuplicateFirst:
		return "first"
	default:
		return "unknown"
	}
}

type pairKey struct {
	a, b int
}

// Builder accumulates named edges and freezes them into a Graph.
// A Builder is not safe for concurrent use.
type Builder struct {
	policy DuplicatePolicy
	names  []string
	index  map[string]int
	edges  []Edge
	lookup map[pairKey]int
	loops  int
}

// NewBuilder creates an empty builder
func NewBuilder(policy DuplicatePolicy) *Builder {
	return &Builder{
		policy: policy,
		index:  make(map[string]int),
		lookup: make(map[pairKey]int),
	}
}

// AddNode registers a node name and returns its index. Isolated nodes are kept.
func (b *Builder) AddNode(name string) int {
	if v, ok := b.index[name]; ok {
		return v
	}
	v := len(b.names)
	b.names = append(b.names, name)
	b.index[name] = v
	return v
}

// AddEdge adds an undirected edge between two named nodes.
// Self-loops are dropped because they never contribute to internal or boundary weight.
func (b *Builder) AddEdge(source, target string, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: %v (%s-%s)", ErrInvalidWeight, weight, source, target)
	}

	u := b.AddNode(source)
	v := b.AddNode(target)
	if u == v {
		b.loops++
		return nil
	}
	if u > v {
		u, v = v, u
	}

	key := pairKey{u, v}
	if i, ok := b.lookup[key]; ok {
		switch b.policy {
		case DuplicateMax:
			b.edges[i].Weight = math.Max(b.edges[i].Weight, weight)
		case DuplicateSum:
			b.edges[i].Weight += weight
		}
		return nil
	}

	b.lookup[key] = len(b.edges)
	b.edges = append(b.edges, Edge{Source: u, Target: v, Weight: weight})
	return nil
}

// DroppedLoops returns how many self-loops were ignored
func (b *Builder) DroppedLoops() int {
	return b.loops
}

// Build freezes the accumulated edges into an immutable Graph.
func (b *Builder) Build() *Graph {
	n := len(b.names)
	g := &Graph{
		names:     append([]string(nil), b.names...),
		index:     make(map[string]int, n),
		adjacency: make([][]Neighbor, n),
		strength:  make([]float64, n),
		edges:     append([]Edge(nil), b.edges...),
	}
	for name, v := range b.index {
		g.index[name] = v
	}

	degree := make([]int, n)
	for _, e := range g.edges {
		degree[e.Source]++
		degree[e.Target]++
	}
	for v := range g.adjacency {
		g.adjacency[v] = make([]Neighbor, 0, degree[v])
	}

	for _, e := range g.edges {
		g.adjacency[e.Source] = append(g.adjacency[e.Source], Neighbor{Node: e.Target, Weight: e.Weight})
		g.adjacency[e.Target] = append(g.adjacency[e.Target], Neighbor{Node: e.Source, Weight: e.Weight})
		g.strength[e.Source] += e.Weight
		g.strength[e.Target] += e.Weight
		g.total += e.Weight
	}

	for _, adj := range g.adjacency {
		sort.Slice(adj, func(i, j int) bool { return adj[i].Node < adj[j].Node })
	}

	return g
}

// FromEdges builds a graph whose node names are the decimal indices 0..n-1.
// Used mostly by tests and generated fixtures.
func FromEdges(n int, edges []Edge) (*Graph, error) {
	b := NewBuilder(DuplicateMax)
	for i := 0; i < n; i++ {
		b.AddNode(fmt.Sprint(i))
	}
	for _, e := range edges {
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			return nil, fmt.Errorf("%w: edge %d-%d outside 0..%d", ErrNodeOutOfRange, e.Source, e.Target, n-1)
		}
		if err := b.AddEdge(fmt.Sprint(e.Source), fmt.Sprint(e.Target), e.Weight); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
