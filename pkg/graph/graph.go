package graph

import (
	"iter"
)

// Neighbor is one entry of a node's adjacency list.
type Neighbor struct {
	Node   int
	Weight float64
}

// Edge is an undirected weighted edge. Source < Target always holds.
type Edge struct {
	Source int
	Target int
	Weight float64
}

// Graph is an immutable weighted undirected graph over dense node indices 0..N-1.
// It is safe for concurrent reads.
type Graph struct {
	names     []string
	index     map[string]int
	adjacency [][]Neighbor
	strength  []float64
	edges     []Edge
	total     float64
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.adjacency)
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Neighbors returns the adjacency list of v sorted by neighbor index.
// The returned slice is shared and must not be modified.
func (g *Graph) Neighbors(v int) []Neighbor {
	return g.adjacency[v]
}

// Degree returns the number of distinct neighbors of v
func (g *Graph) Degree(v int) int {
	return len(g.adjacency[v])
}

// Strength returns the total weight of the edges incident on v
func (g *Graph) Strength(v int) float64 {
	return g.strength[v]
}

// TotalWeight returns the sum of all edge weights
func (g *Graph) TotalWeight() float64 {
	return g.total
}

// Edges iterates over every edge once, in insertion order.
func (g *Graph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range g.edges {
			if !yield(e) {
				return
			}
		}
	}
}

// EdgeWeight returns the weight of the edge between a and b, if any.
func (g *Graph) EdgeWeight(a, b int) (float64, bool) {
	adj := g.adjacency[a]
	lo, hi := 0, len(adj)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if adj[mid].Node < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(adj) && adj[lo].Node == b {
		return adj[lo].Weight, true
	}
	return 0, false
}

// Name returns the external name of node v
func (g *Graph) Name(v int) string {
	return g.names[v]
}

// Index returns the node index for a name
func (g *Graph) Index(name string) (int, bool) {
	v, ok := g.index[name]
	return v, ok
}

// Names maps node indices to their names.
func (g *Graph) Names(nodes []int) []string {
	out := make([]string, len(nodes))
	for i, v := range nodes {
		out[i] = g.names[v]
	}
	return out
}

// Valid reports whether v is a node of the graph
func (g *Graph) Valid(v int) bool {
	return v >= 0 && v < len(g.adjacency)
}
