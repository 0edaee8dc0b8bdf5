package nodeset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
)

// ErrNodeOutOfRange is returned when a member index is not a node of the graph.
var ErrNodeOutOfRange = errors.New("node out of range")

// Stats exposes the derived statistics shared by every node set variant.
type Stats interface {
	Size() int
	TotalInternalWeight() float64
	TotalBoundaryWeight() float64
	Density() float64
}

// Density is the internal weight normalised by the number of node pairs: 2*in / (k*(k-1)).
// Sets with fewer than two members have density 0.
func Density(size int, internal float64) float64 {
	if size <= 1 {
		return 0
	}
	return 2 * internal / (float64(size) * float64(size-1))
}

// NodeSet is an immutable set of nodes bound to a graph.
type NodeSet struct {
	graph    *graph.Graph
	members  []int // sorted, unique
	internal float64
	boundary float64
}

// New builds a NodeSet from arbitrary members, computing every statistic from scratch.
// Duplicates are ignored.
func New(g *graph.Graph, members []int) (*NodeSet, error) {
	sorted := slices.Clone(members)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	for _, v := range sorted {
		if !g.Valid(v) {
			return nil, fmt.Errorf("%w: %d", ErrNodeOutOfRange, v)
		}
	}

	ns := &NodeSet{graph: g, members: sorted}
	for _, v := range sorted {
		for _, nb := range g.Neighbors(v) {
			if ns.Contains(nb.Node) {
				// internal edges are seen from both ends, count them once
				if nb.Node > v {
					ns.internal += nb.Weight
				}
			} else {
				ns.boundary += nb.Weight
			}
		}
	}
	return ns, nil
}

// Graph returns the graph the set is bound to
func (s *NodeSet) Graph() *graph.Graph {
	return s.graph
}

// Size returns the number of members
func (s *NodeSet) Size() int {
	return len(s.members)
}

// Members returns the sorted members. The slice must not be modified.
func (s *NodeSet) Members() []int {
	return s.members
}

// Contains reports whether v is a member
func (s *NodeSet) Contains(v int) bool {
	_, ok := slices.BinarySearch(s.members, v)
	return ok
}

// TotalInternalWeight returns the weight of edges with both ends in the set
func (s *NodeSet) TotalInternalWeight() float64 {
	return s.internal
}

// TotalBoundaryWeight returns the weight of edges with exactly one end in the set
func (s *NodeSet) TotalBoundaryWeight() float64 {
	return s.boundary
}

// Density returns the normalised internal weight
func (s *NodeSet) Density() float64 {
	return Density(len(s.members), s.internal)
}

// InternalWeight returns the weight of edges between v and the members.
func (s *NodeSet) InternalWeight(v int) float64 {
	sum := 0.0
	for _, nb := range s.graph.Neighbors(v) {
		if s.Contains(nb.Node) {
			sum += nb.Weight
		}
	}
	return sum
}

// ExternalWeight returns the weight of edges between v and non-members.
func (s *NodeSet) ExternalWeight(v int) float64 {
	return s.graph.Strength(v) - s.InternalWeight(v)
}

// IntersectionSize counts the members shared with another set.
func (s *NodeSet) IntersectionSize(other *NodeSet) int {
	a, b := s.members, other.members
	i, j, n := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}

// Names returns the member names in member order
func (s *NodeSet) Names() []string {
	return s.graph.Names(s.members)
}

// String renders the set as a list of member names.
func (s *NodeSet) String() string {
	return fmt.Sprint(s.Names())
}
