package nodeset

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
)

const absent = -1

// MutableNodeSet is a node set whose statistics are maintained incrementally.
//
// Every node adjacent to the set, member or not, carries the weight of its edges
// into the set and the number of members it touches. Add and Remove only walk the
// adjacency list of the node being moved, so a mutation costs O(degree).
//
// A MutableNodeSet is owned by a single goroutine.
type MutableNodeSet struct {
	graph *graph.Graph

	members     []int
	memberPos   []int32
	boundary    []int // external boundary nodes
	boundaryPos []int32

	inWeight []float64 // weight from node into the set
	contacts []int32   // members adjacent to node

	internal       float64
	boundaryWeight float64
}

// NewMutable creates an empty mutable set sized for g.
func NewMutable(g *graph.Graph) *MutableNodeSet {
	n := g.NodeCount()
	s := &MutableNodeSet{
		graph:       g,
		memberPos:   make([]int32, n),
		boundaryPos: make([]int32, n),
		inWeight:    make([]float64, n),
		contacts:    make([]int32, n),
	}
	for i := 0; i < n; i++ {
		s.memberPos[i] = absent
		s.boundaryPos[i] = absent
	}
	return s
}

// NewMutableFrom creates a mutable set holding the given members.
func NewMutableFrom(g *graph.Graph, members []int) (*MutableNodeSet, error) {
	s := NewMutable(g)
	if err := s.Reset(members); err != nil {
		return nil, err
	}
	return s, nil
}

// Graph returns the graph the set is bound to
func (s *MutableNodeSet) Graph() *graph.Graph {
	return s.graph
}

// Add inserts v. It returns false if v was already a member.
func (s *MutableNodeSet) Add(v int) bool {
	if s.memberPos[v] != absent {
		return false
	}
	if s.boundaryPos[v] != absent {
		s.dropBoundary(v)
	}

	s.memberPos[v] = int32(len(s.members))
	s.members = append(s.members, v)

	for _, nb := range s.graph.Neighbors(v) {
		u, w := nb.Node, nb.Weight
		s.contacts[u]++
		s.inWeight[u] += w
		if s.memberPos[u] != absent {
			s.internal += w
			s.boundaryWeight -= w
		} else {
			s.boundaryWeight += w
			if s.contacts[u] == 1 {
				s.pushBoundary(u)
			}
		}
	}
	return true
}

// Remove deletes v. It returns false if v was not a member.
func (s *MutableNodeSet) Remove(v int) bool {
	pos := s.memberPos[v]
	if pos == absent {
		return false
	}

	last := len(s.members) - 1
	moved := s.members[last]
	s.members[pos] = moved
	s.memberPos[moved] = pos
	s.members = s.members[:last]
	s.memberPos[v] = absent

	for _, nb := range s.graph.Neighbors(v) {
		u, w := nb.Node, nb.Weight
		s.contacts[u]--
		s.inWeight[u] -= w
		if s.contacts[u] == 0 {
			s.inWeight[u] = 0
		}
		if s.memberPos[u] != absent {
			s.internal -= w
			s.boundaryWeight += w
		} else {
			s.boundaryWeight -= w
			if s.contacts[u] == 0 {
				s.dropBoundary(u)
			}
		}
	}

	if s.contacts[v] > 0 {
		s.pushBoundary(v)
	}
	if len(s.members) == 0 {
		s.internal = 0
		s.boundaryWeight = 0
	}
	return true
}

// Clear empties the set in O(sum of member degrees).
func (s *MutableNodeSet) Clear() {
	for len(s.members) > 0 {
		s.Remove(s.members[len(s.members)-1])
	}
	s.internal = 0
	s.boundaryWeight = 0
}

// Reset replaces the members with the given nodes, reusing the allocated arrays.
func (s *MutableNodeSet) Reset(members []int) error {
	for _, v := range members {
		if !s.graph.Valid(v) {
			return fmt.Errorf("%w: %d", ErrNodeOutOfRange, v)
		}
	}
	s.Clear()
	for _, v := range members {
		s.Add(v)
	}
	return nil
}

func (s *MutableNodeSet) pushBoundary(u int) {
	s.boundaryPos[u] = int32(len(s.boundary))
	s.boundary = append(s.boundary, u)
}

func (s *MutableNodeSet) dropBoundary(u int) {
	pos := s.boundaryPos[u]
	last := len(s.boundary) - 1
	moved := s.boundary[last]
	s.boundary[pos] = moved
	s.boundaryPos[moved] = pos
	s.boundary = s.boundary[:last]
	s.boundaryPos[u] = absent
}

// Contains reports whether v is a member
func (s *MutableNodeSet) Contains(v int) bool {
	return s.memberPos[v] != absent
}

// Size returns the number of members
func (s *MutableNodeSet) Size() int {
	return len(s.members)
}

// Members returns the members in no particular order.
// The slice is invalidated by the next mutation and must not be modified.
func (s *MutableNodeSet) Members() []int {
	return s.members
}

// ExternalBoundaryNodes returns the non-members adjacent to at least one member,
// in no particular order. The slice is invalidated by the next mutation.
func (s *MutableNodeSet) ExternalBoundaryNodes() []int {
	return s.boundary
}

// InternalWeight returns the weight of edges between v and the current members.
// Defined for every node; it is 0 for nodes not adjacent to the set.
func (s *MutableNodeSet) InternalWeight(v int) float64 {
	return s.inWeight[v]
}

// ExternalWeight returns the weight of edges between v and non-members.
func (s *MutableNodeSet) ExternalWeight(v int) float64 {
	return s.graph.Strength(v) - s.inWeight[v]
}

// MemberNeighbors returns how many members are adjacent to v.
func (s *MutableNodeSet) MemberNeighbors(v int) int {
	return int(s.contacts[v])
}

// TotalInternalWeight returns the weight of edges with both ends in the set
func (s *MutableNodeSet) TotalInternalWeight() float64 {
	return s.internal
}

// TotalBoundaryWeight returns the weight of edges with exactly one end in the set
func (s *MutableNodeSet) TotalBoundaryWeight() float64 {
	return s.boundaryWeight
}

// Density returns the normalised internal weight
func (s *MutableNodeSet) Density() float64 {
	return Density(len(s.members), s.internal)
}

// Freeze takes an immutable snapshot carrying the current statistics.
func (s *MutableNodeSet) Freeze() *NodeSet {
	members := slices.Clone(s.members)
	slices.Sort(members)
	return &NodeSet{
		graph:    s.graph,
		members:  members,
		internal: s.internal,
		boundary: s.boundaryWeight,
	}
}
