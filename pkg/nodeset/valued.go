package nodeset

import (
	"slices"

	"github.com/dd0wney/cluso-complexes/pkg/graph"
)

// ValuedNodeSet is a NodeSet where every member carries an integer value.
// Merged clusters use the value to count how many source clusters contained a node.
type ValuedNodeSet struct {
	*NodeSet
	values []int // aligned with Members()
}

// NewValued wraps set, giving every member the same value.
func NewValued(set *NodeSet, value int) *ValuedNodeSet {
	values := make([]int, set.Size())
	for i := range values {
		values[i] = value
	}
	return &ValuedNodeSet{NodeSet: set, values: values}
}

// Value returns the value of v, or 0 if v is not a member
func (s *ValuedNodeSet) Value(v int) int {
	i, ok := slices.BinarySearch(s.members, v)
	if !ok {
		return 0
	}
	return s.values[i]
}

// Values returns the member values aligned with Members(). Must not be modified.
func (s *ValuedNodeSet) Values() []int {
	return s.values
}

// TotalValue returns the sum of all member values
func (s *ValuedNodeSet) TotalValue() int {
	total := 0
	for _, v := range s.values {
		total += v
	}
	return total
}

// MergeValued computes the multiset union of the given sets: every node of any input
// appears once, with the sum of its values across the inputs. Statistics are computed
// from scratch on the union.
func MergeValued(g *graph.Graph, sets ...*ValuedNodeSet) *ValuedNodeSet {
	if len(sets) == 1 {
		return sets[0]
	}

	counts := make(map[int]int)
	for _, s := range sets {
		for i, v := range s.members {
			counts[v] += s.values[i]
		}
	}

	members := make([]int, 0, len(counts))
	for v := range counts {
		members = append(members, v)
	}

	// members come from sets bound to g, so New cannot fail
	union, _ := New(g, members)
	values := make([]int, union.Size())
	for i, v := range union.members {
		values[i] = counts[v]
	}
	return &ValuedNodeSet{NodeSet: union, values: values}
}
