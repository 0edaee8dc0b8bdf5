package nodeset

import (
	"math/bits"
	"sync/atomic"
)

// UsedNodeSet is a bit vector marking nodes covered by at least one accepted cluster.
// One goroutine may mark nodes while others query; bits are never cleared.
type UsedNodeSet struct {
	words []atomic.Uint64
}

// NewUsed creates an empty bit vector over n nodes
func NewUsed(n int) *UsedNodeSet {
	return &UsedNodeSet{words: make([]atomic.Uint64, (n+63)/64)}
}

// Mark flags every node in nodes as used
func (u *UsedNodeSet) Mark(nodes []int) {
	for _, v := range nodes {
		u.words[v>>6].Or(uint64(1) << (uint(v) & 63))
	}
}

// IsUsed reports whether v has been marked
func (u *UsedNodeSet) IsUsed(v int) bool {
	return u.words[v>>6].Load()&(uint64(1)<<(uint(v)&63)) != 0
}

// CoversAll reports whether every node in nodes has been marked.
// An empty list is never covered.
func (u *UsedNodeSet) CoversAll(nodes []int) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, v := range nodes {
		if !u.IsUsed(v) {
			return false
		}
	}
	return true
}

// Count returns the number of marked nodes
func (u *UsedNodeSet) Count() int {
	n := 0
	for i := range u.words {
		n += bits.OnesCount64(u.words[i].Load())
	}
	return n
}
