package filter

import (
	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
)

// Haircut repeatedly removes members whose weight into the set is below
// Threshold times the mean member weight (2*in/size). It never rejects; an
// emptied set is left to the size filter.
type Haircut struct {
	Threshold float64
}

// Name returns the filter name
func (Haircut) Name() string { return "haircut" }

// Apply implements Filter
func (f Haircut) Apply(set *nodeset.MutableNodeSet) bool {
	for set.Size() > 0 {
		limit := f.Threshold * 2 * set.TotalInternalWeight() / float64(set.Size())

		var weak []int
		for _, m := range snapshot(set.Members()) {
			if set.InternalWeight(m) < limit {
				weak = append(weak, m)
			}
		}
		if len(weak) == 0 {
			break
		}
		for _, m := range weak {
			set.Remove(m)
		}
	}
	return true
}

// Fluff adds every boundary node whose weight into the set, divided by the set
// size before fluffing, is at least Threshold.
type Fluff struct {
	Threshold float64
}

// Name returns the filter name
func (Fluff) Name() string { return "fluff" }

// Apply implements Filter
func (f Fluff) Apply(set *nodeset.MutableNodeSet) bool {
	size := float64(set.Size())
	if size == 0 {
		return true
	}

	var added []int
	for _, v := range snapshot(set.ExternalBoundaryNodes()) {
		if set.InternalWeight(v)/size >= f.Threshold {
			added = append(added, v)
		}
	}
	for _, v := range added {
		set.Add(v)
	}
	return true
}

// KCore peels members with fewer than K neighbours inside the set until every
// remaining member has at least K. An empty core is rejected.
type KCore struct {
	K int
}

// Name returns the filter name
func (KCore) Name() string { return "kcore" }

// Apply implements Filter
func (f KCore) Apply(set *nodeset.MutableNodeSet) bool {
	for {
		var peel []int
		for _, m := range snapshot(set.Members()) {
			if set.MemberNeighbors(m) < f.K {
				peel = append(peel, m)
			}
		}
		if len(peel) == 0 {
			break
		}
		for _, m := range peel {
			set.Remove(m)
		}
	}
	return set.Size() > 0
}
