package merge

import (
	"container/list"
	"context"
	"slices"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/similarity"
)

// SinglePass merges every connected component of the overlap graph, whose
// vertices are the clusters and whose edges are the qualifying pairs.
// Components are emitted in order of their lowest cluster index; clusters with
// no qualifying pair are returned as they are.
type SinglePass struct{}

func (SinglePass) Name() string { return "single" }

func (SinglePass) Merge(ctx context.Context, sets []*nodeset.ValuedNodeSet, fn similarity.Function, threshold float64) ([]*nodeset.ValuedNodeSet, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	if len(sets) < 2 {
		return sets, nil
	}

	pairs, err := qualifyingPairs(ctx, sets, fn, threshold)
	if err != nil {
		return nil, err
	}

	adjacency := make([][]int, len(sets))
	for _, p := range pairs {
		adjacency[p.i] = append(adjacency[p.i], p.j)
		adjacency[p.j] = append(adjacency[p.j], p.i)
	}

	components := overlapComponents(adjacency)
	out := make([]*nodeset.ValuedNodeSet, 0, len(components))
	for _, comp := range components {
		group := make([]*nodeset.ValuedNodeSet, len(comp))
		for k, idx := range comp {
			group[k] = sets[idx]
		}
		out = append(out, nodeset.MergeValued(sets[comp[0]].Graph(), group...))
	}
	return out, nil
}

// overlapComponents runs a BFS from every unvisited cluster in index order.
// Each component is returned sorted.
func overlapComponents(adjacency [][]int) [][]int {
	visited := make([]bool, len(adjacency))
	var components [][]int

	for start := range adjacency {
		if visited[start] {
			continue
		}

		component := []int{}
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			idx, ok := queue.Remove(queue.Front()).(int)
			if !ok {
				continue
			}
			component = append(component, idx)

			for _, next := range adjacency[idx] {
				if !visited[next] {
					visited[next] = true
					queue.PushBack(next)
				}
			}
		}

		slices.Sort(component)
		components = append(components, component)
	}
	return components
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
