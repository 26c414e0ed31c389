package dag

import (
	"slices"

	"golang.org/x/exp/maps"
)

// CountCrossings returns the total number of edge crossings for the given
// rank orderings. It sums the crossings between each pair of consecutive
// occupied ranks. The orders map holds node IDs in left-to-right order per
// rank; ranks without entries are treated as empty.
//
// Ordering sweeps call this to decide whether a candidate ordering is an
// improvement. Runs in O(R × E log V) over R ranks.
func CountCrossings(g *Graph, orders map[int][]string) int {
	ranks := maps.Keys(orders)
	slices.Sort(ranks)
	crossings := 0
	for i := 0; i < len(ranks)-1; i++ {
		crossings += CountLayerCrossings(g, orders[ranks[i]], orders[ranks[i+1]])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent ranks using
// a Fenwick tree for O(E log V) performance, where E is the number of edges
// between the ranks and V the size of the lower rank.
//
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2), so crossings are inversions in the sequence of target
// positions when edges are sorted by source position.
//
// Returns 0 when either rank is empty.
func CountLayerCrossings(g *Graph, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, nodeID := range upper {
		for _, child := range g.Children(nodeID) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Count inversions with a Fenwick tree.
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
