package dag

import "slices"

// AssignRanks computes a rank for every node using a longest-path topological
// traversal (Kahn's algorithm) and applies it via [Graph.SetRanks].
//
// Each node is placed at the maximum of rank(parent)+MinLen over all incoming
// edges, so:
//   - Source nodes (no incoming edges) sit at rank 0
//   - Parent→child edges (MinLen 1) keep parents strictly above children
//   - MinLen-0 edges pull nodes down to at least their partner's rank
//
// Nodes on a directed cycle never reach zero in-degree and stay at their
// default rank 0. That is intentional: contradictory parent data degrades to
// a flat placement instead of aborting the layout.
//
// The traversal dequeues in sorted-ID order so the assignment is
// deterministic even when multiple valid topological orders exist.
// Runs in O(V log V + E). The computed assignment is also returned.
func AssignRanks(g *Graph) map[string]int {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	ranks := make(map[string]int, len(ids))
	var queue []string

	for _, id := range ids {
		degree := g.InDegree(id)
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	minLen := make(map[[2]string]int, g.EdgeCount())
	for _, e := range g.Edges() {
		key := [2]string{e.From, e.To}
		if ml, ok := minLen[key]; !ok || e.MinLen > ml {
			minLen[key] = e.MinLen
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		var ready []string
		for _, child := range g.Children(curr) {
			if r := ranks[curr] + minLen[[2]string{curr, child}]; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
		slices.Sort(ready)
		queue = append(queue, ready...)
	}

	g.SetRanks(ranks)
	return ranks
}

// CompactRanks renumbers occupied ranks to consecutive integers starting at
// zero, preserving order, and applies the result via [Graph.SetRanks]. Gaps
// appear when rank-equality constraints pull whole generations together.
func CompactRanks(g *Graph) {
	occupied := g.RankIDs()
	if len(occupied) == 0 {
		return
	}
	remap := make(map[int]int, len(occupied))
	for i, r := range occupied {
		remap[r] = i
	}
	ranks := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		ranks[n.ID] = remap[n.Rank]
	}
	g.SetRanks(ranks)
}
