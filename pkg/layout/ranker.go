package layout

import (
	"cmp"
	"slices"

	"github.com/kintree/kintree/pkg/dag"
	"github.com/kintree/kintree/pkg/tree"
)

// RankNode is one participant in the layered layout.
type RankNode struct {
	ID     string
	Width  float64
	Height float64
}

// RankEdge is a directed layering constraint between two nodes.
// MinLen 1 keeps the target a full rank below the source (parent→child);
// MinLen 0 requests rank equality (siblings).
type RankEdge struct {
	From   string
	To     string
	MinLen int
}

// Ranker computes provisional node centers for a layered directed graph.
// It is the pluggable hierarchical-layout primitive: everything downstream
// (partner alignment, forks, overlap handling) only consumes its positions,
// so an alternative layered-layout implementation can be swapped in without
// touching the rest of the engine.
//
// Implementations must be total: any input, including cyclic constraint
// sets, yields a position for every node.
type Ranker interface {
	Layout(nodes []RankNode, edges []RankEdge, geo Geometry) map[string]tree.Position
}

// LayeredRanker is the built-in Sugiyama-style ranker.
//
// Ranks come from a longest-path topological assignment; members of
// contradictory (cyclic) constraints stay at rank 0. MinLen-0 edges are
// treated as rank-equality constraints, folded into the assignment by
// alternating equality raises with minimum-separation re-propagation until
// a joint fixpoint. Per-rank ordering starts from sorted IDs and
// applies median-of-neighbors sweeps, keeping a candidate ordering only when
// it strictly reduces edge crossings. Horizontal coordinates then follow the
// ordering with parent-median alignment.
type LayeredRanker struct {
	// Sweeps is the number of down/up median ordering passes. Zero means
	// the default of 4.
	Sweeps int
}

// Layout implements [Ranker].
func (r *LayeredRanker) Layout(nodes []RankNode, edges []RankEdge, geo Geometry) map[string]tree.Position {
	positions := make(map[string]tree.Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	g := dag.New()
	sorted := slices.Clone(nodes)
	slices.SortFunc(sorted, func(a, b RankNode) int {
		return cmp.Compare(a.ID, b.ID)
	})
	for _, n := range sorted {
		_ = g.AddNode(dag.Node{ID: n.ID})
	}
	var equal [][2]string
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To, MinLen: e.MinLen}); err != nil {
			continue // dangling constraint, tolerated
		}
		if e.MinLen == 0 {
			equal = append(equal, [2]string{e.From, e.To})
		}
	}

	ranks := dag.AssignRanks(g)
	resolveRanks(ranks, g.Edges(), equal)
	g.SetRanks(ranks)
	dag.CompactRanks(g)

	orders := r.orderRanks(g)
	assignCoordinates(g, orders, geo, positions)
	return positions
}

// resolveRanks folds equality pairs into the longest-path assignment.
// Raising the shallower endpoint of a pair can leave a minimum-separation
// edge out of the raised node violated, so equality raises alternate with a
// relaxation pass over all edges until neither changes anything. A
// contradictory input (a separation cycle reachable through an equality
// pair) would never converge, so iteration is capped at the node count and
// the last assignment stands.
func resolveRanks(ranks map[string]int, edges []dag.Edge, pairs [][2]string) {
	for i := 0; i < len(ranks)+1; i++ {
		changed := false
		for _, p := range pairs {
			a, b := ranks[p[0]], ranks[p[1]]
			switch {
			case a < b:
				ranks[p[0]] = b
				changed = true
			case b < a:
				ranks[p[1]] = a
				changed = true
			}
		}
		for _, e := range edges {
			if floor := ranks[e.From] + e.MinLen; ranks[e.To] < floor {
				ranks[e.To] = floor
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// orderRanks computes a left-to-right ordering per rank. The initial order
// is sorted IDs; median sweeps run alternately downward and upward and a
// candidate is kept only when it strictly improves the crossing count.
func (r *LayeredRanker) orderRanks(g *dag.Graph) map[int][]string {
	orders := make(map[int][]string)
	for _, rank := range g.RankIDs() {
		ids := dag.NodeIDsOf(g.NodesAtRank(rank))
		slices.Sort(ids)
		orders[rank] = ids
	}

	sweeps := r.Sweeps
	if sweeps == 0 {
		sweeps = 4
	}
	best := dag.CountCrossings(g, orders)
	ranks := g.RankIDs()
	for s := 0; s < sweeps; s++ {
		candidate := medianSweep(g, orders, ranks, s%2 == 0)
		if c := dag.CountCrossings(g, candidate); c < best {
			orders, best = candidate, c
		}
	}
	return orders
}

// medianSweep reorders each rank by the median position of its neighbors in
// the previously fixed rank (parents when sweeping down, children when
// sweeping up). Nodes without neighbors keep their current slot.
func medianSweep(g *dag.Graph, orders map[int][]string, ranks []int, down bool) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}

	idx := make([]int, len(ranks))
	for i := range ranks {
		idx[i] = i
	}
	if !down {
		slices.Reverse(idx)
	}

	for step := 1; step < len(idx); step++ {
		fixed := out[ranks[idx[step-1]]]
		current := ranks[idx[step]]
		fixedPos := dag.PosMap(fixed)

		type keyed struct {
			id  string
			key float64
		}
		row := make([]keyed, len(out[current]))
		for i, id := range out[current] {
			var neighbors []string
			if down {
				neighbors = g.Parents(id)
			} else {
				neighbors = g.Children(id)
			}
			var ps []int
			for _, n := range neighbors {
				if p, ok := fixedPos[n]; ok {
					ps = append(ps, p)
				}
			}
			key := float64(i)
			if len(ps) > 0 {
				slices.Sort(ps)
				key = float64(ps[len(ps)/2])
				if len(ps)%2 == 0 {
					key = (float64(ps[len(ps)/2-1]) + float64(ps[len(ps)/2])) / 2
				}
			}
			row[i] = keyed{id, key}
		}
		slices.SortStableFunc(row, func(a, b keyed) int {
			return cmp.Compare(a.key, b.key)
		})
		ids := make([]string, len(row))
		for i, k := range row {
			ids[i] = k.id
		}
		out[current] = ids
	}
	return out
}

// assignCoordinates turns orderings into node centers. y is rank-derived;
// x starts from evenly spaced slots and is pulled toward the median parent
// x per rank, with a left-to-right pass enforcing the minimum gap.
func assignCoordinates(g *dag.Graph, orders map[int][]string, geo Geometry, positions map[string]tree.Position) {
	gap := geo.NodeWidth + geo.NodeMargin
	for _, rank := range g.RankIDs() {
		y := float64(rank)*(geo.NodeHeight+geo.RankSep) + geo.NodeHeight/2

		type slot struct {
			id string
			x  float64
		}
		row := make([]slot, len(orders[rank]))
		for i, id := range orders[rank] {
			x := float64(i)*gap + geo.NodeWidth/2
			var sum float64
			var count int
			for _, p := range g.Parents(id) {
				if pp, ok := positions[p]; ok {
					sum += pp.X
					count++
				}
			}
			if count > 0 {
				x = sum / float64(count)
			}
			row[i] = slot{id, x}
		}
		slices.SortStableFunc(row, func(a, b slot) int {
			return cmp.Compare(a.x, b.x)
		})
		for i := range row {
			if i > 0 && row[i].x < row[i-1].x+gap {
				row[i].x = row[i-1].x + gap
			}
			positions[row[i].id] = tree.Position{X: row[i].x, Y: y}
		}
	}
}
