package dag

import (
	"errors"
	"slices"

	"golang.org/x/exp/maps"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrRankConstraintViolated is returned by [Graph.Validate] when an edge
	// with a minimum length is not satisfied by the current rank assignment
	// (To.Rank < From.Rank + MinLen).
	ErrRankConstraintViolated = errors.New("edge violates minimum rank separation")
)

// Node is a vertex in the generation graph with an assigned rank (layer).
// Rank 0 is the topmost generation; ranks increase downward.
//
// The zero value is not usable on its own; set ID before adding to a Graph.
type Node struct {
	ID   string // Unique identifier
	Rank int    // Layer assignment (0 = top, increasing downward)
}

// Edge is a directed constraint between two nodes. MinLen is the minimum
// number of ranks the target must sit below the source: parent→child edges
// use MinLen 1, rank-equality constraints (partners, siblings) use MinLen 0.
type Edge struct {
	From   string
	To     string
	MinLen int
}

// Graph is a directed graph organized into horizontal ranks, built as the
// intermediate form between a family tree and its layered layout. Rank
// assignment, ordering sweeps, and crossing counts all operate on it.
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> child IDs
	incoming map[string][]string // nodeID -> parent IDs
	ranks    map[int][]*Node     // rank -> nodes at that rank
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		ranks:    make(map[int][]*Node),
	}
}

// AddNode adds a node and indexes it by its Rank.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID when the ID
// is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.ranks[node.Rank] = append(g.ranks[node.Rank], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is
// missing. Rank constraints are not checked here; use Validate after rank
// assignment.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// SetRanks updates rank assignments and rebuilds the rank index.
// Nodes absent from the map keep their current rank. O(N) because the rank
// index is rebuilt from scratch.
func (g *Graph) SetRanks(ranks map[string]int) {
	g.ranks = make(map[int][]*Node)
	for _, n := range g.nodes {
		if r, ok := ranks[n.ID]; ok {
			n.Rank = r
		}
		g.ranks[n.Rank] = append(g.ranks[n.Rank], n)
	}
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes. The order is not guaranteed; use [Graph.NodeIDs]
// when a stable order matters.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := maps.Keys(g.nodes)
	slices.Sort(ids)
	return ids
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs this node has edges to.
// The returned slice is a read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs that have edges to this node.
// The returned slice is a read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of incoming edges, 0 for unknown nodes.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges, 0 for unknown nodes.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// NodesAtRank returns all nodes assigned to the given rank, in the order
// AddNode or SetRanks placed them. Returns nil for an empty rank.
func (g *Graph) NodesAtRank(rank int) []*Node { return g.ranks[rank] }

// RankIDs returns all occupied rank indices in ascending order.
func (g *Graph) RankIDs() []int {
	ranks := maps.Keys(g.ranks)
	slices.Sort(ranks)
	return ranks
}

// MaxRank returns the highest occupied rank, or 0 for an empty graph.
func (g *Graph) MaxRank() int {
	max := 0
	for r := range g.ranks {
		if r > max {
			max = r
		}
	}
	return max
}

// Validate checks graph integrity: every edge must reference existing nodes
// and satisfy its minimum rank separation. Returns ErrInvalidEdgeEndpoint or
// ErrRankConstraintViolated, or nil when valid.
//
// Cycles are deliberately not an error here. Family data can contain
// contradictory parent links; rank assignment leaves cycle members at rank 0
// and the layout degrades instead of failing.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		src, okS := g.nodes[e.From]
		dst, okD := g.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if dst.Rank < src.Rank+e.MinLen {
			return ErrRankConstraintViolated
		}
	}
	return nil
}

// HasCycle reports whether the graph contains a directed cycle, using
// depth-first search with white/gray/black coloring in O(N+E).
func (g *Graph) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var found bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				found = true
				return
			}
			if found {
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
			if found {
				return true
			}
		}
	}
	return false
}

// PosMap creates a position lookup map from a slice of node IDs.
// Each ID maps to its index in the slice. Used to turn orderings into fast
// position lookups for crossing calculations.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDsOf extracts the ID from each node, preserving order.
func NodeIDsOf(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
