package layout

import (
	"github.com/kintree/kintree/pkg/tree"
)

// =============================================================================
// Settings and Output Types
// =============================================================================

// EdgeStyle selects the visual edge routing used by renderers.
// The engine carries the style through unchanged.
type EdgeStyle string

// Edge styles.
const (
	EdgeStyleCurved   EdgeStyle = "curved"
	EdgeStyleElbows   EdgeStyle = "elbows"
	EdgeStyleStraight EdgeStyle = "straight"
)

// Settings are the per-run engine options.
type Settings struct {
	// EdgeStyle is passed through to every edge for the renderer.
	EdgeStyle EdgeStyle `json:"edge_style,omitempty"`
	// ShowMarkers enables marker-shape disambiguation for overlapping edges.
	ShowMarkers bool `json:"show_markers,omitempty"`
	// SelectedPersonID marks the matching node as selected.
	SelectedPersonID string `json:"selected_person_id,omitempty"`
}

// Node is one laid-out person. Position is the top-left corner of the node
// box; centers are available through [Result.NodeCenters].
type Node struct {
	ID       string        `json:"id"`
	Position tree.Position `json:"position"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Data     NodeData      `json:"data"`
	Selected bool          `json:"selected,omitempty"`
}

// NodeData is the per-node payload handed to renderers.
type NodeData struct {
	Person          *tree.Person           `json:"person"`
	Events          []*tree.TraumaEvent    `json:"events,omitempty"`
	LifeEvents      []*tree.LifeEvent      `json:"lifeEvents,omitempty"`
	Classifications []*tree.Classification `json:"classifications,omitempty"`
	FriendOnly      bool                   `json:"isFriendOnly,omitempty"`
}

// Edge is one routed connection, per stored relationship or inferred sibling
// pair. Handles name the attachment point on each node ("bottom-source",
// "top-target", ...); the side is the prefix before the dash.
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	SourceHandle string   `json:"sourceHandle"`
	TargetHandle string   `json:"targetHandle"`
	Data         EdgeData `json:"data"`
}

// EdgeData carries the edge's payload and all disambiguation metadata.
type EdgeData struct {
	Relationship *tree.Relationship `json:"relationship,omitempty"`
	InferredType tree.SiblingType   `json:"inferredType,omitempty"`
	Category     tree.Category      `json:"category"`
	EdgeStyle    EdgeStyle          `json:"edgeStyle,omitempty"`

	SourceName string `json:"sourceName"`
	TargetName string `json:"targetName"`

	CoupleColor  string  `json:"coupleColor,omitempty"`
	SourceOffset float64 `json:"sourceOffset,omitempty"`
	TargetOffset float64 `json:"targetOffset,omitempty"`
	// MarkerShape is an index into the marker palette, or MarkerNone.
	MarkerShape int `json:"markerShape"`

	JunctionFork   *ForkInfo `json:"junctionFork,omitempty"`
	JunctionHidden bool      `json:"junctionHidden,omitempty"`
}

// ForkInfo describes a merged parent-couple fork carried by the primary edge.
type ForkInfo struct {
	ParentIDs   []string `json:"parentIds"`
	ParentNames []string `json:"parentNames"`
	ChildIDs    []string `json:"childIds"`
	ChildNames  []string `json:"childNames"`
}

// Result is one complete layout pass.
type Result struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	// NodeCenters maps every person id to its node center, for consumers
	// needing geometric context (detail panels, renderers).
	NodeCenters map[string]tree.Position `json:"nodeCenters"`
	// CoupleColors maps couple keys to palette colors. Only consulted by
	// renderers when UseCoupleColors is set.
	CoupleColors    map[string]string `json:"coupleColors,omitempty"`
	UseCoupleColors bool              `json:"useCoupleColors,omitempty"`
}

// =============================================================================
// Engine
// =============================================================================

// Engine runs the layout pipeline. The zero value is not usable; use [New].
// An Engine is stateless between runs and safe for concurrent use as long as
// Geo and Ranker are not mutated.
type Engine struct {
	Geo    Geometry
	Ranker Ranker
}

// New creates an engine with default geometry and the built-in ranker.
func New() *Engine {
	return &Engine{
		Geo:    DefaultGeometry(),
		Ranker: &LayeredRanker{},
	}
}

// Layout computes the full layout for one tree snapshot.
//
// The stages run strictly in order; each consumes only earlier outputs.
// Layout never fails: degenerate input (empty tree, dangling relationship
// endpoints, cyclic parent data) produces a valid, possibly trivial result.
func (e *Engine) Layout(t *tree.Tree, s Settings) *Result {
	if t == nil {
		t = tree.New()
	}
	t.Init()

	inferred := tree.InferSiblings(t)
	friends := friendOnlySet(t)

	centers := e.rankCenters(t, inferred, friends)
	alignPartners(t, centers, e.Geo)
	resolveRankOverlaps(centers, e.Geo)

	friendCenters := placeFriends(t, centers, friends, e.Geo)

	index := buildEntityIndex(t)
	nodes, nodeCenters := assembleNodes(t, centers, friendCenters, friends, index, s, e.Geo)

	coupleKeys, coupleChildren := buildCouples(t)
	coupleColors := assignCoupleColors(coupleKeys)
	useColors := len(coupleKeys) >= 2
	primary, hidden := detectForks(t, coupleKeys, coupleChildren, nodeCenters)

	edges := assembleEdges(t, inferred, nodeCenters, assembleEdgeOptions{
		settings:     s,
		geo:          e.Geo,
		coupleColors: coupleColors,
		useColors:    useColors,
		forkPrimary:  primary,
		forkHidden:   hidden,
	})
	spreadOverlaps(edges, nodeCenters, e.Geo, s.ShowMarkers)

	return &Result{
		Nodes:           nodes,
		Edges:           edges,
		NodeCenters:     nodeCenters,
		CoupleColors:    coupleColors,
		UseCoupleColors: useColors,
	}
}

// rankCenters builds the layered graph and runs the ranker.
//
// Parent-type relationships become MinLen-1 edges; explicit and inferred
// sibling pairs become MinLen-0 equality constraints so siblings share a
// rank without implying ancestry. Partner relationships are deliberately
// absent here; alignPartners corrects them afterwards. Friend-only persons
// are excluded entirely.
func (e *Engine) rankCenters(t *tree.Tree, inferred []tree.InferredSibling, friends map[string]bool) map[string]tree.Position {
	var nodes []RankNode
	for _, id := range t.PersonIDs() {
		if friends[id] {
			continue
		}
		nodes = append(nodes, RankNode{ID: id, Width: e.Geo.NodeWidth, Height: e.Geo.NodeHeight})
	}

	var edges []RankEdge
	for _, id := range t.RelationshipIDs() {
		r := t.Relationships[id]
		if r == nil {
			continue
		}
		switch {
		case r.Type.IsParent():
			edges = append(edges, RankEdge{From: r.SourcePersonID, To: r.TargetPersonID, MinLen: 1})
		case r.Type.IsSibling():
			edges = append(edges, RankEdge{From: r.SourcePersonID, To: r.TargetPersonID, MinLen: 0})
		}
	}
	for _, s := range inferred {
		edges = append(edges, RankEdge{From: s.PersonAID, To: s.PersonBID, MinLen: 0})
	}

	return e.Ranker.Layout(nodes, edges, e.Geo)
}
