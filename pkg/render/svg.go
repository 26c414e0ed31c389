package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/kintree/kintree/pkg/layout"
	"github.com/kintree/kintree/pkg/tree"
)

const (
	svgPadding    = 40.0
	defaultStroke = "#6b7280"
	friendStroke  = "#9ca3af"
	nodeFill      = "#ffffff"
	nodeStroke    = "#374151"
	selectedFill  = "#eff6ff"
	markerSize    = 6.0
)

// SVG renders a layout result directly, honoring every engine decision:
// node positions and dimensions, handle sides, attachment offsets, couple
// colors, fork merging, hidden edges, edge styles, and marker shapes.
func SVG(res *layout.Result, geo layout.Geometry) []byte {
	minX, minY, maxX, maxY := bounds(res, geo)
	width := maxX - minX + 2*svgPadding
	height := maxY - minY + 2*svgPadding
	dx, dy := svgPadding-minX, svgPadding-minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString("  <g font-family=\"sans-serif\" font-size=\"13\">\n")

	for i := range res.Edges {
		writeEdge(&buf, &res.Edges[i], res, geo, dx, dy)
	}
	for i := range res.Nodes {
		writeNode(&buf, &res.Nodes[i], dx, dy)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func bounds(res *layout.Result, geo layout.Geometry) (minX, minY, maxX, maxY float64) {
	if len(res.Nodes) == 0 {
		return 0, 0, geo.NodeWidth, geo.NodeHeight
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range res.Nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+n.Width)
		maxY = math.Max(maxY, n.Position.Y+n.Height)
	}
	return minX, minY, maxX, maxY
}

func writeNode(buf *bytes.Buffer, n *layout.Node, dx, dy float64) {
	x, y := n.Position.X+dx, n.Position.Y+dy
	fill := nodeFill
	if n.Selected {
		fill = selectedFill
	}
	dash := ""
	if n.Data.FriendOnly {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf,
		`    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="%s" stroke="%s"%s/>`+"\n",
		x, y, n.Width, n.Height, fill, nodeStroke, dash)

	label := n.Data.Person.DisplayName()
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle">%s</text>`+"\n",
		x+n.Width/2, y+n.Height/2+4, escape(label))
}

// handlePoint returns the attachment point for one edge end: the side
// midpoint of the node box shifted by the overlap offset along the spread
// axis. Unplaced nodes attach at the origin.
func handlePoint(res *layout.Result, geo layout.Geometry, nodeID, handle string, offset, dx, dy float64) (float64, float64) {
	c, ok := res.NodeCenters[nodeID]
	if !ok {
		return dx, dy
	}
	x, y := c.X+dx, c.Y+dy
	switch side(handle) {
	case "top":
		return x + offset, y - geo.NodeHeight/2
	case "bottom":
		return x + offset, y + geo.NodeHeight/2
	case "left":
		return x - geo.NodeWidth/2, y + offset
	case "right":
		return x + geo.NodeWidth/2, y + offset
	}
	return x, y
}

func side(handle string) string {
	for i := 0; i < len(handle); i++ {
		if handle[i] == '-' {
			return handle[:i]
		}
	}
	return handle
}

func writeEdge(buf *bytes.Buffer, e *layout.Edge, res *layout.Result, geo layout.Geometry, dx, dy float64) {
	if e.Data.JunctionHidden {
		return
	}
	if e.Data.JunctionFork != nil {
		writeFork(buf, e.Data.JunctionFork, e.Data.CoupleColor, res, geo, dx, dy)
		return
	}

	x1, y1 := handlePoint(res, geo, e.Source, e.SourceHandle, e.Data.SourceOffset, dx, dy)
	x2, y2 := handlePoint(res, geo, e.Target, e.TargetHandle, e.Data.TargetOffset, dx, dy)

	stroke := defaultStroke
	if e.Data.CoupleColor != "" {
		stroke = e.Data.CoupleColor
	}
	dash := ""
	if e.Data.Category == tree.CategoryFriend {
		stroke = friendStroke
		dash = ` stroke-dasharray="5 4"`
	}

	fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="%s" stroke-width="1.5"%s/>`+"\n",
		edgePath(e.Data.EdgeStyle, x1, y1, x2, y2), stroke, dash)

	if e.Data.MarkerShape != layout.MarkerNone {
		writeMarker(buf, e.Data.MarkerShape, (x1+x2)/2, (y1+y2)/2, stroke)
	}
}

// edgePath builds the SVG path for the configured edge style.
// Curved uses a cubic bezier, elbows a three-segment orthogonal route, and
// straight a single line. Unknown styles fall back to straight.
func edgePath(style layout.EdgeStyle, x1, y1, x2, y2 float64) string {
	switch style {
	case layout.EdgeStyleCurved:
		midY := (y1 + y2) / 2
		return fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
			x1, y1, x1, midY, x2, midY, x2, y2)
	case layout.EdgeStyleElbows:
		midY := (y1 + y2) / 2
		return fmt.Sprintf("M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f",
			x1, y1, x1, midY, x2, midY, x2, y2)
	default:
		return fmt.Sprintf("M %.2f %.2f L %.2f %.2f", x1, y1, x2, y2)
	}
}

// writeFork draws the merged couple junction: a bar between the two parents,
// a stem from its midpoint, and one branch per placed child.
func writeFork(buf *bytes.Buffer, fork *layout.ForkInfo, color string, res *layout.Result, geo layout.Geometry, dx, dy float64) {
	if len(fork.ParentIDs) != 2 {
		return
	}
	pa, okA := res.NodeCenters[fork.ParentIDs[0]]
	pb, okB := res.NodeCenters[fork.ParentIDs[1]]
	if !okA || !okB {
		return
	}

	stroke := defaultStroke
	if color != "" {
		stroke = color
	}

	barY := (pa.Y+pb.Y)/2 + dy
	ax, bx := pa.X+dx, pb.X+dx
	midX := (ax + bx) / 2
	stemY := barY + geo.NodeHeight/2 + geo.RankSep/2

	fmt.Fprintf(buf, `    <path d="M %.2f %.2f L %.2f %.2f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
		ax, barY, bx, barY, stroke)
	fmt.Fprintf(buf, `    <path d="M %.2f %.2f L %.2f %.2f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
		midX, barY, midX, stemY, stroke)

	for _, childID := range fork.ChildIDs {
		c, ok := res.NodeCenters[childID]
		if !ok {
			continue
		}
		cx, cy := c.X+dx, c.Y+dy-geo.NodeHeight/2
		fmt.Fprintf(buf, `    <path d="M %.2f %.2f L %.2f %.2f L %.2f %.2f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			midX, stemY, cx, stemY, cx, cy, stroke)
	}
}

func writeMarker(buf *bytes.Buffer, shape int, x, y float64, stroke string) {
	s := markerSize
	switch shape {
	case layout.MarkerCircle:
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n", x, y, s/2, stroke)
	case layout.MarkerSquare:
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			x-s/2, y-s/2, s, s, stroke)
	case layout.MarkerDiamond:
		fmt.Fprintf(buf, `    <path d="M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z" fill="%s"/>`+"\n",
			x, y-s/2, x+s/2, y, x, y+s/2, x-s/2, y, stroke)
	case layout.MarkerTriangle:
		fmt.Fprintf(buf, `    <path d="M %.2f %.2f L %.2f %.2f L %.2f %.2f Z" fill="%s"/>`+"\n",
			x, y-s/2, x+s/2, y+s/2, x-s/2, y+s/2, stroke)
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
