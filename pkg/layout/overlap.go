package layout

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kintree/kintree/pkg/tree"
)

// sideOf extracts the node side from a handle name ("bottom-source" →
// "bottom"). Unknown handle shapes map to the whole string, which still
// groups consistently.
func sideOf(handle string) string {
	side, _, _ := strings.Cut(handle, "-")
	return side
}

// sideGroupMember is one edge end inside a (node, side) group.
type sideGroupMember struct {
	edge     *Edge
	isSource bool    // which end of the edge sits in this group
	other    float64 // other endpoint's coordinate along the spread axis
}

// spreadOverlaps separates edges that share a node side. Both ends of every
// visible edge are grouped by (node, side); any group with more than one
// member gets symmetric attachment offsets around zero, sorted by the other
// endpoint's position along the spread axis (x for top/bottom sides, y for
// left/right) with edge id as the tie-break.
//
// Fork primaries and hidden edges are excluded; the fork renderer controls
// their geometry. With markers enabled, each overlapping edge also gets the
// lowest unused marker shape in its group, keeping a shape already assigned
// through an earlier group.
func spreadOverlaps(edges []Edge, centers map[string]tree.Position, geo Geometry, markers bool) {
	groups := make(map[string][]sideGroupMember)
	var order []string

	addEnd := func(e *Edge, isSource bool) {
		node, handle, otherNode := e.Target, e.TargetHandle, e.Source
		if isSource {
			node, handle, otherNode = e.Source, e.SourceHandle, e.Target
		}
		side := sideOf(handle)

		var other float64
		if c, ok := centers[otherNode]; ok {
			if side == "top" || side == "bottom" {
				other = c.X
			} else {
				other = c.Y
			}
		}

		key := node + "/" + side
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], sideGroupMember{edge: e, isSource: isSource, other: other})
	}

	for i := range edges {
		e := &edges[i]
		if e.Data.JunctionFork != nil || e.Data.JunctionHidden {
			continue
		}
		addEnd(e, true)
		addEnd(e, false)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		slices.SortStableFunc(group, func(a, b sideGroupMember) int {
			if c := cmp.Compare(a.other, b.other); c != 0 {
				return c
			}
			return cmp.Compare(a.edge.ID, b.edge.ID)
		})

		n := len(group)
		for i, m := range group {
			offset := (float64(i) - float64(n-1)/2) * geo.SpreadSpacing
			if m.isSource {
				m.edge.Data.SourceOffset = offset
			} else {
				m.edge.Data.TargetOffset = offset
			}
		}

		if markers {
			assignMarkers(group)
		}
	}
}

// assignMarkers gives every edge in an overlapping group a marker shape.
// Edges that already carry a shape from an earlier group keep it, and that
// shape counts as used here so the group stays visually distinct. Once all
// shapes are taken the palette cycles.
func assignMarkers(group []sideGroupMember) {
	used := make(map[int]bool)
	for _, m := range group {
		if m.edge.Data.MarkerShape != MarkerNone {
			used[m.edge.Data.MarkerShape] = true
		}
	}

	assigned := len(used)
	for _, m := range group {
		if m.edge.Data.MarkerShape != MarkerNone {
			continue
		}
		shape := assigned % MarkerShapeCount
		for s := 0; s < MarkerShapeCount; s++ {
			if !used[s] {
				shape = s
				break
			}
		}
		m.edge.Data.MarkerShape = shape
		used[shape] = true
		assigned++
	}
}
