package layout

import (
	"math"

	"github.com/kintree/kintree/pkg/tree"
)

// Handle names. The side is the prefix before the dash; the suffix tells
// which end of the edge attaches there.
const (
	HandleTopSource    = "top-source"
	HandleBottomSource = "bottom-source"
	HandleLeftSource   = "left-source"
	HandleRightSource  = "right-source"
	HandleTopTarget    = "top-target"
	HandleBottomTarget = "bottom-target"
	HandleLeftTarget   = "left-target"
	HandleRightTarget  = "right-target"
)

// pickHandles chooses source and target attachment points from the center
// displacement between the two nodes.
//
// Parent-type edges prefer the vertical axis (top/bottom handles), all
// others the horizontal one. The preference is biased, not absolute: the
// displacement along the preferred axis is weighted by the bias ratio, so a
// parent-child pair offset slightly more horizontally than vertically still
// attaches top/bottom. When either center is unknown the fixed default pair
// for the preferred axis is returned.
func pickHandles(src, dst tree.Position, srcOK, dstOK, preferVertical bool, bias float64) (string, string) {
	if !srcOK || !dstOK {
		if preferVertical {
			return HandleBottomSource, HandleTopTarget
		}
		return HandleRightSource, HandleLeftTarget
	}

	dx, dy := dst.X-src.X, dst.Y-src.Y
	var vertical bool
	if preferVertical {
		vertical = math.Abs(dy)*bias >= math.Abs(dx)*(1-bias)
	} else {
		vertical = math.Abs(dy)*(1-bias) > math.Abs(dx)*bias
	}

	if vertical {
		if dy >= 0 {
			return HandleBottomSource, HandleTopTarget
		}
		return HandleTopSource, HandleBottomTarget
	}
	if dx >= 0 {
		return HandleRightSource, HandleLeftTarget
	}
	return HandleLeftSource, HandleRightTarget
}

type assembleEdgeOptions struct {
	settings     Settings
	geo          Geometry
	coupleColors map[string]string
	useColors    bool
	forkPrimary  map[string]*ForkInfo
	forkHidden   map[string]bool
}

// assembleEdges builds one edge per stored relationship plus one synthetic
// edge per inferred sibling pair, in sorted-id order.
//
// Missing persons degrade instead of failing: names fall back to "?" and
// handle selection falls back to the axis defaults.
func assembleEdges(t *tree.Tree, inferred []tree.InferredSibling, centers map[string]tree.Position, opts assembleEdgeOptions) []Edge {
	coupleOf := coupleKeyByChild(t)

	edges := make([]Edge, 0, len(t.Relationships)+len(inferred))
	for _, id := range t.RelationshipIDs() {
		r := t.Relationships[id]
		if r == nil {
			continue
		}

		src, srcOK := centers[r.SourcePersonID]
		dst, dstOK := centers[r.TargetPersonID]
		sh, th := pickHandles(src, dst, srcOK, dstOK, r.Type.IsParent(), opts.geo.AxisBiasRatio)

		data := EdgeData{
			Relationship: r,
			Category:     r.Type.Category(),
			EdgeStyle:    opts.settings.EdgeStyle,
			SourceName:   t.Person(r.SourcePersonID).DisplayName(),
			TargetName:   t.Person(r.TargetPersonID).DisplayName(),
			MarkerShape:  MarkerNone,
		}
		if opts.useColors && r.Type == tree.TypeBiologicalParent {
			if key, ok := coupleOf[r.TargetPersonID]; ok {
				data.CoupleColor = opts.coupleColors[key]
			}
		}
		data.JunctionFork = opts.forkPrimary[id]
		data.JunctionHidden = opts.forkHidden[id]

		edges = append(edges, Edge{
			ID:           id,
			Source:       r.SourcePersonID,
			Target:       r.TargetPersonID,
			SourceHandle: sh,
			TargetHandle: th,
			Data:         data,
		})
	}

	for _, s := range inferred {
		src, srcOK := centers[s.PersonAID]
		dst, dstOK := centers[s.PersonBID]
		sh, th := pickHandles(src, dst, srcOK, dstOK, false, opts.geo.AxisBiasRatio)

		edges = append(edges, Edge{
			ID:           s.EdgeID(),
			Source:       s.PersonAID,
			Target:       s.PersonBID,
			SourceHandle: sh,
			TargetHandle: th,
			Data: EdgeData{
				InferredType: s.Type,
				Category:     tree.CategorySibling,
				EdgeStyle:    opts.settings.EdgeStyle,
				SourceName:   t.Person(s.PersonAID).DisplayName(),
				TargetName:   t.Person(s.PersonBID).DisplayName(),
				MarkerShape:  MarkerNone,
			},
		})
	}
	return edges
}

// coupleKeyByChild maps each child with exactly two biological parents to
// its couple key, for color attachment on parent edges.
func coupleKeyByChild(t *tree.Tree) map[string]string {
	parents := tree.BiologicalParentsOf(t)
	out := make(map[string]string)
	for child, ps := range parents {
		if len(ps) == 2 {
			out[child] = tree.PairKey(ps[0], ps[1])
		}
	}
	return out
}
