package layout

import (
	"testing"

	"github.com/kintree/kintree/pkg/tree"
)

func position(x, y float64) tree.Position { return tree.Position{X: x, Y: y} }

func TestLayeredRankerEmpty(t *testing.T) {
	r := &LayeredRanker{}
	got := r.Layout(nil, nil, DefaultGeometry())
	if len(got) != 0 {
		t.Errorf("empty input produced %d positions", len(got))
	}
}

func TestLayeredRankerChain(t *testing.T) {
	geo := DefaultGeometry()
	r := &LayeredRanker{}
	pos := r.Layout(
		[]RankNode{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]RankEdge{
			{From: "a", To: "b", MinLen: 1},
			{From: "b", To: "c", MinLen: 1},
		},
		geo,
	)

	if pos["a"].Y >= pos["b"].Y || pos["b"].Y >= pos["c"].Y {
		t.Errorf("chain ys not increasing: a=%.1f b=%.1f c=%.1f", pos["a"].Y, pos["b"].Y, pos["c"].Y)
	}
	step := geo.NodeHeight + geo.RankSep
	if pos["b"].Y-pos["a"].Y != step {
		t.Errorf("rank step = %.1f, want %.1f", pos["b"].Y-pos["a"].Y, step)
	}
}

func TestLayeredRankerEqualityConstraint(t *testing.T) {
	r := &LayeredRanker{}
	pos := r.Layout(
		[]RankNode{{ID: "p"}, {ID: "deep"}, {ID: "sib1"}, {ID: "sib2"}},
		[]RankEdge{
			{From: "p", To: "deep", MinLen: 1},
			{From: "deep", To: "sib1", MinLen: 1},
			{From: "p", To: "sib2", MinLen: 1},
			{From: "sib1", To: "sib2", MinLen: 0},
		},
		DefaultGeometry(),
	)

	// sib2 would naturally sit at rank 1; the equality constraint pulls it
	// down to sib1's rank 2.
	if pos["sib1"].Y != pos["sib2"].Y {
		t.Errorf("equality constraint ignored: sib1 y %.1f, sib2 y %.1f", pos["sib1"].Y, pos["sib2"].Y)
	}
	if pos["sib2"].Y <= pos["deep"].Y {
		t.Errorf("sib2 y %.1f not below deep y %.1f", pos["sib2"].Y, pos["deep"].Y)
	}
}

func TestLayeredRankerEqualityRaisePushesChildrenDown(t *testing.T) {
	r := &LayeredRanker{}
	// b starts at rank 0 and gets raised to a's rank 1 by the equality
	// constraint; its child c must then move below rank 1 too.
	pos := r.Layout(
		[]RankNode{{ID: "p"}, {ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]RankEdge{
			{From: "p", To: "a", MinLen: 1},
			{From: "b", To: "a", MinLen: 0},
			{From: "b", To: "c", MinLen: 1},
		},
		DefaultGeometry(),
	)

	if pos["a"].Y != pos["b"].Y {
		t.Errorf("equality constraint ignored: a y %.1f, b y %.1f", pos["a"].Y, pos["b"].Y)
	}
	if pos["p"].Y >= pos["a"].Y {
		t.Errorf("p y %.1f not above a y %.1f", pos["p"].Y, pos["a"].Y)
	}
	if pos["b"].Y >= pos["c"].Y {
		t.Errorf("b y %.1f not above its child c y %.1f", pos["b"].Y, pos["c"].Y)
	}
}

func TestLayeredRankerContradictoryConstraintsTerminate(t *testing.T) {
	r := &LayeredRanker{}
	// a and b can never satisfy both the separation and the equality; the
	// ranker must still place every node.
	pos := r.Layout(
		[]RankNode{{ID: "a"}, {ID: "b"}},
		[]RankEdge{
			{From: "a", To: "b", MinLen: 1},
			{From: "a", To: "b", MinLen: 0},
		},
		DefaultGeometry(),
	)
	if len(pos) != 2 {
		t.Errorf("%d positions, want 2", len(pos))
	}
}

func TestLayeredRankerMinimumGap(t *testing.T) {
	geo := DefaultGeometry()
	r := &LayeredRanker{}
	// Three children of one parent all pull toward the parent's x; the
	// coordinate pass must keep them a full gap apart.
	pos := r.Layout(
		[]RankNode{{ID: "p"}, {ID: "c1"}, {ID: "c2"}, {ID: "c3"}},
		[]RankEdge{
			{From: "p", To: "c1", MinLen: 1},
			{From: "p", To: "c2", MinLen: 1},
			{From: "p", To: "c3", MinLen: 1},
		},
		geo,
	)

	xs := []float64{pos["c1"].X, pos["c2"].X, pos["c3"].X}
	gap := geo.NodeWidth + geo.NodeMargin
	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] < gap {
			t.Errorf("children too close: %.1f after %.1f (gap %.1f)", xs[i], xs[i-1], gap)
		}
	}
}

func TestLayeredRankerDanglingEdgeIgnored(t *testing.T) {
	r := &LayeredRanker{}
	pos := r.Layout(
		[]RankNode{{ID: "a"}},
		[]RankEdge{{From: "a", To: "missing", MinLen: 1}},
		DefaultGeometry(),
	)
	if len(pos) != 1 {
		t.Errorf("%d positions, want 1", len(pos))
	}
}

func TestLayeredRankerDeterministic(t *testing.T) {
	nodes := []RankNode{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}
	edges := []RankEdge{
		{From: "a", To: "c", MinLen: 1},
		{From: "b", To: "c", MinLen: 1},
		{From: "b", To: "d", MinLen: 1},
		{From: "a", To: "e", MinLen: 1},
	}
	r := &LayeredRanker{}
	first := r.Layout(nodes, edges, DefaultGeometry())
	for i := 0; i < 10; i++ {
		again := r.Layout(nodes, edges, DefaultGeometry())
		for id, p := range first {
			if again[id] != p {
				t.Fatalf("run %d: %s moved from %+v to %+v", i, id, p, again[id])
			}
		}
	}
}

func TestPickHandles(t *testing.T) {
	geo := DefaultGeometry()
	down := position(0, 0)
	below := position(30, 200)
	right := position(300, 10)

	// Parent edge, mostly vertical displacement: bottom/top.
	sh, th := pickHandles(down, below, true, true, true, geo.AxisBiasRatio)
	if sh != HandleBottomSource || th != HandleTopTarget {
		t.Errorf("vertical preferred: %s/%s", sh, th)
	}

	// Parent edge, slightly more horizontal than vertical: the bias still
	// keeps it vertical (200*0.7 vs 300*0.3).
	sh, th = pickHandles(down, position(300, 200), true, true, true, geo.AxisBiasRatio)
	if sh != HandleBottomSource {
		t.Errorf("bias override failed: %s", sh)
	}

	// Non-parent edge, mostly horizontal: right/left.
	sh, th = pickHandles(down, right, true, true, false, geo.AxisBiasRatio)
	if sh != HandleRightSource || th != HandleLeftTarget {
		t.Errorf("horizontal preferred: %s/%s", sh, th)
	}

	// Upward displacement flips to top/bottom.
	sh, th = pickHandles(below, down, true, true, true, geo.AxisBiasRatio)
	if sh != HandleTopSource || th != HandleBottomTarget {
		t.Errorf("upward: %s/%s", sh, th)
	}

	// Unknown centers fall back to the axis defaults.
	sh, th = pickHandles(down, below, false, true, true, geo.AxisBiasRatio)
	if sh != HandleBottomSource || th != HandleTopTarget {
		t.Errorf("vertical fallback: %s/%s", sh, th)
	}
	sh, th = pickHandles(down, below, true, false, false, geo.AxisBiasRatio)
	if sh != HandleRightSource || th != HandleLeftTarget {
		t.Errorf("horizontal fallback: %s/%s", sh, th)
	}
}

func TestSideOf(t *testing.T) {
	if sideOf(HandleBottomSource) != "bottom" || sideOf(HandleLeftTarget) != "left" {
		t.Error("sideOf misparses handle names")
	}
}
