package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/kintree/kintree/pkg/tree"
)

type relSpec struct {
	typ      tree.RelationshipType
	src, dst string
}

func buildTree(rels []relSpec) *tree.Tree {
	t := tree.New()
	add := func(id string) {
		if t.Persons[id] == nil {
			t.AddPerson(&tree.Person{ID: id, Name: "Person " + id})
		}
	}
	for i, r := range rels {
		add(r.src)
		add(r.dst)
		t.AddRelationship(&tree.Relationship{
			ID:             fmt.Sprintf("r%02d", i),
			Type:           r.typ,
			SourcePersonID: r.src,
			TargetPersonID: r.dst,
		})
	}
	return t
}

func TestLayoutEmptyInput(t *testing.T) {
	res := New().Layout(tree.New(), Settings{})
	if len(res.Nodes) != 0 || len(res.Edges) != 0 {
		t.Errorf("empty tree: %d nodes, %d edges, want 0/0", len(res.Nodes), len(res.Edges))
	}
	if res.NodeCenters == nil {
		t.Error("NodeCenters must be non-nil even for empty input")
	}
}

func TestLayoutNilTree(t *testing.T) {
	res := New().Layout(nil, Settings{})
	if len(res.Nodes) != 0 {
		t.Errorf("nil tree: %d nodes, want 0", len(res.Nodes))
	}
}

func TestParentAboveChild(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "p1", "c1"},
	})
	res := New().Layout(tr, Settings{})

	p, c := res.NodeCenters["p1"], res.NodeCenters["c1"]
	if p.Y >= c.Y {
		t.Errorf("parent y %.1f not above child y %.1f", p.Y, c.Y)
	}
}

func TestPartnersShareY(t *testing.T) {
	// Unequal provisional ranks: b is also a child of x, pushing b a rank
	// below a before alignment kicks in.
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "x", "b"},
		{tree.TypePartner, "a", "b"},
	})
	res := New().Layout(tr, Settings{})

	a, b := res.NodeCenters["a"], res.NodeCenters["b"]
	if a.Y != b.Y {
		t.Errorf("partner ys differ: %.1f vs %.1f", a.Y, b.Y)
	}
	geo := DefaultGeometry()
	if gap := math.Abs(b.X - a.X); gap < geo.NodeWidth+geo.NodeMargin {
		t.Errorf("partner separation %.1f below node width plus margin", gap)
	}
}

func TestPinnedPositionWins(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "p1", "c1"},
		{tree.TypeFriend, "c1", "f1"},
	})
	pin := &tree.Position{X: 1234, Y: 5678}
	tr.Persons["c1"].Position = pin
	tr.Persons["f1"].Position = &tree.Position{X: -50, Y: -60}

	res := New().Layout(tr, Settings{})
	for _, n := range res.Nodes {
		switch n.ID {
		case "c1":
			if n.Position.X != 1234 || n.Position.Y != 5678 {
				t.Errorf("pinned c1 at %+v", n.Position)
			}
		case "f1":
			// Friend-only and pinned: the pin still wins.
			if n.Position.X != -50 || n.Position.Y != -60 {
				t.Errorf("pinned friend f1 at %+v", n.Position)
			}
			if !n.Data.FriendOnly {
				t.Error("f1 should be friend-only")
			}
		}
	}
}

func TestFriendPlacement(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "p1", "c1"},
		{tree.TypeFriend, "c1", "f1"},
		{tree.TypeFriend, "c1", "f2"},
	})
	res := New().Layout(tr, Settings{})

	geo := DefaultGeometry()
	maxFamilyX := res.NodeCenters["p1"].X
	if x := res.NodeCenters["c1"].X; x > maxFamilyX {
		maxFamilyX = x
	}
	for _, id := range []string{"f1", "f2"} {
		if res.NodeCenters[id].X <= maxFamilyX {
			t.Errorf("friend %s at x %.1f not right of family (max %.1f)", id, res.NodeCenters[id].X, maxFamilyX)
		}
	}

	// Greedy stacking: f1 takes the averaged slot, f2 is nudged below it.
	f1, f2 := res.NodeCenters["f1"], res.NodeCenters["f2"]
	if f2.Y < f1.Y+geo.NodeHeight+geo.FriendGap {
		t.Errorf("f2 y %.1f not stacked below f1 y %.1f", f2.Y, f1.Y)
	}
}

func TestIsolatedPersonIsNotFriendOnly(t *testing.T) {
	tr := tree.New()
	tr.AddPerson(&tree.Person{ID: "solo", Name: "Solo"})
	res := New().Layout(tr, Settings{})

	if len(res.Nodes) != 1 {
		t.Fatalf("%d nodes, want 1", len(res.Nodes))
	}
	if res.Nodes[0].Data.FriendOnly {
		t.Error("isolated person misclassified as friend-only")
	}
}

func TestCoupleColorsAndForks(t *testing.T) {
	// Couple a|b with children c1 and c2, couple d|e with child c3.
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "a", "c1"},
		{tree.TypeBiologicalParent, "b", "c1"},
		{tree.TypeBiologicalParent, "a", "c2"},
		{tree.TypeBiologicalParent, "b", "c2"},
		{tree.TypeBiologicalParent, "d", "c3"},
		{tree.TypeBiologicalParent, "e", "c3"},
	})
	res := New().Layout(tr, Settings{})

	if !res.UseCoupleColors {
		t.Error("two couples should enable couple colors")
	}
	if len(res.CoupleColors) != 2 {
		t.Fatalf("%d couple colors, want 2", len(res.CoupleColors))
	}
	if res.CoupleColors["a|b"] == res.CoupleColors["d|e"] {
		t.Error("both couples got the same color")
	}

	var primaries, hiddens int
	for _, e := range res.Edges {
		if e.Data.JunctionFork == nil {
			if !e.Data.JunctionHidden {
				continue
			}
			hiddens++
			continue
		}
		primaries++
		if e.ID >= "r04" {
			// The first couple's fork covers r00..r03; d|e owns r04/r05.
			f := e.Data.JunctionFork
			if len(f.ParentIDs) != 2 || len(f.ChildIDs) != 1 {
				t.Errorf("d|e fork = %+v", f)
			}
		} else {
			f := e.Data.JunctionFork
			if len(f.ParentIDs) != 2 || len(f.ChildIDs) != 2 {
				t.Errorf("a|b fork = %+v", f)
			}
		}
	}
	// a|b: 4 edges → 1 primary, 3 hidden. d|e: 2 edges → 1 primary, 1 hidden.
	if primaries != 2 || hiddens != 4 {
		t.Errorf("primaries/hiddens = %d/%d, want 2/4", primaries, hiddens)
	}

	for _, e := range res.Edges {
		if e.Data.Relationship != nil && e.Data.Relationship.Type == tree.TypeBiologicalParent {
			if e.Data.CoupleColor == "" {
				t.Errorf("bio edge %s missing couple color", e.ID)
			}
		}
	}
}

func TestSingleCoupleColorsInert(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "a", "c1"},
		{tree.TypeBiologicalParent, "b", "c1"},
	})
	res := New().Layout(tr, Settings{})

	if res.UseCoupleColors {
		t.Error("single couple must not enable couple colors")
	}
	if len(res.CoupleColors) != 1 {
		t.Errorf("%d couple colors, want 1 (assigned but inert)", len(res.CoupleColors))
	}
	for _, e := range res.Edges {
		if e.Data.CoupleColor != "" {
			t.Errorf("edge %s carries a couple color with colors disabled", e.ID)
		}
	}
}

func TestOverlapOffsetsAndMarkers(t *testing.T) {
	// Two friend edges leave c1 toward the friend column on the same side.
	tr := buildTree([]relSpec{
		{tree.TypeFriend, "c1", "f1"},
		{tree.TypeFriend, "c1", "f2"},
		{tree.TypeBiologicalParent, "p1", "c1"},
	})
	res := New().Layout(tr, Settings{ShowMarkers: true})

	var group []Edge
	for _, e := range res.Edges {
		if e.Source == "c1" && e.Data.Category == tree.CategoryFriend {
			group = append(group, e)
		}
	}
	if len(group) != 2 {
		t.Fatalf("%d friend edges from c1, want 2", len(group))
	}
	if group[0].SourceHandle != group[1].SourceHandle {
		t.Fatalf("handles differ (%s vs %s); both edges should leave the same side",
			group[0].SourceHandle, group[1].SourceHandle)
	}
	if group[0].Data.SourceOffset == group[1].Data.SourceOffset {
		t.Errorf("source offsets coincide at %.1f", group[0].Data.SourceOffset)
	}
	if group[0].Data.MarkerShape == group[1].Data.MarkerShape {
		t.Errorf("marker shapes coincide at %d", group[0].Data.MarkerShape)
	}
	for _, e := range group {
		if e.Data.MarkerShape < 0 || e.Data.MarkerShape >= MarkerShapeCount {
			t.Errorf("marker shape %d outside the palette", e.Data.MarkerShape)
		}
	}
}

func TestMarkersDisabledByDefault(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeFriend, "c1", "f1"},
		{tree.TypeFriend, "c1", "f2"},
	})
	res := New().Layout(tr, Settings{})
	for _, e := range res.Edges {
		if e.Data.MarkerShape != MarkerNone {
			t.Errorf("edge %s has marker %d with markers disabled", e.ID, e.Data.MarkerShape)
		}
	}
}

func TestInferredSiblingEdges(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "p1", "c1"},
		{tree.TypeBiologicalParent, "p2", "c1"},
		{tree.TypeBiologicalParent, "p1", "c2"},
		{tree.TypeBiologicalParent, "p2", "c2"},
	})
	res := New().Layout(tr, Settings{})

	found := false
	for _, e := range res.Edges {
		if e.ID == "inferred-sibling:c1|c2" {
			found = true
			if e.Data.InferredType != tree.FullSibling {
				t.Errorf("inferred type = %s", e.Data.InferredType)
			}
			if e.Data.Category != tree.CategorySibling {
				t.Errorf("category = %s", e.Data.Category)
			}
			if e.Data.Relationship != nil {
				t.Error("inferred edge carries a stored relationship")
			}
		}
	}
	if !found {
		t.Error("inferred sibling edge missing")
	}

	// Siblings share a rank.
	if res.NodeCenters["c1"].Y != res.NodeCenters["c2"].Y {
		t.Errorf("sibling ys differ: %.1f vs %.1f", res.NodeCenters["c1"].Y, res.NodeCenters["c2"].Y)
	}
}

func TestDanglingRelationshipTolerated(t *testing.T) {
	tr := tree.New()
	tr.AddPerson(&tree.Person{ID: "a", Name: "Ada"})
	tr.AddRelationship(&tree.Relationship{
		ID: "r1", Type: tree.TypeFriend, SourcePersonID: "a", TargetPersonID: "ghost",
	})
	res := New().Layout(tr, Settings{})

	if len(res.Edges) != 1 {
		t.Fatalf("%d edges, want 1", len(res.Edges))
	}
	e := res.Edges[0]
	if e.Data.TargetName != "?" {
		t.Errorf("missing person name = %q, want ?", e.Data.TargetName)
	}
	if e.SourceHandle != HandleRightSource || e.TargetHandle != HandleLeftTarget {
		t.Errorf("default horizontal handles, got %s/%s", e.SourceHandle, e.TargetHandle)
	}
}

func TestCyclicParentDataDegrades(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "a", "b"},
		{tree.TypeBiologicalParent, "b", "a"},
	})
	res := New().Layout(tr, Settings{})

	// Cycle members flatten to one rank; the run must still complete.
	if len(res.Nodes) != 2 || len(res.Edges) != 2 {
		t.Errorf("%d nodes, %d edges, want 2/2", len(res.Nodes), len(res.Edges))
	}
	if res.NodeCenters["a"].Y != res.NodeCenters["b"].Y {
		t.Errorf("cycle members on different ranks: %.1f vs %.1f",
			res.NodeCenters["a"].Y, res.NodeCenters["b"].Y)
	}
}

func TestSelectedNode(t *testing.T) {
	tr := buildTree([]relSpec{{tree.TypeFriend, "a", "b"}})
	res := New().Layout(tr, Settings{SelectedPersonID: "a"})

	for _, n := range res.Nodes {
		if n.ID == "a" && !n.Selected {
			t.Error("a not selected")
		}
		if n.ID == "b" && n.Selected {
			t.Error("b selected")
		}
	}
}

func TestEntityAttachment(t *testing.T) {
	tr := buildTree([]relSpec{{tree.TypePartner, "a", "b"}})
	year := 1990
	tr.Events["e1"] = &tree.TraumaEvent{ID: "e1", Title: "Loss", Year: &year, PersonIDs: []string{"a", "b"}}
	tr.Classifications["k1"] = &tree.Classification{ID: "k1", Name: "Caretaker", PersonIDs: []string{"a"}}

	res := New().Layout(tr, Settings{})
	for _, n := range res.Nodes {
		if len(n.Data.Events) != 1 {
			t.Errorf("node %s has %d events, want 1 (shared event attaches to both)", n.ID, len(n.Data.Events))
		}
		if n.ID == "a" && len(n.Data.Classifications) != 1 {
			t.Errorf("node a missing classification")
		}
		if n.ID == "b" && len(n.Data.Classifications) != 0 {
			t.Errorf("node b has stray classification")
		}
	}
}

func TestLayoutDeterministic(t *testing.T) {
	tr := buildTree([]relSpec{
		{tree.TypeBiologicalParent, "a", "c1"},
		{tree.TypeBiologicalParent, "b", "c1"},
		{tree.TypeBiologicalParent, "a", "c2"},
		{tree.TypeBiologicalParent, "b", "c2"},
		{tree.TypePartner, "a", "b"},
		{tree.TypeFriend, "c1", "f1"},
	})

	eng := New()
	first := eng.Layout(tr, Settings{ShowMarkers: true})
	for run := 0; run < 10; run++ {
		again := eng.Layout(tr, Settings{ShowMarkers: true})
		if len(again.Nodes) != len(first.Nodes) || len(again.Edges) != len(first.Edges) {
			t.Fatalf("run %d: shape changed", run)
		}
		for i := range first.Nodes {
			if again.Nodes[i].ID != first.Nodes[i].ID || again.Nodes[i].Position != first.Nodes[i].Position {
				t.Fatalf("run %d: node %d differs", run, i)
			}
		}
		for i := range first.Edges {
			a, b := first.Edges[i], again.Edges[i]
			if a.ID != b.ID || a.SourceHandle != b.SourceHandle || a.Data.SourceOffset != b.Data.SourceOffset ||
				a.Data.MarkerShape != b.Data.MarkerShape {
				t.Fatalf("run %d: edge %s differs", run, a.ID)
			}
		}
	}
}
