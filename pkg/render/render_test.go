package render

import (
	"strings"
	"testing"

	"github.com/kintree/kintree/pkg/layout"
	"github.com/kintree/kintree/pkg/tree"
)

func demoTree() *tree.Tree {
	t := tree.New()
	t.AddPerson(&tree.Person{ID: "p1", Name: "Ada"})
	t.AddPerson(&tree.Person{ID: "p2", Name: "Ben"})
	t.AddPerson(&tree.Person{ID: "c1", Name: "Cleo <3"})
	t.AddRelationship(&tree.Relationship{ID: "r1", Type: tree.TypeBiologicalParent, SourcePersonID: "p1", TargetPersonID: "c1"})
	t.AddRelationship(&tree.Relationship{ID: "r2", Type: tree.TypeBiologicalParent, SourcePersonID: "p2", TargetPersonID: "c1"})
	t.AddRelationship(&tree.Relationship{ID: "r3", Type: tree.TypePartner, SourcePersonID: "p1", TargetPersonID: "p2"})
	return t
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(demoTree(), DOTOptions{})
	for _, want := range []string{
		"digraph kintree {",
		`"p1" [label="Ada"];`,
		`"p1" -> "c1"`,
		`"p1" -> "p2" [dir=none, constraint=false];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	tr := demoTree()
	birth, death := 1920, 1999
	tr.Persons["p1"].BirthYear = &birth
	tr.Persons["p1"].DeathYear = &death

	dot := ToDOT(tr, DOTOptions{Detailed: true})
	if !strings.Contains(dot, "1920–1999") {
		t.Errorf("detailed label missing life span:\n%s", dot)
	}
	if !strings.Contains(dot, `label="biological-parent"`) {
		t.Errorf("detailed edge label missing:\n%s", dot)
	}
}

func TestSVG(t *testing.T) {
	res := layout.New().Layout(demoTree(), layout.Settings{EdgeStyle: layout.EdgeStyleElbows})
	svg := string(SVG(res, layout.DefaultGeometry()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("not an SVG document: %.80s", svg)
	}
	for _, want := range []string{"<rect", "<text", "<path"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s elements", want)
		}
	}
	if !strings.Contains(svg, "Cleo &lt;3") {
		t.Error("label not XML-escaped")
	}
}

func TestSVGEmptyResult(t *testing.T) {
	res := layout.New().Layout(tree.New(), layout.Settings{})
	svg := string(SVG(res, layout.DefaultGeometry()))
	if !strings.Contains(svg, "viewBox") {
		t.Error("empty layout should still yield a valid document")
	}
}

func TestSVGHidesJunctionEdges(t *testing.T) {
	// A single couple yields one fork primary and one hidden edge; the
	// hidden edge must not appear as a separate path.
	res := layout.New().Layout(demoTree(), layout.Settings{})

	var hidden int
	for _, e := range res.Edges {
		if e.Data.JunctionHidden {
			hidden++
		}
	}
	if hidden == 0 {
		t.Fatal("expected at least one hidden junction edge in the fixture")
	}

	svg := string(SVG(res, layout.DefaultGeometry()))
	// The fork draws bar + stem + one branch per child; with the partner
	// edge that is a bounded number of paths. Mostly we assert it renders.
	if strings.Count(svg, "<path") < 3 {
		t.Errorf("fork geometry missing:\n%s", svg)
	}
}

func TestJSON(t *testing.T) {
	res := layout.New().Layout(demoTree(), layout.Settings{})
	data, err := JSON(res)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	for _, want := range []string{`"nodes"`, `"edges"`, `"nodeCenters"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s", want)
		}
	}
}

func TestEdgePathStyles(t *testing.T) {
	straight := edgePath(layout.EdgeStyleStraight, 0, 0, 10, 10)
	if straight != "M 0.00 0.00 L 10.00 10.00" {
		t.Errorf("straight path = %q", straight)
	}
	if !strings.Contains(edgePath(layout.EdgeStyleCurved, 0, 0, 10, 10), " C ") {
		t.Error("curved path is not a bezier")
	}
	if strings.Count(edgePath(layout.EdgeStyleElbows, 0, 0, 10, 10), " L ") != 3 {
		t.Error("elbow path should have three segments")
	}
}
