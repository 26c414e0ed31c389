package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kintree/kintree/pkg/tree"
)

// DOTOptions configures the DOT export.
type DOTOptions struct {
	// Detailed includes birth/death years and relationship types in labels.
	// When false, only names are shown.
	Detailed bool
}

// ToDOT converts a family tree to Graphviz DOT format. Parent edges are
// directed, partner and sibling edges are drawn undirected at the same rank,
// and friend edges are dashed. The export shows the raw graph, not the
// engine's layout; use it for debugging and external graph tooling.
func ToDOT(t *tree.Tree, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph kintree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, id := range t.PersonIDs() {
		p := t.Persons[id]
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, personLabel(p, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, id := range t.RelationshipIDs() {
		r := t.Relationships[id]
		if r == nil {
			continue
		}
		attrs := edgeAttrs(r, opts.Detailed)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", r.SourcePersonID, r.TargetPersonID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func personLabel(p *tree.Person, detailed bool) string {
	name := p.DisplayName()
	if !detailed {
		return name
	}
	var span string
	if p.BirthYear != nil {
		span = strconv.Itoa(*p.BirthYear)
	}
	if p.Deceased() {
		span += "–"
		if p.DeathYear != nil {
			span += strconv.Itoa(*p.DeathYear)
		}
	}
	if span == "" {
		return name
	}
	return name + "\n" + span
}

func edgeAttrs(r *tree.Relationship, detailed bool) []string {
	var attrs []string
	switch {
	case r.Type.IsParent():
		// directed, default arrow
	case r.Type.IsFriend():
		attrs = append(attrs, "dir=none", "style=dashed", "constraint=false")
	default:
		attrs = append(attrs, "dir=none", "constraint=false")
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", string(r.Type)))
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "arrowsize=0.7")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz. The returned SVG has
// a normalized zero-origin viewBox so embedding contexts can scale it
// uniformly.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
