// Package pkg provides the core libraries for Kintree family tree layout.
//
// # Overview
//
// Kintree turns a set of persons and relationships into a positioned
// relationship graph: generations become ranks, partners sit side by side,
// sibling groups share a row, and friends hang off to the side. The pkg
// directory is organized into:
//
//  1. [tree] - Domain model (persons, relationships, sibling inference)
//  2. [dag] - Directed graph with rank assignment and crossing counts
//  3. [layout] - The layout engine (ranking, partners, friends, couples, edges)
//  4. [render] - Output formats (SVG, Graphviz DOT, JSON)
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//  6. [cache] - Layout and artifact caches (file, Redis)
//  7. [store] - Tree persistence (memory, MongoDB)
//
// # Quick Start
//
// Load a tree and render it:
//
//	import (
//	    "context"
//	    "github.com/kintree/kintree/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    TreePath: "family.json",
//	    Formats:  []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Or drive the engine directly:
//
//	t, _ := tree.ReadTreeFile("family.json")
//	engine := layout.New()
//	res := engine.Layout(t, layout.Settings{})
//
// # Main Packages
//
// [tree] - Persons, typed relationships (parent, partner, sibling, friend),
// attached entities (trauma events, life events, classifications), JSON
// serialization, and biological sibling inference.
//
// [dag] - Directed graph used by the ranker. Longest-path rank assignment
// via Kahn's algorithm, rank compaction, and edge crossing counts for
// ordering sweeps.
//
// [layout] - The engine pipeline: rank assignment, partner alignment,
// same-rank overlap resolution, friend placement, couple colors, junction
// fork detection, edge handle selection, and overlap disambiguation.
//
// [render] - SVG rendering of computed layouts, Graphviz DOT export with
// optional graphviz rasterization, and JSON export.
//
// [pipeline] - The shared load → layout → render pipeline used by the CLI
// and the HTTP API, with content-hash based caching at each stage.
//
// [cache] - Cache interface with file and Redis backends, key derivation
// (tree hash → layout key → artifact key), and retry helpers.
//
// [store] - TreeStore interface with in-memory and MongoDB backends.
//
// [errors] - Structured error codes shared by the CLI and API.
//
// [observability] - Optional hooks for metrics on pipeline stages and
// cache operations.
//
// [tree]: https://pkg.go.dev/github.com/kintree/kintree/pkg/tree
// [dag]: https://pkg.go.dev/github.com/kintree/kintree/pkg/dag
// [layout]: https://pkg.go.dev/github.com/kintree/kintree/pkg/layout
// [render]: https://pkg.go.dev/github.com/kintree/kintree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/kintree/kintree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/kintree/kintree/pkg/cache
// [store]: https://pkg.go.dev/github.com/kintree/kintree/pkg/store
// [errors]: https://pkg.go.dev/github.com/kintree/kintree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/kintree/kintree/pkg/observability
package pkg
