// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the API server.
//
// Centralizing the pipeline keeps caching behavior identical across entry
// points: layouts are cached by tree content hash plus settings, artifacts
// by layout key plus format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    TreePath: "family.json",
//	    Formats:  []string{pipeline.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/layout"
	"github.com/kintree/kintree/pkg/tree"
)

// Format constants for output artifacts. FormatSVG is drawn from the
// engine's own layout; FormatGraphvizSVG exports the raw graph as DOT and
// lets Graphviz lay it out, useful for comparing against the engine.
const (
	FormatSVG         = "svg"
	FormatDOT         = "dot"
	FormatJSON        = "json"
	FormatGraphvizSVG = "gvsvg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:         true,
	FormatDOT:         true,
	FormatJSON:        true,
	FormatGraphvizSVG: true,
}

// ValidEdgeStyles is the set of supported edge styles.
var ValidEdgeStyles = map[string]bool{
	string(layout.EdgeStyleCurved):   true,
	string(layout.EdgeStyleElbows):   true,
	string(layout.EdgeStyleStraight): true,
}

// DefaultEdgeStyle is applied when no edge style is requested.
const DefaultEdgeStyle = string(layout.EdgeStyleCurved)

// Options contains all configuration for one pipeline run.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Input: exactly one of Tree, TreePath, or TreeID.
	Tree     *tree.Tree `json:"tree,omitempty"`
	TreePath string     `json:"tree_path,omitempty"`
	TreeID   string     `json:"tree_id,omitempty"`

	// Layout options.
	EdgeStyle        string `json:"edge_style,omitempty"`
	ShowMarkers      bool   `json:"show_markers,omitempty"`
	SelectedPersonID string `json:"selected_person_id,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Render options.
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded input tree.
	Tree *tree.Tree

	// TreeHash is the content hash of the serialized tree.
	TreeHash string

	// Layout is the computed layout.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PersonCount       int
	RelationshipCount int
	LoadTime          time.Duration
	LayoutTime        time.Duration
	RenderTime        time.Duration
}

// CacheInfo tracks cache hits per pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, dot, json, gvsvg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEdgeStyle checks that an edge style is supported.
func ValidateEdgeStyle(style string) error {
	if !ValidEdgeStyles[style] {
		return errors.New(errors.ErrCodeInvalidEdgeStyle,
			"invalid edge style: %q (must be one of: curved, elbows, straight)", style)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent: repeated calls have no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Tree == nil && o.TreePath == "" && o.TreeID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tree, tree_path, or tree_id is required")
	}

	if o.EdgeStyle == "" {
		o.EdgeStyle = DefaultEdgeStyle
	}
	if err := ValidateEdgeStyle(o.EdgeStyle); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Settings converts the options to engine settings.
func (o *Options) Settings() layout.Settings {
	return layout.Settings{
		EdgeStyle:        layout.EdgeStyle(o.EdgeStyle),
		ShowMarkers:      o.ShowMarkers,
		SelectedPersonID: o.SelectedPersonID,
	}
}

// LayoutKeyOpts returns the cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		EdgeStyle:        o.EdgeStyle,
		ShowMarkers:      o.ShowMarkers,
		SelectedPersonID: o.SelectedPersonID,
	}
}

// ArtifactKeyOpts returns the cache key options for one artifact format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
