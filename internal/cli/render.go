package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single format) or base path (multiple)
	formats   []string // output formats: svg, dot, json
	edgeStyle string   // curved, elbows, straight
	markers   bool     // annotate overlapping edges with marker shapes
	selected  string   // person id to mark as selected
	detailed  bool     // include birth/death spans in DOT labels
	refresh   bool     // bypass cached layouts and artifacts
	noCache   bool     // disable caching entirely
}

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a family tree to SVG, DOT, or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return fmt.Errorf("%s", errors.UserMessage(err))
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, gvsvg (comma-separated)")
	cmd.Flags().StringVar(&opts.edgeStyle, "edge-style", "", "edge style: curved (default), elbows, straight")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "assign marker shapes to overlapping edges")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "person id to mark as selected")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include birth and death years in DOT labels")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, "Rendering "+input)
	spin.Start()
	res, err := runner.Execute(ctx, pipeline.Options{
		TreePath:         input,
		EdgeStyle:        opts.edgeStyle,
		ShowMarkers:      opts.markers,
		SelectedPersonID: opts.selected,
		Detailed:         opts.detailed,
		Refresh:          opts.refresh,
		Formats:          opts.formats,
		Logger:           c.Logger,
	})
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s", errors.UserMessage(err))
	}
	prog.done(fmt.Sprintf("Rendered %d persons", res.Stats.PersonCount))
	printStats(len(res.Layout.Nodes), len(res.Layout.Edges), res.CacheInfo.RenderHit)

	if len(opts.formats) == 1 {
		path := opts.output
		if path == "" {
			path = basePath("", input) + "." + opts.formats[0]
		}
		return writeArtifact(path, res.Artifacts[opts.formats[0]])
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		if err := writeArtifact(base+"."+format, res.Artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}
