package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/pipeline"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output    string // output file path; "-" or empty writes to stdout
	edgeStyle string // curved, elbows, straight
	markers   bool   // annotate overlapping edges with marker shapes
	selected  string // person id to mark as selected
	refresh   bool   // bypass cached layouts
	noCache   bool   // disable caching entirely
}

// layoutCommand creates the layout command. It computes node and edge
// positions for a tree file and writes the layout as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{}

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute a layout for a family tree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.edgeStyle, "edge-style", "", "edge style: curved (default), elbows, straight")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "assign marker shapes to overlapping edges")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "person id to mark as selected")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, opts *layoutOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, "Laying out "+input)
	spin.Start()
	res, err := runner.Execute(ctx, pipeline.Options{
		TreePath:         input,
		EdgeStyle:        opts.edgeStyle,
		ShowMarkers:      opts.markers,
		SelectedPersonID: opts.selected,
		Refresh:          opts.refresh,
		Formats:          []string{pipeline.FormatJSON},
		Logger:           c.Logger,
	})
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s", errors.UserMessage(err))
	}
	prog.done(fmt.Sprintf("Laid out %d persons", res.Stats.PersonCount))
	printStats(len(res.Layout.Nodes), len(res.Layout.Edges), res.CacheInfo.LayoutHit)

	data := res.Artifacts[pipeline.FormatJSON]
	if opts.output == "" || opts.output == "-" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printFile(opts.output)
	return nil
}

// basePath derives the base output path from the output and input paths,
// stripping a known format extension when present.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
