package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/layout"
	"github.com/matzehuels/lineageflow/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path
	format     string // "dot" or "svg"
	direction  string // rank direction: "TB" or "LR"
	edgeLabels bool   // draw relation labels
}

// renderCommand creates the render command, which draws the saved graph
// with Graphviz.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format:     formatSVG,
		edgeLabels: true,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the saved graph to SVG or DOT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatSVG && opts.format != formatDOT {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'svg' or 'dot')", opts.format)
			}
			if opts.direction == "" {
				opts.direction = c.Config.Layout.Direction
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: data-lineage.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "rank direction: TB (default), LR")
	cmd.Flags().BoolVar(&opts.edgeLabels, "edge-labels", opts.edgeLabels, "draw relation labels")

	return cmd
}

// outputPath returns the output path, defaulting to data-lineage.<format>.
func (o *renderOpts) outputPath() string {
	if o.output != "" {
		return o.output
	}
	return "data-lineage." + strings.ToLower(o.format)
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	dir, err := layout.ParseDirection(opts.direction)
	if err != nil {
		return err
	}
	return c.withSession(ctx, func(s *editor.Session) error {
		g, err := s.Snapshot(ctx)
		if err != nil {
			return err
		}
		if len(g.Nodes) == 0 {
			printInfo("Graph is empty")
			printNextStep("Add a dataset", appName+" add raw_orders")
			return nil
		}

		dot := nodelink.ToDOT(g, nodelink.Options{Direction: dir, EdgeLabels: opts.edgeLabels})
		data := []byte(dot)
		if opts.format == formatSVG {
			prog := newProgress(loggerFromContext(ctx))
			spinner := newSpinner(ctx, os.Stderr, "Rendering SVG...")
			spinner.Start()
			data, err = nodelink.RenderSVG(ctx, dot)
			if err != nil {
				spinner.StopWithError("Rendering failed")
				prog.fail("Render failed", err)
				return fmt.Errorf("render svg: %w", err)
			}
			spinner.Stop()
			prog.done("SVG rendered", "bytes", len(data))
		}

		path := opts.outputPath()
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printSuccess("Rendered %s", statsLine(len(g.Nodes), len(g.Edges)))
		printFile(path)
		return nil
	})
}
