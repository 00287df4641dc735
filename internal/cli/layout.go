package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/layout"
)

// layoutCommand creates the layout command, which arranges the saved graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		direction string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Arrange the saved graph in layers",
		Long: `Arrange the saved graph in layers.

Upstream datasets are placed above (TB) or to the left of (LR) the datasets
derived from them. Cycles are tolerated. Results are cached locally unless
--no-cache is given or caching is disabled in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if direction == "" {
				direction = c.Config.Layout.Direction
			}
			dir, err := layout.ParseDirection(direction)
			if err != nil {
				return err
			}
			if noCache {
				c.Config.Layout.Cache = false
			}
			return c.runLayout(cmd.Context(), dir)
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "", "layout direction: TB (default), LR")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, dir layout.Direction) error {
	return c.withSession(ctx, func(s *editor.Session) error {
		prog := newProgress(loggerFromContext(ctx))
		if err := s.Layout(ctx, dir); err != nil {
			prog.fail("Layout failed", err)
			return err
		}
		g, err := s.Snapshot(ctx)
		if err != nil {
			return err
		}
		prog.done("Layout computed", "nodes", len(g.Nodes), "direction", dir)
		printSuccess("Arranged %s (%s)", statsLine(len(g.Nodes), len(g.Edges)), dir)
		return nil
	})
}
