package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/internal/tui"
	"github.com/matzehuels/lineageflow/pkg/editor"
)

// editCommand creates the edit command, which opens the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the saved graph in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			keys := editor.NewKeyBus()
			session, closeFn, err := c.openSession(ctx, keys)
			if err != nil {
				return err
			}
			defer closeFn()

			// Log lines would tear the full-screen view.
			level := c.Logger.GetLevel()
			if level < log.ErrorLevel {
				c.SetLogLevel(log.ErrorLevel)
				defer c.SetLogLevel(level)
			}

			p := tea.NewProgram(tui.New(ctx, session, keys), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run editor: %w", err)
			}

			g, err := session.Snapshot(ctx)
			if err != nil {
				return err
			}
			printSuccess("Saved %s", statsLine(len(g.Nodes), len(g.Edges)))
			printDetail("key %s in %s", session.Key(), storageLocation(c.Config.Storage))
			return nil
		},
	}
}
