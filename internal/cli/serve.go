package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/server"
)

// serveCommand creates the serve command, which exposes the saved graph to
// a browser canvas over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editing API over HTTP",
		Long: `Serve the editing API over HTTP.

All requests share one editing session; every change is saved to the
configured storage. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if len(origins) == 0 {
				origins = c.Config.Server.AllowedOrigins
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			keys := editor.NewKeyBus()
			session, closeFn, err := c.openSession(ctx, keys)
			if err != nil {
				return err
			}
			defer closeFn()

			srv := server.New(session, keys, logger, server.Options{
				AllowedOrigins: origins,
				Direction:      c.Config.direction(),
			})
			printInfo("Serving %s on %s", StyleHighlight.Render(session.Key()), StyleValue.Render("http://"+addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "allowed CORS origin (repeatable)")

	return cmd
}
