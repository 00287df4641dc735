package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/persist"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved graph",
		Long: `Export the saved graph in the exchange format (JSON, the default) or as YAML.
Without --output the graph is written to stdout. Browser exports use the
name ` + persist.ExportFilename + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'json' or 'yaml')", format)
			}
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				g, err := s.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if format == formatYAML {
					err = persist.ExportYAML(&buf, g)
				} else {
					err = persist.Export(&buf, g)
				}
				if err != nil {
					return err
				}
				if output == "" {
					_, err := io.Copy(os.Stdout, &buf)
					return err
				}
				if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess("Exported %s", statsLine(len(g.Nodes), len(g.Edges)))
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml")

	return cmd
}

// importCommand creates the import command. The saved graph is replaced
// only if the file is a valid graph.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the saved graph with an exported one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := errors.ValidateImportFilename(path); err != nil {
				return err
			}
			f, err := os.Open(path)
			if os.IsNotExist(err) {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "no such file %s", path)
			}
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				g, err := s.Import(cmd.Context(), f)
				if err != nil {
					printError("Import failed: %s", errors.UserMessage(err))
					return err
				}
				printSuccess("Imported %s", statsLine(len(g.Nodes), len(g.Edges)))
				printDetail("saved under %s", s.Key())
				if dangling := g.DanglingEdges(); len(dangling) > 0 {
					printWarning("%d edge(s) point at missing nodes", len(dangling))
				}
				printNextStep("Arrange it", appName+" layout")
				return nil
			})
		},
	}
}
