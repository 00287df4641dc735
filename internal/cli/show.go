package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/flow"
)

// showCommand creates the show command, which prints the saved graph.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				if asJSON {
					return s.Export(cmd.Context(), os.Stdout)
				}
				g, err := s.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				printKeyValue("Storage", storageLocation(c.Config.Storage))
				printKeyValue("Key", s.Key())
				printStats(len(g.Nodes), len(g.Edges))
				if len(g.Nodes) > 0 {
					fmt.Println(nodeTable(g.Nodes))
				}
				if len(g.Edges) > 0 {
					fmt.Println(edgeTable(g))
				}
				if dangling := g.DanglingEdges(); len(dangling) > 0 {
					printWarning("%d edge(s) point at missing nodes", len(dangling))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the graph in the exchange format")

	return cmd
}

// nodeTable renders nodes as a bordered table, one row per node.
func nodeTable(nodes []flow.Node) string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			n.ID,
			n.Data.Label,
			n.Data.Style.Color,
			string(n.Data.Style.Shape),
			fmt.Sprintf("%g, %g", n.Position.X, n.Position.Y),
		})
	}
	return newTable(rows, "ID", "Label", "Color", "Shape", "Position").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 2 && row < len(nodes) {
				return lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(nodes[row].Data.Style.Color))
			}
			return tableCellStyle
		}).
		String()
}

// edgeTable renders edges with their display labels. Edges naming a node
// that does not exist are dimmed.
func edgeTable(g flow.Graph) string {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	rows := make([][]string, 0, len(g.Edges))
	dangling := make([]bool, len(g.Edges))
	for i, e := range g.Edges {
		dangling[i] = !ids[e.Source] || !ids[e.Target]
		rows = append(rows, []string{
			e.ID,
			e.Source + " " + iconArrow + " " + e.Target,
			strings.ReplaceAll(editor.DisplayLabel(e.Data.Label, editor.EdgeLabelMax), "\n", "⏎"),
		})
	}
	return newTable(rows, "ID", "Relation", "Label").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if row < len(dangling) && dangling[row] {
				return tableCellStyle.Foreground(colorDim)
			}
			return tableCellStyle
		}).
		String()
}

func newTable(rows [][]string, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...)
}
