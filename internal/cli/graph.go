package cli

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/store"
)

// addCommand creates the add command, which appends a node.
func (c *CLI) addCommand() *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "add [label]",
		Short: "Add a node",
		Long:  `Add a node. Without --x/--y the node is placed at a random position, as the editor does.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var label string
			if len(args) == 1 {
				label = args[0]
				if err := errors.ValidateLabel(label); err != nil {
					return err
				}
			}
			var pos *flow.Position
			if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
				pos = &flow.Position{X: x, Y: y}
			}
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				n, err := addNode(cmd.Context(), s, pos, label)
				if err != nil {
					return err
				}
				printSuccess("Added node %s", StyleHighlight.Render(n.ID))
				printDetail("%q at (%g, %g)", n.Data.Label, n.Position.X, n.Position.Y)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "x position")
	cmd.Flags().Float64Var(&y, "y", 0, "y position")

	return cmd
}

// addNode adds a node at pos, or at a random position when pos is nil, and
// labels it when label is non-empty.
func addNode(ctx context.Context, s *editor.Session, pos *flow.Position, label string) (flow.Node, error) {
	var n flow.Node
	err := s.Do(ctx, "add node", func(e *editor.Editor) error {
		p := store.RandomPosition(newRand())
		if pos != nil {
			p = *pos
		}
		n = e.Store.AddNode(p)
		if label != "" {
			e.Store.SetNodeLabel(n.ID, label)
			n.Data.Label = label
		}
		return nil
	})
	return n, err
}

func newRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1))
}

// connectCommand creates the connect command, which adds an edge.
func (c *CLI) connectCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:               "connect <source> <target>",
		Short:             "Connect two nodes with a relation",
		ValidArgsFunction: c.completeIDs(completeNodes, 2),
		Long:              `Connect two nodes. The edge is labeled "New Relation" unless --label is given. Self-loops and repeated connections are allowed.`,
		Args:              cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if label != "" {
				if err := errors.ValidateLabel(label); err != nil {
					return err
				}
			}
			conn := store.Connection{Source: args[0], Target: args[1]}
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				var edge flow.Edge
				err := s.Do(cmd.Context(), "connect", func(e *editor.Editor) error {
					for _, id := range []string{conn.Source, conn.Target} {
						if _, ok := e.Store.Node(id); !ok {
							return errors.New(errors.ErrCodeNotFound, "no node %q", id)
						}
					}
					var ok bool
					edge, ok = e.Store.Connect(conn)
					if !ok {
						return errors.New(errors.ErrCodeInvalidInput, "source and target are required")
					}
					if label != "" {
						e.Store.SetEdgeLabel(edge.ID, label)
						edge.Data.Label = label
					}
					return nil
				})
				if err != nil {
					return err
				}
				printSuccess("Connected %s %s %s", edge.Source, iconArrow, edge.Target)
				printDetail("%s %q", edge.ID, edge.Data.Label)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "relation label")

	return cmd
}

// labelCommand creates the label command, which renames a node.
func (c *CLI) labelCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "label <node> <text>",
		Short:             "Set a node label",
		ValidArgsFunction: c.completeIDs(completeNodes, 1),
		Args:              cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, text := args[0], args[1]
			if err := errors.ValidateLabel(text); err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				var found bool
				err := s.Do(cmd.Context(), "label node", func(e *editor.Editor) error {
					found = e.Store.SetNodeLabel(id, text)
					return nil
				})
				if err != nil {
					return err
				}
				if !found {
					return errors.New(errors.ErrCodeNotFound, "no node %q", id)
				}
				printSuccess("Labeled node %s %q", id, text)
				return nil
			})
		},
	}
}

// styleCommand creates the style command, which sets node color and shape.
func (c *CLI) styleCommand() *cobra.Command {
	var color, shape string

	cmd := &cobra.Command{
		Use:               "style <node>",
		Short:             "Set a node color and/or shape",
		ValidArgsFunction: c.completeIDs(completeNodes, 1),
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch flow.StylePatch
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if cmd.Flags().Changed("shape") {
				s := flow.Shape(shape)
				patch.Shape = &s
			}
			if patch.IsEmpty() {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to change: pass --color and/or --shape")
			}
			if err := patch.Validate(); err != nil {
				return err
			}
			id := args[0]
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				var found bool
				err := s.Do(cmd.Context(), "style node", func(e *editor.Editor) error {
					found = e.Store.SetNodeStyle(id, patch)
					return nil
				})
				if err != nil {
					return err
				}
				if !found {
					return errors.New(errors.ErrCodeNotFound, "no node %q", id)
				}
				printSuccess("Styled node %s", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "node color: #555, #ff0000, #00ff00, #0000ff, #ffc107")
	cmd.Flags().StringVar(&shape, "shape", "", "node shape: rectangle, circle, diamond")

	return cmd
}

// edgeLabelCommand creates the edge-label command, which relabels a relation.
func (c *CLI) edgeLabelCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "edge-label <edge> <text>",
		Short:             "Set a relation label",
		ValidArgsFunction: c.completeIDs(completeEdges, 1),
		Long:              `Set a relation label. Use $'...' quoting in the shell to include newlines.`,
		Args:              cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, text := args[0], args[1]
			if err := errors.ValidateLabel(text); err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				var found bool
				err := s.Do(cmd.Context(), "label edge", func(e *editor.Editor) error {
					found = e.Store.SetEdgeLabel(id, text)
					return nil
				})
				if err != nil {
					return err
				}
				if !found {
					return errors.New(errors.ErrCodeNotFound, "no edge %q", id)
				}
				printSuccess("Labeled edge %s %q", id, editor.DisplayLabel(text, editor.EdgeLabelMax))
				return nil
			})
		},
	}
}

// removeCommand creates the rm command. Removing a node keeps its edges,
// matching the editor; --edges removes them too.
func (c *CLI) removeCommand() *cobra.Command {
	var withEdges bool

	cmd := &cobra.Command{
		Use:               "rm <id>...",
		Aliases:           []string{"remove"},
		Short:             "Remove nodes or edges",
		ValidArgsFunction: c.completeIDs(completeNodes|completeEdges, -1),
		Args:              cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *editor.Session) error {
				var removed, dangling int
				err := s.Do(cmd.Context(), "remove", func(e *editor.Editor) error {
					nodeChanges, edgeChanges, err := removals(e.Store, args, withEdges)
					if err != nil {
						return err
					}
					e.Store.ApplyNodeChanges(nodeChanges)
					e.Store.ApplyEdgeChanges(edgeChanges)
					e.Controller.Prune()
					removed = len(nodeChanges) + len(edgeChanges)
					dangling = len(e.Store.DanglingEdges())
					return nil
				})
				if err != nil {
					return err
				}
				printSuccess("Removed %d item(s)", removed)
				if dangling > 0 {
					printWarning("%d edge(s) now point at missing nodes", dangling)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withEdges, "edges", false, "also remove edges attached to removed nodes")

	return cmd
}

// removals resolves ids to node and edge removal changes. Every id must
// name an existing node or edge.
func removals(s *store.Store, ids []string, withEdges bool) ([]store.NodeChange, []store.EdgeChange, error) {
	var nodes []store.NodeChange
	var edges []store.EdgeChange
	removedNodes := make(map[string]bool)
	removedEdges := make(map[string]bool)
	for _, id := range ids {
		if _, ok := s.Node(id); ok {
			if !removedNodes[id] {
				nodes = append(nodes, store.NodeChange{Kind: store.ChangeRemove, ID: id})
				removedNodes[id] = true
			}
			continue
		}
		if _, ok := s.Edge(id); ok {
			if !removedEdges[id] {
				edges = append(edges, store.EdgeChange{Kind: store.ChangeRemove, ID: id})
				removedEdges[id] = true
			}
			continue
		}
		return nil, nil, errors.New(errors.ErrCodeNotFound, "no node or edge %q", id)
	}
	if withEdges {
		for _, e := range s.Snapshot().Edges {
			if removedEdges[e.ID] {
				continue
			}
			if removedNodes[e.Source] || removedNodes[e.Target] {
				edges = append(edges, store.EdgeChange{Kind: store.ChangeRemove, ID: e.ID})
				removedEdges[e.ID] = true
			}
		}
	}
	return nodes, edges, nil
}
