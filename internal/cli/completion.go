package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineageflow/pkg/editor"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lineageflow.

To load completions:

Bash:
  $ source <(lineageflow completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ lineageflow completion bash > /etc/bash_completion.d/lineageflow
  # macOS:
  $ lineageflow completion bash > $(brew --prefix)/etc/bash_completion.d/lineageflow

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ lineageflow completion zsh > "${fpath[1]}/_lineageflow"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ lineageflow completion fish | source

  # To load completions for each session, execute once:
  $ lineageflow completion fish > ~/.config/fish/completions/lineageflow.fish

PowerShell:
  PS> lineageflow completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> lineageflow completion powershell > lineageflow.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// idKinds selects which ids completeIDs offers.
type idKinds int

const (
	completeNodes idKinds = 1 << iota
	completeEdges
)

// completeIDs returns a ValidArgsFunction offering node and/or edge ids of
// the saved graph, with labels as descriptions. At most maxArgs positional
// arguments are completed; maxArgs < 0 means no limit.
func (c *CLI) completeIDs(kinds idKinds, maxArgs int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if maxArgs >= 0 && len(args) >= maxArgs {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		// Completion skips the root PersistentPreRunE.
		if err := c.loadConfig(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []string
		err := c.withSession(cmd.Context(), func(s *editor.Session) error {
			g, err := s.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			if kinds&completeNodes != 0 {
				for _, n := range g.Nodes {
					out = append(out, n.ID+"\t"+n.Data.Label)
				}
			}
			if kinds&completeEdges != 0 {
				for _, e := range g.Edges {
					out = append(out, e.ID+"\t"+e.Source+" "+iconArrow+" "+e.Target)
				}
			}
			return nil
		})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
