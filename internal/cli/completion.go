package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell to stdout.

Besides subcommands and flags, the scripts complete section names for
--section, breakpoints for --breakpoint and formats for --format.

  $ source <(tickergrid completion bash)
  $ tickergrid completion zsh > "${fpath[1]}/_tickergrid"
  $ tickergrid completion fish > ~/.config/fish/completions/tickergrid.fish
  PS> tickergrid completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeSections completes --section flags.
func completeSections(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(panel.Sections()))
	for _, s := range panel.Sections() {
		out = append(out, string(s))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeBreakpoints completes --breakpoint flags.
func completeBreakpoints(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, 3)
	for _, bp := range layout.AllBreakpoints() {
		out = append(out, bp.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
