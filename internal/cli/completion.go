package cli

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionGenerator writes the completion script of one shell.
type completionGenerator func(root *cobra.Command, w io.Writer, descriptions bool) error

var completionShells = map[string]completionGenerator{
	"bash": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenBashCompletionV2(w, desc)
	},
	"zsh": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenFishCompletion(w, desc)
	},
	"powershell": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool
	shells := slices.Sorted(maps.Keys(completionShells))

	cmd := &cobra.Command{
		Use:   "completion <" + strings.Join(shells, "|") + ">",
		Short: "Print a shell completion script",
		Long: `Print the completion script of a shell to stdout.

Load it into the running shell:

  bash        source <(brushlink completion bash)
  zsh         source <(brushlink completion zsh)
  fish        brushlink completion fish | source
  powershell  brushlink completion powershell | Out-String | Invoke-Expression

To keep completions across sessions, write the output to the directory your
shell reads completions from, for example
~/.config/fish/completions/brushlink.fish or a file on zsh's $fpath named
_brushlink.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout(), !noDesc)
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit command descriptions from completions")
	return cmd
}
