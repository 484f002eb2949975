package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dlvis/pkg/pipeline"
)

// pinNames are the values --pin accepts.
var pinNames = []string{"left", "right", "top", "bottom", pipeline.PinNone}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dlvis.

Besides subcommand names and flags, the scripts complete:

  layout, render, validate, fmt   network descriptions (*.toml files)
  --format                        svg, tikz, png, pdf, dot, json
  --pin                           left, right, top, bottom, none

Both --format and --pin take comma-separated lists and keep completing after
each comma, e.g. "dlvis render net.toml --format svg,<TAB>".

To try completions in the current shell:

  $ source <(dlvis completion bash)
  $ dlvis completion fish | source
  PS> dlvis completion powershell | Out-String | Invoke-Expression

To install them permanently:

  $ dlvis completion bash > /etc/bash_completion.d/dlvis
  $ dlvis completion zsh > "${fpath[1]}/_dlvis"
  $ dlvis completion fish > ~/.config/fish/completions/dlvis.fish

Zsh needs "autoload -U compinit; compinit" in ~/.zshrc, and a new shell.
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

// registerCompletions attaches argument and flag completions to the
// commands that read network descriptions.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "layout", "render", "validate", "fmt":
			cmd.ValidArgsFunction = completeDescriptions
		}
		if cmd.Flags().Lookup("pin") != nil {
			_ = cmd.RegisterFlagCompletionFunc("pin", completeList(pinNames))
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeList(pipeline.Formats))
		}
	}
}

func completeDescriptions(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeList completes one more element of a comma-separated list,
// skipping values already given.
func completeList(values []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix, given := "", map[string]bool{}
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix = toComplete[:i+1]
			for _, v := range strings.Split(toComplete[:i], ",") {
				given[strings.TrimSpace(v)] = true
			}
		}
		var out []string
		for _, v := range values {
			if !given[v] {
				out = append(out, prefix+v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
