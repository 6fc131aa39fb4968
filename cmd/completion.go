package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `Generate shell completion scripts for raptar.

The completion script provides intelligent tab completion for commands, flags,
and configuration keys.

Installation instructions:

Bash:
  # Linux:
  raptar completion bash | sudo tee /etc/bash_completion.d/raptar > /dev/null

  # macOS:
  raptar completion bash | sudo tee /usr/local/etc/bash_completion.d/raptar > /dev/null

Zsh:
  # Add to ~/.zshrc:
  autoload -U compinit; compinit
  source <(raptar completion zsh)

  # Or generate to file:
  raptar completion zsh > "${fpath[1]}/_raptar"

Fish:
  raptar completion fish | source

  # Or generate to file:
  raptar completion fish > ~/.config/fish/completions/raptar.fish

PowerShell:
  # Add to PowerShell profile:
  raptar completion powershell | Out-String | Invoke-Expression

After installing completion, restart your shell or source the completion file.`,

	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := args[0]

		switch shell {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("unsupported shell: %s", shell)
		}
	},
}

// configKeyCompletion completes the config key argument of "config set".
func configKeyCompletion(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	configKeys := []string{
		"ignore.use\tAdditional ignore files to load at config_use priority",
		"ignore.always-exclude\tPatterns always excluded",
		"ignore.always-include\tPatterns always included",
		"ignore.without-ignorefile-names\tIgnore-file basenames to stop honoring",
		"ignore.without-ignorefiles\tIgnore file paths (stored, not applied)",
		"defaults.format\tArchive format (tar/zip)",
		"defaults.compression\tTar compression (none/gzip/bzip2/zstd)",
		"defaults.reproducible\tByte-identical output (true/false)",
		"defaults.dereference\tFollow symlinks (true/false)",
		"defaults.max-file-size\tFile size limit (stored, not applied)",
	}

	return configKeys, cobra.ShellCompDirectiveNoFileComp
}

// configValueCompletion completes the value argument of "config set" for
// keys with a closed enumeration.
func configValueCompletion(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	switch args[0] {
	case "defaults.reproducible", "defaults.dereference":
		return []string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp
	case "defaults.format":
		return []string{"tar", "zip"}, cobra.ShellCompDirectiveNoFileComp
	case "defaults.compression":
		return []string{"none", "gzip", "bzip2", "zstd"}, cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func init() {
	if configSetCmd != nil {
		configSetCmd.ValidArgsFunction = func(
			cmd *cobra.Command,
			args []string,
			toComplete string,
		) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return configKeyCompletion(cmd, args, toComplete)
			}
			if len(args) == 1 {
				return configValueCompletion(cmd, args, toComplete)
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}

	rootCmd.AddCommand(completionCmd)
}
