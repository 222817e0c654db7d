package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xpanvictor/emovox/internal/domains/language"
)

var routeCmd = &cobra.Command{
	Use:   "route <language-code>",
	Short: "Show the target language for a source language code",
	Long: `Show the target language for a source language code.

Spanish goes to English, English goes to Spanish, anything else to English.

Examples:
  emovox route es
  emovox route pt-BR`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := language.Normalize(args[0])
		target := language.Target(source)
		supported := "supported"
		if !language.Supported(source) {
			supported = "unsupported for chunk workflows"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %s)\n", source, target, language.Name(target), supported)
		return nil
	},
}
