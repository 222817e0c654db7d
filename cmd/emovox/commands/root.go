package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xpanvictor/emovox/internal/config"
	"github.com/xpanvictor/emovox/pkg/Logger"
)

var (
	verbose bool
	asJSON  bool
)

var rootCmd = &cobra.Command{
	Use:           "emovox",
	Short:         "Emotion-aware speech translation",
	Long:          "Translate spoken English and Spanish, resynthesizing speech with the speaker's emotion.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(processCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func loadSettings() (*config.Settings, *Logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, Logger.BuildLogger(cfg.Debug || verbose, cfg.LogLevel), nil
}

// cliLogger stays quiet unless --verbose is set.
func cliLogger() *Logger.Logger {
	if verbose {
		return Logger.New(true)
	}
	return Logger.NewNop()
}

func printVerbose(w io.Writer, format string, args ...any) {
	if verbose {
		fmt.Fprintf(w, "[verbose] "+format+"\n", args...)
	}
}
