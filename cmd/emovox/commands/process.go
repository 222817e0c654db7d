package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/xpanvictor/emovox/internal/app"
	"github.com/xpanvictor/emovox/pkg/io/audio"
)

var processOutput string

var processCmd = &cobra.Command{
	Use:   "process <audio-file>",
	Short: "Run the full-clip workflow on a local file",
	Long: `Run the full-clip workflow on a local file.

The clip is transcribed, its emotion detected, the text translated and the
translation resynthesized with the same providers the server uses.

Examples:
  emovox process hello.wav
  emovox process hola.mp3 -o hello.mp3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer logger.Sync()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read audio file: %w", err)
		}
		clip := audio.Blob{
			Data:     data,
			MIMEType: mimetype.Detect(data).String(),
			Filename: filepath.Base(args[0]),
		}
		printVerbose(cmd.ErrOrStderr(), "read %d bytes (%s)", clip.Size(), clip.MIMEType)

		application, err := app.Bootstrap(cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		timeout := time.Duration(cfg.STT.TimeoutSeconds+cfg.Translation.TimeoutSeconds+cfg.TTS.TimeoutSeconds) * time.Second
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		res, err := application.Pipeline.ProcessClip(ctx, clip)
		if err != nil {
			return err
		}

		outPath, err := writeSynthesized(args[0], processOutput, res.TargetLanguage, res.Audio)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"original_text":     res.OriginalText,
				"source_language":   res.SourceLanguage,
				"translated_text":   res.TranslatedText,
				"target_language":   res.TargetLanguage,
				"emotion":           res.Emotion,
				"emotion_status":    res.EmotionStatus,
				"stages":            res.Stages,
				"processing_time_s": res.ProcessingTime,
				"output":            outPath,
			})
		}

		fmt.Fprintf(out, "heard (%s): %s\n", res.OriginalLanguage, res.OriginalText)
		fmt.Fprintf(out, "said  (%s): %s\n", res.TargetLanguage, res.TranslatedText)
		fmt.Fprintf(out, "emotion:    %s (%s)\n", res.Emotion.Label, res.EmotionStatus)
		for _, s := range res.Stages {
			line := fmt.Sprintf("  %-17s %-9s %.2fs", s.Stage, s.Status, s.Duration)
			if s.Error != "" {
				line += "  " + s.Error
			}
			fmt.Fprintln(out, line)
		}
		if outPath != "" {
			fmt.Fprintf(out, "wrote %d bytes to %s\n", len(res.Audio), outPath)
		} else {
			fmt.Fprintln(out, "no speech detected, nothing written")
		}
		fmt.Fprintf(out, "took %.2fs\n", res.ProcessingTime)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output audio path (default <input>_<lang> with the synthesized extension)")
}

// writeSynthesized stores audio at out, or next to input with an extension
// matching the synthesized container. Nothing is written for empty audio and
// the returned path is empty then.
func writeSynthesized(input, out, lang string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if out == "" {
		ext := mimetype.Detect(data).Extension()
		if ext == "" {
			ext = ".mp3"
		}
		out = strings.TrimSuffix(input, filepath.Ext(input)) + "_" + lang + ext
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return out, nil
}
