package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xpanvictor/emovox/internal/domains/emotion"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Score a feature vector with the emotion rules",
	Long: `Score a feature vector with the emotion rules.

The four measurements are the eGeMAPSv02 functionals: mean and normalized
deviation of F0 in semitones from 27.5Hz, and of loudness.

Examples:
  emovox classify --pitch 38 --pitch-std 0.15 --loudness 1.5 --loudness-std 1.2
  emovox classify --pitch 25.5 --loudness 0.6 --loudness-std 0.9 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var v emotion.FeatureVector
		var err error
		if v.PitchMean, err = flags.GetFloat64("pitch"); err != nil {
			return err
		}
		if v.PitchStd, err = flags.GetFloat64("pitch-std"); err != nil {
			return err
		}
		if v.LoudnessMean, err = flags.GetFloat64("loudness"); err != nil {
			return err
		}
		if v.LoudnessStd, err = flags.GetFloat64("loudness-std"); err != nil {
			return err
		}

		d := emotion.NewClassifier(cliLogger()).Classify(v)
		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"emotion":    d.Label,
				"scores":     d.Scores,
				"reason":     d.Reason,
				"overridden": d.Overridden,
				"fired":      d.Fired,
				"attributes": v.Attributes(),
			})
		}

		fmt.Fprintf(out, "emotion: %s\n", d.Label)
		fmt.Fprintf(out, "reason:  %s\n", d.Reason)

		labels := make([]string, 0, len(d.Scores))
		for l := range d.Scores {
			labels = append(labels, string(l))
		}
		sort.Strings(labels)
		fmt.Fprintln(out, "scores:")
		for _, l := range labels {
			fmt.Fprintf(out, "  %-8s %d\n", l, d.Scores[emotion.Label(l)])
		}
		if len(d.Fired) > 0 {
			fmt.Fprintln(out, "rules:")
			for _, f := range d.Fired {
				fmt.Fprintf(out, "  +%d %-7s %s (%s)\n", f.Weight, f.Label, f.Name, f.Reason)
			}
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().Float64("pitch", 30, "pitch mean (semitones from 27.5Hz)")
	classifyCmd.Flags().Float64("pitch-std", 0.25, "pitch normalized std deviation")
	classifyCmd.Flags().Float64("loudness", 0.8, "loudness mean")
	classifyCmd.Flags().Float64("loudness-std", 0.8, "loudness normalized std deviation")
}
