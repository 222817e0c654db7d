package emotion

import (
	"fmt"
	"strings"

	"github.com/xpanvictor/emovox/pkg/Logger"
)

// Rule adds Weight to Label when When holds. Rules sharing a Tier are
// exclusive: only the first one that fires in a tier counts.
type Rule struct {
	Name   string
	Label  Label
	Weight int
	Tier   string
	When   func(v FeatureVector) bool
	Why    func(v FeatureVector) string
}

func between(x, lo, hi float64) bool { return x >= lo && x <= hi }

func happyBand(v FeatureVector) bool { return between(v.PitchMean, 28.0, 36.0) }

// Rules is evaluated in order. Thresholds are tuned constants; keep them literal.
var Rules = []Rule{
	{
		Name: "happy_expressive", Label: Happy, Weight: 6, Tier: "happy",
		When: func(v FeatureVector) bool { return happyBand(v) && v.PitchStd > 0.30 },
		Why: func(v FeatureVector) string {
			return fmt.Sprintf("pleasant pitch %.1f with strong variation %.2f", v.PitchMean, v.PitchStd)
		},
	},
	{
		Name: "happy_balanced", Label: Happy, Weight: 5, Tier: "happy",
		When: func(v FeatureVector) bool {
			return happyBand(v) && v.PitchStd > 0.22 &&
				between(v.LoudnessMean, 0.8, 1.3) && between(v.LoudnessStd, 0.85, 1.3)
		},
		Why: func(v FeatureVector) string {
			return fmt.Sprintf("pleasant pitch %.1f, moderate variation %.2f, good energy %.2f (var %.2f)",
				v.PitchMean, v.PitchStd, v.LoudnessMean, v.LoudnessStd)
		},
	},
	{
		Name: "happy_excited", Label: Happy, Weight: 4, Tier: "happy",
		When: func(v FeatureVector) bool {
			return happyBand(v) && v.PitchMean >= 30.0 && v.LoudnessMean >= 1.0 && v.LoudnessStd >= 0.75
		},
		Why: func(v FeatureVector) string {
			return fmt.Sprintf("excited voice: pitch %.1f, loudness %.2f, dynamics %.2f", v.PitchMean, v.LoudnessMean, v.LoudnessStd)
		},
	},
	{
		Name: "angry_pitch_extreme", Label: Angry, Weight: 5, Tier: "angry_pitch",
		When: func(v FeatureVector) bool { return v.PitchMean > 37 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("extremely high pitch %.1f", v.PitchMean) },
	},
	{
		Name: "angry_pitch_high", Label: Angry, Weight: 3, Tier: "angry_pitch",
		When: func(v FeatureVector) bool { return v.PitchMean > 35 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("very high pitch %.1f", v.PitchMean) },
	},
	{
		Name: "angry_loud_extreme", Label: Angry, Weight: 4, Tier: "angry_loudness",
		When: func(v FeatureVector) bool { return v.LoudnessMean > 1.4 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("very loud %.2f", v.LoudnessMean) },
	},
	{
		Name: "angry_loud", Label: Angry, Weight: 2, Tier: "angry_loudness",
		When: func(v FeatureVector) bool { return v.LoudnessMean > 1.2 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("loud %.2f", v.LoudnessMean) },
	},
	{
		Name: "angry_agitated", Label: Angry, Weight: 2,
		When: func(v FeatureVector) bool { return v.LoudnessStd > 1.1 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("high energy variation %.2f", v.LoudnessStd) },
	},
	{
		Name: "angry_tense", Label: Angry, Weight: 2,
		When: func(v FeatureVector) bool { return v.PitchStd < 0.2 && v.PitchMean > 30 },
		Why: func(v FeatureVector) string {
			return fmt.Sprintf("tense voice: variation %.2f at pitch %.1f", v.PitchStd, v.PitchMean)
		},
	},
	{
		Name: "sad_low_pitch", Label: Sad, Weight: 4,
		When: func(v FeatureVector) bool { return v.PitchMean < 25 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("very low pitch %.1f", v.PitchMean) },
	},
	{
		Name: "sad_monotone", Label: Sad, Weight: 3,
		When: func(v FeatureVector) bool { return v.PitchStd < 0.18 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("flat pitch variation %.2f", v.PitchStd) },
	},
	{
		Name: "sad_quiet", Label: Sad, Weight: 4,
		When: func(v FeatureVector) bool { return v.LoudnessMean < 0.4 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("very low energy %.2f", v.LoudnessMean) },
	},
	{
		Name: "sad_flat_dynamics", Label: Sad, Weight: 2,
		When: func(v FeatureVector) bool { return v.LoudnessStd < 0.7 },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("flat energy dynamics %.2f", v.LoudnessStd) },
	},
	{
		Name: "neutral_pitch", Label: Neutral, Weight: 2,
		When: func(v FeatureVector) bool { return between(v.PitchMean, 26, 32) },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("normal pitch range %.1f", v.PitchMean) },
	},
	{
		Name: "neutral_loudness", Label: Neutral, Weight: 2,
		When: func(v FeatureVector) bool { return between(v.LoudnessMean, 0.3, 1.0) },
		Why:  func(v FeatureVector) string { return fmt.Sprintf("normal loudness %.2f", v.LoudnessMean) },
	},
}

// scoreOrder also breaks ties: the first label holding the maximum wins.
var scoreOrder = []Label{Neutral, Happy, Sad, Angry}

type FiredRule struct {
	Name   string
	Label  Label
	Weight int
	Reason string
}

type Scores map[Label]int

type Decision struct {
	Label      Label
	Scores     Scores
	Fired      []FiredRule
	MaxScore   int
	Overridden bool
	Reason     string
}

// Score runs the rule set against v. It is pure.
func Score(v FeatureVector) Decision {
	scores := Scores{}
	for _, l := range scoreOrder {
		scores[l] = 0
	}

	var fired []FiredRule
	tiers := map[string]bool{}
	for _, r := range Rules {
		if r.Tier != "" && tiers[r.Tier] {
			continue
		}
		if !r.When(v) {
			continue
		}
		if r.Tier != "" {
			tiers[r.Tier] = true
		}
		scores[r.Label] += r.Weight
		fired = append(fired, FiredRule{Name: r.Name, Label: r.Label, Weight: r.Weight, Reason: r.Why(v)})
	}

	d := Decision{Scores: scores, Fired: fired}
	for _, l := range scoreOrder {
		if scores[l] > d.MaxScore {
			d.MaxScore = scores[l]
			d.Label = l
		}
	}
	if d.MaxScore == 0 {
		d.Label = Neutral
		d.Reason = "no clear indicators"
		return d
	}
	d.Reason = fmt.Sprintf("score %d", d.MaxScore)

	if borderlineSad(d, v) {
		d.Label = Neutral
		d.Overridden = true
		d.Reason = "borderline low-pitch, low-energy speech treated as neutral"
	} else if d.Label == Neutral {
		d.Reason = fmt.Sprintf("tie-broken from scores (score %d)", d.MaxScore)
	}
	return d
}

// borderlineSad keeps ordinary quiet or low-pitched speech from being labelled sad.
func borderlineSad(d Decision, v FeatureVector) bool {
	sad := d.Scores[Sad]
	return d.Label == Sad &&
		sad <= 5 &&
		sad-d.Scores[Neutral] <= 3 &&
		between(v.PitchMean, 24.5, 28.5) &&
		between(v.LoudnessMean, 0.35, 0.9) &&
		between(v.LoudnessStd, 0.7, 1.1)
}

func (d Decision) String() string {
	parts := make([]string, 0, len(scoreOrder))
	for _, l := range scoreOrder {
		parts = append(parts, fmt.Sprintf("%s=%d", l, d.Scores[l]))
	}
	return fmt.Sprintf("%s (%s) [%s]", d.Label, d.Reason, strings.Join(parts, " "))
}

type Classifier struct {
	logger *Logger.Logger
}

func NewClassifier(logger *Logger.Logger) *Classifier {
	return &Classifier{logger: logger.Named("classifier")}
}

// Classify scores v and logs each fired rule with the measurement behind it.
func (c *Classifier) Classify(v FeatureVector) Decision {
	d := Score(v)

	c.logger.Infof("classifying pitch=%.2f pitch_std=%.2f loudness=%.2f loudness_std=%.2f",
		v.PitchMean, v.PitchStd, v.LoudnessMean, v.LoudnessStd)
	for _, f := range d.Fired {
		c.logger.Infof("[%s] %s (+%d)", strings.ToUpper(string(f.Label)), f.Reason, f.Weight)
	}
	if d.Overridden {
		c.logger.Infof("[NEUTRAL_OVERRIDE] sad=%d neutral=%d", d.Scores[Sad], d.Scores[Neutral])
	}
	c.logger.Infof("result: %s", d)
	return d
}
