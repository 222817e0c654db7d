package emotion

import (
	"context"
	"maps"

	"github.com/xpanvictor/emovox/pkg/io/audio"
)

type Label string

const (
	Neutral   Label = "neutral"
	Happy     Label = "happy"
	Sad       Label = "sad"
	Angry     Label = "angry"
	Surprised Label = "surprised"
)

// Labels lists every label a detector may return.
var Labels = []Label{Happy, Sad, Angry, Neutral, Surprised}

func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

// FeatureVector holds the four prosodic measurements the classifier reads.
type FeatureVector struct {
	PitchMean    float64 `json:"pitch_mean"`    // semitones from 27.5Hz
	PitchStd     float64 `json:"pitch_std"`     // normalized std-dev
	LoudnessMean float64 `json:"loudness_mean"` // sone-like unit
	LoudnessStd  float64 `json:"loudness_std"`  // normalized std-dev
}

func (v FeatureVector) Attributes() Attributes {
	return Attributes{
		"pitch_mean":    v.PitchMean,
		"pitch_std":     v.PitchStd,
		"loudness_mean": v.LoudnessMean,
		"loudness_std":  v.LoudnessStd,
	}
}

type Attributes map[string]float64

// Clone returns an independent copy; nil stays nil.
func (a Attributes) Clone() Attributes { return maps.Clone(a) }

func (a Attributes) Get(key string, fallback float64) float64 {
	if v, ok := a[key]; ok {
		return v
	}
	return fallback
}

type Result struct {
	Label      Label      `json:"emotion"`
	Attributes Attributes `json:"attributes"`
}

// NeutralDefault is substituted whenever detection fails.
func NeutralDefault() Result {
	return Result{
		Label: Neutral,
		Attributes: Attributes{
			"pitch_mean":    0.5,
			"energy":        0.5,
			"speaking_rate": 0.5,
		},
	}
}

type Detector interface {
	Detect(ctx context.Context, clip audio.Blob) (Result, error)
}
