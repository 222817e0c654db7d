package emotion

import (
	"math"

	"github.com/xpanvictor/emovox/pkg/io/tts"
)

var baseStyles = map[Label]tts.VoiceStyle{
	Neutral:   {Stability: 0.50, SimilarityBoost: 0.75, Style: 0.00, UseSpeakerBoost: true},
	Happy:     {Stability: 0.35, SimilarityBoost: 0.75, Style: 0.60, UseSpeakerBoost: true},
	Sad:       {Stability: 0.70, SimilarityBoost: 0.80, Style: 0.30, UseSpeakerBoost: false},
	Angry:     {Stability: 0.30, SimilarityBoost: 0.80, Style: 0.80, UseSpeakerBoost: true},
	Surprised: {Stability: 0.30, SimilarityBoost: 0.75, Style: 0.70, UseSpeakerBoost: true},
}

// VoiceStyleFor maps a detected emotion onto synthesis settings. Energy pushes
// style up; pitch variability lowers stability. Output is clamped to [0,1].
func VoiceStyleFor(r Result) tts.VoiceStyle {
	s, ok := baseStyles[r.Label]
	if !ok {
		s = tts.DefaultVoiceStyle
	}

	if energy, ok := r.Attributes["energy"]; ok {
		s.Style += (energy - 0.5) * 0.2
	} else if loud, ok := r.Attributes["loudness_mean"]; ok {
		// loudness is centred near 0.8 in ordinary speech
		s.Style += (loud - 0.8) * 0.1
	}
	if pstd, ok := r.Attributes["pitch_std"]; ok {
		s.Stability -= (pstd - 0.2) * 0.2
	}

	s.Stability = clamp01(s.Stability)
	s.SimilarityBoost = clamp01(s.SimilarityBoost)
	s.Style = clamp01(s.Style)
	return s
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
