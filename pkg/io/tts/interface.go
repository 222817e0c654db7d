package tts

import "context"

// VoiceStyle tunes delivery. All values are in [0,1].
type VoiceStyle struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

var DefaultVoiceStyle = VoiceStyle{Stability: 0.5, SimilarityBoost: 0.75, Style: 0.0, UseSpeakerBoost: true}

type Request struct {
	Text     string
	Language string // 2-letter target code
	Style    VoiceStyle
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}
