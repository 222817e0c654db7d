package pipeline

import (
	"github.com/xpanvictor/emovox/internal/domains/emotion"
	"github.com/xpanvictor/emovox/pkg/io/audio"
)

type ClipResult struct {
	OriginalText     string
	OriginalLanguage string // display name
	SourceLanguage   string // 2-letter code
	TranslatedText   string
	TargetLanguage   string
	Emotion          emotion.Result
	EmotionStatus    OutcomeStatus
	Audio            []byte
	Stages           []StageReport
	ProcessingTime   float64 // seconds
}

type ChunkInput struct {
	Clip       audio.Blob
	ChunkIndex int
	IsFinal    bool
}

type ChunkResult struct {
	ChunkIndex     int
	IsFinal        bool
	Transcription  string
	SourceLanguage string
	TranslatedText string
	TargetLanguage string
	Emotion        emotion.Result
	EmotionStatus  OutcomeStatus
	Audio          []byte
	Stages         []StageReport
	ProcessingTime float64
}

type PreprocessInput struct {
	Clip       audio.Blob
	ChunkIndex int
	IsFinal    bool
	SessionID  string // minted when empty
}

type PreprocessResult struct {
	SessionID      string
	ChunkIndex     int
	IsFinal        bool
	Transcription  string
	SourceLanguage string
	TranslatedText string
	TargetLanguage string
	Emotion        emotion.Result
	EmotionStatus  OutcomeStatus
	Stages         []StageReport
	ProcessingTime float64
}

type GenerateResult struct {
	SessionID      string
	ChunkIndex     int
	Audio          []byte
	Emotion        emotion.Label
	TargetLanguage string
	ProcessingTime float64
}
