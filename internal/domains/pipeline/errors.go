package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAudio        = errors.New("invalid audio file")
	ErrChunkTooLarge       = errors.New("chunk exceeds maximum size")
	ErrInvalidChunkIndex   = errors.New("chunk index must be >= 0")
	ErrNoSpeech            = errors.New("no speech detected")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

var stageMessages = map[Stage]string{
	StageValidation:      "invalid audio file",
	StageTranscription:   "speech-to-text transcription failed",
	StageEmotion:         "emotion detection failed",
	StageTranslation:     "text translation failed",
	StageAudioGeneration: "text-to-speech generation failed",
	StageStorage:         "storing chunk failed",
}

// StageError is a fatal failure raised at a stage boundary.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	msg, ok := stageMessages[e.Stage]
	if !ok {
		msg = string(e.Stage) + " failed"
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// IsClientError reports whether err is the caller's fault rather than a stage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAudio) ||
		errors.Is(err, ErrChunkTooLarge) ||
		errors.Is(err, ErrInvalidChunkIndex) ||
		errors.Is(err, ErrNoSpeech) ||
		errors.Is(err, ErrUnsupportedLanguage)
}
