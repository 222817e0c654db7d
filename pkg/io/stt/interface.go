package stt

import (
	"context"
	"errors"
	"strings"

	"github.com/xpanvictor/emovox/pkg/io/audio"
)

var ErrNoResults = errors.New("transcription returned no results")

// Result is a transcript with the detected language. Empty Text is a valid
// answer for silent or inaudible input.
type Result struct {
	Text         string `json:"text"`
	Language     string `json:"language"`      // display name, e.g. "Spanish"
	LanguageCode string `json:"language_code"` // lower-case 2-letter code
}

type Transcriber interface {
	Transcribe(ctx context.Context, clip audio.Blob) (Result, error)
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
}

// NormalizeCode lower-cases a detected tag and keeps its 2-letter base; "" becomes "en".
func NormalizeCode(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return "en"
	}
	if len(tag) > 2 {
		tag = tag[:2]
	}
	return tag
}

func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}
