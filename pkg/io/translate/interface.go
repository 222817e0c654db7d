package translate

import (
	"context"
	"errors"
	"strings"
)

var ErrNoTranslation = errors.New("translation returned no text")

type Request struct {
	Text   string
	Source string // 2-letter code
	Target string // 2-letter code
}

// Result always reports bare 2-letter codes, whatever variant went over the wire.
type Result struct {
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}

// BaseCode turns "EN-US" or "pt_br" into "en" / "pt".
func BaseCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return code
}
