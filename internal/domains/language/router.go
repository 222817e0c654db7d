package language

import "strings"

const (
	English = "en"
	Spanish = "es"
)

var names = map[string]string{
	English: "English",
	Spanish: "Spanish",
}

// Normalize reduces any language tag ("es-419", "EN_us") to its lower-case 2-letter base.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) > 2 {
		code = code[:2]
	}
	return code
}

// Target picks the output language: es -> en, en -> es, anything else -> en.
func Target(source string) string {
	switch Normalize(source) {
	case Spanish:
		return English
	case English:
		return Spanish
	default:
		return English
	}
}

func Supported(code string) bool {
	_, ok := names[Normalize(code)]
	return ok
}

// Name returns the display name for a code, English for anything unknown.
func Name(code string) string {
	if n, ok := names[Normalize(code)]; ok {
		return n
	}
	return names[English]
}
