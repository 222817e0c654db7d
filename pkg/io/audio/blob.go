package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyAudio        = errors.New("audio is empty")
	ErrTooLarge          = errors.New("audio exceeds size limit")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Blob is an uploaded clip. It is only read and forwarded, never mutated.
type Blob struct {
	Data     []byte
	MIMEType string
	Filename string
}

func (b Blob) Size() int { return len(b.Data) }

// ContentType returns the declared type, falling back to what the bytes sniff as.
func (b Blob) ContentType() string {
	if b.MIMEType != "" && b.MIMEType != "application/octet-stream" {
		return b.MIMEType
	}
	return mimetype.Detect(b.Data).String()
}

func (b Blob) IsWAV() bool {
	return mimetype.Detect(b.Data).Is("audio/wav")
}

// Validator checks a blob against a size ceiling and the allowed extensions.
type Validator struct {
	MaxBytes   int64
	Extensions []string
}

func (v Validator) Validate(b Blob) error {
	if len(b.Data) == 0 {
		return ErrEmptyAudio
	}
	if v.MaxBytes > 0 && int64(len(b.Data)) > v.MaxBytes {
		return fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, len(b.Data), v.MaxBytes)
	}
	if len(v.Extensions) == 0 {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(b.Filename))
	if ext == "" {
		ext = mimetype.Detect(b.Data).Extension()
	}
	for _, allowed := range v.Extensions {
		if ext == allowed {
			return nil
		}
	}
	// the file name may lie; trust the content when it is audio we know
	if detected := mimetype.Detect(b.Data); strings.HasPrefix(detected.String(), "audio/") {
		for _, allowed := range v.Extensions {
			if detected.Extension() == allowed {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(v.Extensions, ", "))
}
