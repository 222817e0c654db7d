package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/xpanvictor/emovox/pkg/Logger"
)

var mimeToFormat = map[string]string{
	"audio/webm":  "webm",
	"audio/mp3":   "mp3",
	"audio/mpeg":  "mp3",
	"audio/m4a":   "m4a",
	"audio/x-m4a": "m4a",
	"audio/mp4":   "mp4",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/wave":  "wav",
	"audio/flac":  "flac",
	"audio/ogg":   "ogg",
}

// FormatFor maps a MIME type to an ffmpeg demuxer name, "" when unknown.
func FormatFor(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	return mimeToFormat[mime]
}

// Normalizer converts arbitrary encoded audio into 16-bit mono WAV.
type Normalizer interface {
	Normalize(ctx context.Context, b Blob) (Blob, error)
}

type FFmpeg struct {
	Path       string
	SampleRate int
	logger     *Logger.Logger
}

func NewFFmpeg(path string, sampleRate int, logger *Logger.Logger) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	if sampleRate == 0 {
		sampleRate = DefaultPCM.SampleRate
	}
	return &FFmpeg{Path: path, SampleRate: sampleRate, logger: logger}
}

func (f *FFmpeg) Args(inputFormat string) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if inputFormat != "" {
		args = append(args, "-f", inputFormat)
	}
	return append(args,
		"-i", "pipe:0",
		"-ar", strconv.Itoa(f.SampleRate),
		"-ac", "1",
		"-sample_fmt", "s16",
		"-f", "wav",
		"pipe:1",
	)
}

// Normalize is a no-op for WAV input.
func (f *FFmpeg) Normalize(ctx context.Context, b Blob) (Blob, error) {
	if b.IsWAV() {
		return b, nil
	}

	format := FormatFor(b.ContentType())
	cmd := exec.CommandContext(ctx, f.Path, f.Args(format)...)
	cmd.Stdin = bytes.NewReader(b.Data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Blob{}, fmt.Errorf("ffmpeg conversion from %q failed: %w: %s", format, err, strings.TrimSpace(stderr.String()))
	}
	f.logger.Debugf("normalized %d bytes of %s into %d bytes of wav", len(b.Data), b.ContentType(), stdout.Len())

	return Blob{Data: stdout.Bytes(), MIMEType: "audio/wav", Filename: replaceExt(b.Filename, ".wav")}, nil
}

func replaceExt(name, ext string) string {
	if name == "" {
		return "audio" + ext
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i] + ext
	}
	return name + ext
}

// Passthrough leaves audio untouched; used when ffmpeg is not installed.
type Passthrough struct{}

func (Passthrough) Normalize(_ context.Context, b Blob) (Blob, error) { return b, nil }
