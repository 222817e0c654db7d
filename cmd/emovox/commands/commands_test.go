package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xpanvictor/emovox/pkg/io/audio"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	asJSON = false
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestRoute(t *testing.T) {
	cases := map[string]string{
		"es":    "es -> en",
		"EN":    "en -> es",
		"pt-BR": "pt -> en",
	}
	for code, want := range cases {
		if got := run(t, "route", code); !strings.Contains(got, want) {
			t.Errorf("route %s: got %q, want %q", code, got, want)
		}
	}
	if got := run(t, "route", "fr"); !strings.Contains(got, "unsupported") {
		t.Errorf("expected fr to be flagged unsupported, got %q", got)
	}
}

func TestClassifyAngry(t *testing.T) {
	got := run(t, "classify", "--pitch", "38", "--pitch-std", "0.15", "--loudness", "1.5", "--loudness-std", "1.2")
	if !strings.Contains(got, "emotion: angry") {
		t.Errorf("expected angry, got:\n%s", got)
	}
	if !strings.Contains(got, "rules:") {
		t.Errorf("expected fired rules to be listed, got:\n%s", got)
	}
}

func TestClassifyJSON(t *testing.T) {
	got := run(t, "classify", "--json", "--pitch", "38", "--pitch-std", "0.15", "--loudness", "1.5", "--loudness-std", "1.2")
	var decoded struct {
		Emotion    string             `json:"emotion"`
		Scores     map[string]int     `json:"scores"`
		Attributes map[string]float64 `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", got, err)
	}
	if decoded.Emotion != "angry" || decoded.Attributes["pitch_mean"] != 38 {
		t.Errorf("unexpected decision %+v", decoded)
	}
}

func TestWriteSynthesized(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hola.m4a")

	cases := []struct {
		name string
		out  string
		data []byte
		want string
	}{
		{"wav from piper", "", audio.EncodeWAV(make([]byte, 64), audio.DefaultPCM), filepath.Join(dir, "hola_en.wav")},
		{"mp3 from elevenlabs", "", append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...), filepath.Join(dir, "hola_en.mp3")},
		{"explicit output", filepath.Join(dir, "out.mp3"), []byte("anything"), filepath.Join(dir, "out.mp3")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := writeSynthesized(input, tc.out, "en", tc.data)
			if err != nil {
				t.Fatalf("write: %v", err)
			}
			if got != tc.want {
				t.Errorf("got path %q, want %q", got, tc.want)
			}
			if written, _ := os.ReadFile(got); !bytes.Equal(written, tc.data) {
				t.Errorf("unexpected file contents")
			}
		})
	}
}

func TestWriteSynthesizedSkipsEmptyAudio(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mp3")
	got, err := writeSynthesized("clip.wav", out, "es", nil)
	if err != nil || got != "" {
		t.Fatalf("expected no path and no error, got %q %v", got, err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("expected nothing written, stat err %v", err)
	}
}
