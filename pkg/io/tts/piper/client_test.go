package piper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/transport"
	"github.com/xpanvictor/emovox/pkg/io/tts"
)

func TestPiperPicksVoicePerLanguage(t *testing.T) {
	var gotVoice string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVoice = r.URL.Query().Get("voice")
		w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	voices := map[string]string{"en": "en_US-lessac-medium", "es": "es_ES-davefx-medium"}
	p := New(srv.URL, voices, transport.NewPoolWithClient(srv.Client()), Logger.NewNop())

	if _, err := p.Synthesize(context.Background(), tts.Request{Text: "hola", Language: "es"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotVoice != "es_ES-davefx-medium" {
		t.Errorf("unexpected voice %q", gotVoice)
	}

	p.Synthesize(context.Background(), tts.Request{Text: "salut", Language: "fr"})
	if gotVoice != "en_US-lessac-medium" {
		t.Errorf("expected english fallback, got %q", gotVoice)
	}
}
