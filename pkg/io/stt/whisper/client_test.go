package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

func newClient(srv *httptest.Server) *WhisperClient {
	policy := transport.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}
	return NewWhisperClient(srv.URL, transport.NewPoolWithClient(srv.Client()), policy, nil, Logger.NewNop())
}

func TestWhisperTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asr" || r.URL.Query().Get("language") != "" {
			t.Errorf("unexpected request %s", r.URL)
		}
		file, header, err := r.FormFile("audio_file")
		if err != nil {
			t.Errorf("missing audio_file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file.Close()
		if header.Filename != "clip.wav" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		w.Write([]byte(`{"text":" good morning ","language":"en"}`))
	}))
	defer srv.Close()

	clip := audio.Blob{Data: audio.EncodeWAV(make([]byte, 16), audio.DefaultPCM), Filename: "clip.wav"}
	res, err := newClient(srv).Transcribe(context.Background(), clip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "good morning" || res.LanguageCode != "en" || res.Language != "English" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestWhisperPlainTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("buenos dias"))
	}))
	defer srv.Close()

	res, err := newClient(srv).Transcribe(context.Background(), audio.Blob{Data: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "buenos dias" || res.LanguageCode != "en" {
		t.Errorf("unexpected result %+v", res)
	}
}
