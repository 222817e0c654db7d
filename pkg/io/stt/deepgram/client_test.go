package deepgram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/stt"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

func noWait() transport.RetryPolicy {
	return transport.RetryPolicy{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		Sleep:     func(context.Context, time.Duration) error { return nil },
	}
}

func wavClip() audio.Blob {
	return audio.Blob{Data: audio.EncodeWAV(make([]byte, 32), audio.DefaultPCM), MIMEType: "audio/wav"}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token secret" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		q := r.URL.Query()
		if q.Get("detect_language") != "true" || q.Get("model") != "nova-2" {
			t.Errorf("unexpected query %v", q)
		}
		if b, _ := io.ReadAll(r.Body); len(b) == 0 {
			t.Error("expected audio body")
		}
		w.Write([]byte(`{"results":{"channels":[{"detected_language":"es-419","alternatives":[{"transcript":"hola mundo"}]}]}}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "secret", URL: srv.URL}, transport.NewPoolWithClient(srv.Client()), noWait(), nil, Logger.NewNop())
	res, err := c.Transcribe(context.Background(), wavClip())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "hola mundo" || res.LanguageCode != "es" || res.Language != "Spanish" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestTranscribeEmptyTranscriptIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":""}]}]}}`))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL}, transport.NewPoolWithClient(srv.Client()), noWait(), nil, Logger.NewNop())
	res, err := c.Transcribe(context.Background(), wavClip())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "" || res.LanguageCode != "en" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestTranscribeNoChannels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"channels":[]}}`))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL}, transport.NewPoolWithClient(srv.Client()), noWait(), nil, Logger.NewNop())
	if _, err := c.Transcribe(context.Background(), wavClip()); !errors.Is(err, stt.ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestTranscribeStatusErrorIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL}, transport.NewPoolWithClient(srv.Client()), noWait(), nil, Logger.NewNop())
	_, err := c.Transcribe(context.Background(), wavClip())
	if !transport.IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected a single request, got %d", hits)
	}
}

func TestTranscribeRetriesDroppedConnections(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL}, transport.NewPoolWithClient(srv.Client()), noWait(), nil, Logger.NewNop())
	_, err := c.Transcribe(context.Background(), wavClip())
	if !errors.Is(err, transport.ErrConnectionFailed) {
		t.Fatalf("expected ErrConnectionFailed, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Errorf("expected 3 attempts, got %d", hits)
	}
}
