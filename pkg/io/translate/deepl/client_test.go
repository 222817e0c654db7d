package deepl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/translate"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

func TestCodes(t *testing.T) {
	if SourceCode("es-419") != "ES" || TargetCode("en") != "EN-US" || TargetCode("pt") != "PT-BR" || TargetCode("es") != "ES" {
		t.Errorf("unexpected codes %s %s %s %s", SourceCode("es-419"), TargetCode("en"), TargetCode("pt"), TargetCode("es"))
	}
}

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Header.Get("Authorization") != "DeepL-Auth-Key k" {
			t.Errorf("unexpected auth %q", r.Header.Get("Authorization"))
		}
		if r.Form.Get("source_lang") != "ES" || r.Form.Get("target_lang") != "EN-US" || r.Form.Get("text") != "hola" {
			t.Errorf("unexpected form %v", r.Form)
		}
		w.Write([]byte(`{"translations":[{"text":"hello","detected_source_language":"ES"}]}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, transport.NewPoolWithClient(srv.Client()), Logger.NewNop())
	res, err := c.Translate(context.Background(), translate.Request{Text: "hola", Source: "es", Target: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TranslatedText != "hello" || res.SourceLanguage != "es" || res.TargetLanguage != "en" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestTranslateAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New("bad", srv.URL, transport.NewPoolWithClient(srv.Client()), Logger.NewNop())
	_, err := c.Translate(context.Background(), translate.Request{Text: "hi", Source: "en", Target: "es"})
	if !transport.IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}
