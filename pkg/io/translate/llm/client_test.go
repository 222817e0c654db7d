package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/translate"
)

func TestTranslateThroughChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Model != "gpt-4o-mini" || len(body.Messages) != 2 {
			t.Errorf("unexpected request %+v", body)
		} else if !strings.Contains(body.Messages[0].Content, "into Spanish") {
			t.Errorf("unexpected system prompt %q", body.Messages[0].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" hola mundo "}}]}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", BaseURL: srv.URL + "/"}, srv.Client(), Logger.NewNop())
	res, err := c.Translate(context.Background(), translate.Request{Text: "hello world", Source: "en", Target: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TranslatedText != "hola mundo" || res.SourceLanguage != "en" || res.TargetLanguage != "es" {
		t.Errorf("unexpected result %+v", res)
	}
}
