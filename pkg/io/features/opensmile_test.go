package features

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

func serve(t *testing.T, body string) *OpenSmile {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functionals" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.FormValue("feature_set") != "eGeMAPSv02" {
			t.Errorf("missing feature_set")
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewOpenSmile(srv.URL, transport.NewPoolWithClient(srv.Client()), nil, Logger.NewNop())
}

func TestFunctionalsWrapped(t *testing.T) {
	o := serve(t, `{"features":{"loudness_sma3_amean":0.7}}`)
	got, err := o.Functionals(context.Background(), audio.Blob{Data: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["loudness_sma3_amean"] != 0.7 {
		t.Errorf("unexpected features %v", got)
	}
}

func TestFunctionalsFlat(t *testing.T) {
	o := serve(t, `{"F0semitoneFrom27.5Hz_sma3nz_amean":29.5}`)
	got, err := o.Functionals(context.Background(), audio.Blob{Data: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["F0semitoneFrom27.5Hz_sma3nz_amean"] != 29.5 {
		t.Errorf("unexpected features %v", got)
	}
}

func TestFunctionalsEmpty(t *testing.T) {
	o := serve(t, `{}`)
	if _, err := o.Functionals(context.Background(), audio.Blob{Data: []byte{1}}); !errors.Is(err, ErrEmptyFeatures) {
		t.Errorf("expected ErrEmptyFeatures, got %v", err)
	}
}
