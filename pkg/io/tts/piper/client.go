package piper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/transport"
	"github.com/xpanvictor/emovox/pkg/io/tts"
)

const provider = "piper"

// Piper talks to a wyoming-piper style HTTP server. Voice style is not
// supported there; only the voice per language is chosen.
type Piper struct {
	BaseURL string            // e.g. "http://tts:5000"
	Voices  map[string]string // language code -> voice name
	pool    *transport.Pool
	logger  *Logger.Logger
}

func New(baseURL string, voices map[string]string, pool *transport.Pool, logger *Logger.Logger) *Piper {
	return &Piper{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Voices:  voices,
		pool:    pool,
		logger:  logger.Named(provider),
	}
}

func (p *Piper) voiceFor(lang string) string {
	if v, ok := p.Voices[lang]; ok {
		return v
	}
	return p.Voices["en"]
}

func (p *Piper) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("empty text")
	}

	// GET /api/text-to-speech?text=...&voice=... streams a WAV body
	u, err := url.Parse(p.BaseURL + "/api/text-to-speech")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("text", req.Text)
	if voice := p.voiceFor(req.Language); voice != "" {
		q.Set("voice", voice)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "audio/wav")

	audio, _, err := p.pool.Do(provider, httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts http request failed: %w", err)
	}
	p.logger.Debugf("piper synthesized %d bytes for %s", len(audio), req.Language)
	return audio, nil
}
