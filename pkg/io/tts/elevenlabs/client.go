package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/transport"
	"github.com/xpanvictor/emovox/pkg/io/tts"
)

const provider = "elevenlabs"

type Config struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string
}

type speechRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	LanguageCode  string         `json:"language_code,omitempty"`
	VoiceSettings tts.VoiceStyle `json:"voice_settings"`
}

type Client struct {
	cfg    Config
	pool   *transport.Pool
	logger *Logger.Logger
}

func New(cfg Config, pool *transport.Pool, logger *Logger.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, pool: pool, logger: logger.Named(provider)}
}

func (c *Client) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("empty text")
	}

	payload, err := json.Marshal(speechRequest{
		Text:          req.Text,
		ModelID:       c.cfg.ModelID,
		LanguageCode:  req.Language,
		VoiceSettings: req.Style,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.cfg.BaseURL, c.cfg.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("xi-api-key", c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	c.logger.Infof("synthesizing %d chars in %s (model %s, stability %.2f, style %.2f)",
		len(req.Text), req.Language, c.cfg.ModelID, req.Style.Stability, req.Style.Style)
	audio, _, err := c.pool.Do(provider, httpReq)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("synthesized %d bytes", len(audio))
	return audio, nil
}
