package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/stt"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

const provider = "deepgram"

type listenResponse struct {
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

type Config struct {
	APIKey string
	URL    string
	Model  string
}

// Client calls the prerecorded /v1/listen endpoint with language detection on.
type Client struct {
	cfg        Config
	pool       *transport.Pool
	retry      transport.RetryPolicy
	normalizer audio.Normalizer
	logger     *Logger.Logger
}

func New(cfg Config, pool *transport.Pool, retry transport.RetryPolicy, normalizer audio.Normalizer, logger *Logger.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if normalizer == nil {
		normalizer = audio.Passthrough{}
	}
	return &Client{cfg: cfg, pool: pool, retry: retry, normalizer: normalizer, logger: logger.Named(provider)}
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("detect_language", "true")
	q.Set("model", c.cfg.Model)
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) Transcribe(ctx context.Context, clip audio.Blob) (stt.Result, error) {
	clip, err := c.normalizer.Normalize(ctx, clip)
	if err != nil {
		return stt.Result{}, err
	}
	endpoint, err := c.endpoint()
	if err != nil {
		return stt.Result{}, fmt.Errorf("deepgram url: %w", err)
	}

	var body []byte
	err = transport.Retry(ctx, c.retry, c.pool, c.logger, "deepgram transcribe", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(clip.Data))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Token "+c.cfg.APIKey)
		req.Header.Set("Content-Type", clip.ContentType())
		body, _, err = c.pool.Do(provider, req)
		return err
	})
	if err != nil {
		return stt.Result{}, err
	}

	var parsed listenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return stt.Result{}, fmt.Errorf("decode deepgram response: %w", err)
	}
	channels := parsed.Results.Channels
	if len(channels) == 0 || len(channels[0].Alternatives) == 0 {
		return stt.Result{}, stt.ErrNoResults
	}

	code := stt.NormalizeCode(channels[0].DetectedLanguage)
	res := stt.Result{
		Text:         channels[0].Alternatives[0].Transcript,
		Language:     stt.LanguageName(code),
		LanguageCode: code,
	}
	c.logger.Infof("transcribed %d bytes, language %s (%s), %d chars", len(clip.Data), res.Language, res.LanguageCode, len(res.Text))
	return res, nil
}
