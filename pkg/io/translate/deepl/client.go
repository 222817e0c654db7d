package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/translate"
	"github.com/xpanvictor/emovox/pkg/io/transport"
)

const provider = "deepl"

type translateResponse struct {
	Translations []struct {
		Text                   string `json:"text"`
		DetectedSourceLanguage string `json:"detected_source_language"`
	} `json:"translations"`
}

type Client struct {
	apiKey string
	url    string
	pool   *transport.Pool
	logger *Logger.Logger
}

func New(apiKey, endpoint string, pool *transport.Pool, logger *Logger.Logger) *Client {
	return &Client{apiKey: apiKey, url: endpoint, pool: pool, logger: logger.Named(provider)}
}

// SourceCode is the bare upper-case code DeepL accepts for source_lang.
func SourceCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > 2 {
		code = code[:2]
	}
	return code
}

// TargetCode adds the regional variant DeepL requires for some targets.
func TargetCode(code string) string {
	switch c := SourceCode(code); c {
	case "EN":
		return "EN-US"
	case "PT":
		return "PT-BR"
	default:
		return c
	}
}

func (c *Client) Translate(ctx context.Context, req translate.Request) (translate.Result, error) {
	source := SourceCode(req.Source)
	target := TargetCode(req.Target)
	c.logger.Infof("translating %s -> %s (%d chars)", source, target, len(req.Text))

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("source_lang", source)
	form.Set("target_lang", target)
	form.Set("formality", "default")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return translate.Result{}, err
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, _, err := c.pool.Do(provider, httpReq)
	if err != nil {
		if transport.IsAuthError(err) {
			c.logger.Errorf("deepl rejected the API key")
		}
		return translate.Result{}, err
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return translate.Result{}, fmt.Errorf("decode deepl response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return translate.Result{}, translate.ErrNoTranslation
	}

	first := parsed.Translations[0]
	detected := first.DetectedSourceLanguage
	if detected == "" {
		detected = source
	}
	return translate.Result{
		TranslatedText: first.Text,
		SourceLanguage: translate.BaseCode(detected),
		TargetLanguage: translate.BaseCode(target),
	}, nil
}
