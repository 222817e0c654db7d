package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/translate"
)

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"pt": "Portuguese",
	"fr": "French",
	"de": "German",
}

func nameOf(code string) string {
	if n, ok := languageNames[code]; ok {
		return n
	}
	return code
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client translates through an OpenAI-compatible chat completion model.
type Client struct {
	client openai.Client
	model  string
	logger *Logger.Logger
}

func New(cfg Config, httpClient *http.Client, logger *Logger.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	return &Client{client: openai.NewClient(opts...), model: model, logger: logger.Named("llm-translate")}
}

func systemPrompt(source, target string) string {
	return fmt.Sprintf(
		"You are a professional interpreter. Translate the user's %s text into %s. "+
			"Keep the tone and register. Reply with the translation only, no quotes or notes.",
		nameOf(source), nameOf(target))
}

func (c *Client) Translate(ctx context.Context, req translate.Request) (translate.Result, error) {
	source := translate.BaseCode(req.Source)
	target := translate.BaseCode(req.Target)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(source, target)),
			openai.UserMessage(req.Text),
		},
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return translate.Result{}, fmt.Errorf("llm translation %s -> %s: %w", source, target, err)
	}
	if len(completion.Choices) == 0 {
		return translate.Result{}, translate.ErrNoTranslation
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	c.logger.Debugf("translated %s -> %s with %s: %d chars", source, target, c.model, len(text))
	return translate.Result{TranslatedText: text, SourceLanguage: source, TargetLanguage: target}, nil
}
