package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/xpanvictor/emovox/internal/config"
	"github.com/xpanvictor/emovox/internal/domains/emotion"
	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/features"
	"github.com/xpanvictor/emovox/pkg/io/stt"
	"github.com/xpanvictor/emovox/pkg/io/stt/deepgram"
	"github.com/xpanvictor/emovox/pkg/io/stt/whisper"
	"github.com/xpanvictor/emovox/pkg/io/translate"
	"github.com/xpanvictor/emovox/pkg/io/translate/deepl"
	"github.com/xpanvictor/emovox/pkg/io/translate/llm"
	"github.com/xpanvictor/emovox/pkg/io/transport"
	"github.com/xpanvictor/emovox/pkg/io/tts"
	"github.com/xpanvictor/emovox/pkg/io/tts/elevenlabs"
	"github.com/xpanvictor/emovox/pkg/io/tts/piper"
)

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// ProviderFactory builds the provider clients named in the settings. Each
// concern gets its own connection pool so a reset on one never drops another's
// connections.
type ProviderFactory struct {
	cfg        *config.Settings
	logger     *Logger.Logger
	normalizer audio.Normalizer
}

// NewProviderFactory creates a factory. A nil normalizer means clips are sent as uploaded.
func NewProviderFactory(cfg *config.Settings, normalizer audio.Normalizer, logger *Logger.Logger) *ProviderFactory {
	if normalizer == nil {
		normalizer = audio.Passthrough{}
	}
	return &ProviderFactory{cfg: cfg, logger: logger, normalizer: normalizer}
}

func (f *ProviderFactory) retryPolicy() transport.RetryPolicy {
	policy := transport.DefaultRetryPolicy()
	if f.cfg.STT.RetryAttempts > 0 {
		policy.Attempts = f.cfg.STT.RetryAttempts
	}
	if f.cfg.STT.RetryBaseDelayMs > 0 {
		policy.BaseDelay = time.Duration(f.cfg.STT.RetryBaseDelayMs) * time.Millisecond
	}
	return policy
}

func (f *ProviderFactory) Transcriber() (stt.Transcriber, error) {
	c := f.cfg.STT
	pool := transport.NewPool(seconds(c.TimeoutSeconds))

	switch strings.ToLower(c.Provider) {
	case "deepgram":
		if c.DeepgramAPIKey == "" {
			f.logger.Warn("deepgram api key is empty; transcription requests will be rejected")
		}
		return deepgram.New(deepgram.Config{
			APIKey: c.DeepgramAPIKey,
			URL:    c.DeepgramURL,
			Model:  c.DeepgramModel,
		}, pool, f.retryPolicy(), f.normalizer, f.logger), nil
	case "whisper":
		return whisper.NewWhisperClient(c.WhisperURL, pool, f.retryPolicy(), f.normalizer, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown stt provider %q", c.Provider)
	}
}

func (f *ProviderFactory) Translator() (translate.Translator, error) {
	c := f.cfg.Translation
	pool := transport.NewPool(seconds(c.TimeoutSeconds))

	switch strings.ToLower(c.Provider) {
	case "deepl":
		return deepl.New(c.DeepLAPIKey, c.DeepLURL, pool, f.logger), nil
	case "openai":
		return llm.New(llm.Config{
			APIKey:  c.OpenAIAPIKey,
			Model:   c.OpenAIModel,
			BaseURL: c.OpenAIBaseURL,
		}, pool.Client(), f.logger), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", c.Provider)
	}
}

func (f *ProviderFactory) Synthesizer() (tts.Synthesizer, error) {
	c := f.cfg.TTS
	pool := transport.NewPool(seconds(c.TimeoutSeconds))

	switch strings.ToLower(c.Provider) {
	case "elevenlabs":
		return elevenlabs.New(elevenlabs.Config{
			APIKey:  c.ElevenLabsAPIKey,
			BaseURL: c.ElevenLabsURL,
			VoiceID: c.VoiceID,
			ModelID: c.ModelID,
		}, pool, f.logger), nil
	case "piper":
		return piper.New(c.PiperURL, c.PiperVoices, pool, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown tts provider %q", c.Provider)
	}
}

// Detector uses the acoustic classifier when a feature extractor is configured
// and the deterministic hash detector otherwise.
func (f *ProviderFactory) Detector() emotion.Detector {
	c := f.cfg.Features
	if c.ExtractorURL == "" {
		f.logger.Warn("no feature extractor configured; emotion labels come from the hash detector")
		return emotion.NewHashDetector(f.logger)
	}
	extractor := features.NewOpenSmile(c.ExtractorURL, transport.NewPool(seconds(c.TimeoutSeconds)), f.normalizer, f.logger)
	return emotion.NewAcousticDetector(extractor, emotion.NewClassifier(f.logger), f.logger)
}
