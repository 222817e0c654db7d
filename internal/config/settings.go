package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr                   string `mapstructure:"addr"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

type RedisConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Addr            string `mapstructure:"addr"`
	Pass            string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

func (r RedisConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

type AudioConfig struct {
	MaxAudioSizeMB      int      `mapstructure:"max_audio_size_mb"`
	MaxChunkSizeMB      int      `mapstructure:"max_chunk_size_mb"`
	SupportedFormats    []string `mapstructure:"supported_formats"`
	FFmpegPath          string   `mapstructure:"ffmpeg_path"`
	NormalizeSampleRate int      `mapstructure:"normalize_sample_rate"`
}

func (a AudioConfig) MaxAudioBytes() int64 { return int64(a.MaxAudioSizeMB) * 1024 * 1024 }
func (a AudioConfig) MaxChunkBytes() int64 { return int64(a.MaxChunkSizeMB) * 1024 * 1024 }

type SessionConfig struct {
	Backend      string `mapstructure:"backend"`
	TTLMinutes   int    `mapstructure:"ttl_minutes"`
	SweepSeconds int    `mapstructure:"sweep_seconds"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

func (s SessionConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepSeconds) * time.Second
}

type STTConfig struct {
	Provider         string `mapstructure:"provider"`
	DeepgramAPIKey   string `mapstructure:"deepgram_api_key"`
	DeepgramURL      string `mapstructure:"deepgram_url"`
	DeepgramModel    string `mapstructure:"deepgram_model"`
	WhisperURL       string `mapstructure:"whisper_url"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	RetryAttempts    int    `mapstructure:"retry_attempts"`
	RetryBaseDelayMs int    `mapstructure:"retry_base_delay_ms"`
}

type TranslationConfig struct {
	Provider       string `mapstructure:"provider"`
	DeepLAPIKey    string `mapstructure:"deepl_api_key"`
	DeepLURL       string `mapstructure:"deepl_url"`
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIModel    string `mapstructure:"openai_model"`
	OpenAIBaseURL  string `mapstructure:"openai_base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type TTSConfig struct {
	Provider         string            `mapstructure:"provider"`
	ElevenLabsAPIKey string            `mapstructure:"elevenlabs_api_key"`
	ElevenLabsURL    string            `mapstructure:"elevenlabs_url"`
	VoiceID          string            `mapstructure:"voice_id"`
	ModelID          string            `mapstructure:"model_id"`
	PiperURL         string            `mapstructure:"piper_url"`
	PiperVoices      map[string]string `mapstructure:"piper_voices"`
	TimeoutSeconds   int               `mapstructure:"timeout_seconds"`
}

type FeaturesConfig struct {
	ExtractorURL   string `mapstructure:"extractor_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Settings struct {
	AppName     string            `mapstructure:"app_name"`
	Version     string            `mapstructure:"version"`
	Env         string            `mapstructure:"env"`
	Debug       bool              `mapstructure:"debug"`
	LogLevel    string            `mapstructure:"log_level"`
	Server      ServerConfig      `mapstructure:"server"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Audio       AudioConfig       `mapstructure:"audio"`
	Session     SessionConfig     `mapstructure:"session"`
	STT         STTConfig         `mapstructure:"stt"`
	Translation TranslationConfig `mapstructure:"translation"`
	TTS         TTSConfig         `mapstructure:"tts"`
	Features    FeaturesConfig    `mapstructure:"features"`
}

// legacy variable names still honoured next to the derived SECTION_KEY form
var envAliases = map[string][]string{
	"stt.deepgram_api_key":            {"DEEPGRAM_API_KEY"},
	"stt.deepgram_url":                {"DEEPGRAM_API_URL"},
	"translation.deepl_api_key":       {"DEEPL_API_KEY"},
	"translation.deepl_url":           {"DEEPL_API_URL"},
	"translation.openai_api_key":      {"OPENAI_API_KEY"},
	"tts.elevenlabs_api_key":          {"ELEVENLABS_API_KEY"},
	"tts.elevenlabs_url":              {"ELEVENLABS_API_URL"},
	"tts.voice_id":                    {"ELEVENLABS_VOICE_ID"},
	"tts.model_id":                    {"ELEVENLABS_MODEL_ID"},
	"redis.password":                  {"REDIS_PASSWORD"},
	"redis.cache_ttl_seconds":         {"REDIS_CACHE_TTL"},
	"audio.max_audio_size_mb":         {"MAX_AUDIO_SIZE_MB"},
	"audio.max_chunk_size_mb":         {"MAX_CHUNK_SIZE_MB"},
	"log_level":                       {"LOG_LEVEL"},
	"features.extractor_url":          {"OPENSMILE_URL"},
	"server.shutdown_timeout_seconds": {"SHUTDOWN_TIMEOUT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Speech Translation API")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.shutdown_timeout_seconds", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl_seconds", 3600)

	v.SetDefault("audio.max_audio_size_mb", 50)
	v.SetDefault("audio.max_chunk_size_mb", 10)
	v.SetDefault("audio.supported_formats", []string{".mp3", ".wav", ".m4a", ".flac", ".ogg", ".webm"})
	v.SetDefault("audio.ffmpeg_path", "ffmpeg")
	v.SetDefault("audio.normalize_sample_rate", 16000)

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl_minutes", 30)
	v.SetDefault("session.sweep_seconds", 60)

	v.SetDefault("stt.provider", "deepgram")
	v.SetDefault("stt.deepgram_api_key", "")
	v.SetDefault("stt.deepgram_url", "https://api.deepgram.com/v1/listen")
	v.SetDefault("stt.deepgram_model", "nova-2")
	v.SetDefault("stt.whisper_url", "http://localhost:9000")
	v.SetDefault("stt.timeout_seconds", 30)
	v.SetDefault("stt.retry_attempts", 3)
	v.SetDefault("stt.retry_base_delay_ms", 1000)

	v.SetDefault("translation.provider", "deepl")
	v.SetDefault("translation.deepl_api_key", "")
	v.SetDefault("translation.deepl_url", "https://api-free.deepl.com/v2/translate")
	v.SetDefault("translation.openai_api_key", "")
	v.SetDefault("translation.openai_model", "gpt-4o-mini")
	v.SetDefault("translation.openai_base_url", "")
	v.SetDefault("translation.timeout_seconds", 30)

	v.SetDefault("tts.provider", "elevenlabs")
	v.SetDefault("tts.elevenlabs_api_key", "")
	v.SetDefault("tts.elevenlabs_url", "https://api.elevenlabs.io/v1")
	v.SetDefault("tts.voice_id", "pNInz6obpgDQGcFmaJgB")
	v.SetDefault("tts.model_id", "eleven_multilingual_v2")
	v.SetDefault("tts.piper_url", "http://localhost:5000")
	v.SetDefault("tts.piper_voices", map[string]string{"en": "en_US-lessac-medium", "es": "es_ES-davefx-medium"})
	v.SetDefault("tts.timeout_seconds", 60)

	v.SetDefault("features.extractor_url", "")
	v.SetDefault("features.timeout_seconds", 30)
}

func Load() (*Settings, error) {
	// a missing .env is fine; the process environment still applies
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key, envKey(key)}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	v.SetConfigName("config_" + genEnv(v))
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Validate rejects provider and backend names nothing can be built for.
func (s *Settings) Validate() error {
	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"session.backend", s.Session.Backend, []string{"memory", "redis"}},
		{"stt.provider", s.STT.Provider, []string{"deepgram", "whisper"}},
		{"translation.provider", s.Translation.Provider, []string{"deepl", "openai"}},
		{"tts.provider", s.TTS.Provider, []string{"elevenlabs", "piper"}},
	}
	for _, c := range checks {
		if !contains(c.allowed, strings.ToLower(c.value)) {
			return fmt.Errorf("invalid %s %q (allowed: %s)", c.field, c.value, strings.Join(c.allowed, ", "))
		}
	}
	if s.Session.Backend == "redis" && !s.Redis.Enabled {
		return fmt.Errorf("session.backend redis requires redis.enabled")
	}
	if s.Audio.MaxChunkSizeMB <= 0 || s.Audio.MaxAudioSizeMB <= 0 {
		return fmt.Errorf("audio size limits must be positive")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
