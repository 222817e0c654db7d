package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"

	"github.com/xpanvictor/emovox/internal/config"
	"github.com/xpanvictor/emovox/internal/database"
	"github.com/xpanvictor/emovox/internal/domains/audiocache"
	"github.com/xpanvictor/emovox/internal/domains/pipeline"
	"github.com/xpanvictor/emovox/internal/domains/session"
	"github.com/xpanvictor/emovox/internal/handlers"
	"github.com/xpanvictor/emovox/internal/server"
	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
)

// App represents the application with all its dependencies
type App struct {
	Config   *config.Settings
	Logger   *Logger.Logger
	RC       *redis.Client // nil when Redis is disabled
	Sessions session.Store
	Cache    audiocache.Cache
	Pipeline *pipeline.Orchestrator

	ServerDeps server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired.
// rc may be nil; the memory session backend and a no-op audio cache are used then.
func NewApp(cfg *config.Settings, logger *Logger.Logger, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		RC:     rc,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) setupDependencies() error {
	// 1. storage
	a.setupStorage()

	// 2. providers
	normalizer := audio.NewFFmpeg(a.Config.Audio.FFmpegPath, a.Config.Audio.NormalizeSampleRate, a.Logger)
	factory := NewProviderFactory(a.Config, normalizer, a.Logger)

	transcriber, err := factory.Transcriber()
	if err != nil {
		return err
	}
	translator, err := factory.Translator()
	if err != nil {
		return err
	}
	synthesizer, err := factory.Synthesizer()
	if err != nil {
		return err
	}

	// 3. pipeline
	a.Pipeline = pipeline.New(pipeline.Deps{
		Transcriber: transcriber,
		Detector:    factory.Detector(),
		Translator:  translator,
		Synthesizer: synthesizer,
		Sessions:    a.Sessions,
		Cache:       a.Cache,
	}, pipeline.Limits{
		MaxAudioBytes:    a.Config.Audio.MaxAudioBytes(),
		MaxChunkBytes:    a.Config.Audio.MaxChunkBytes(),
		SupportedFormats: a.Config.Audio.SupportedFormats,
	}, a.Logger)

	// 4. server
	var pinger handlers.Pinger
	if a.RC != nil {
		pinger = database.RedisPinger{Client: a.RC}
	}
	a.ServerDeps = server.NewServerDependencies(a.Pipeline, pinger, a.Logger, a.Config)
	return nil
}

func (a *App) setupStorage() {
	ttl := a.Config.Session.TTL()

	if a.RC != nil {
		a.Cache = audiocache.NewRedisCache(a.RC, a.Config.Redis.CacheTTL())
	} else {
		a.Cache = audiocache.Noop{}
	}

	if a.Config.Session.Backend == "redis" && a.RC != nil {
		a.Sessions = session.NewRedisStore(a.RC, ttl, a.Logger)
		a.Logger.Infof("session store: redis (ttl %v)", ttl)
		return
	}
	a.Sessions = session.NewMemoryStore(ttl, a.Logger)
	a.Logger.Infof("session store: memory (ttl %v)", ttl)
}

// Run starts background maintenance and blocks until ctx is done.
func (a *App) Run(ctx context.Context) {
	if mem, ok := a.Sessions.(*session.MemoryStore); ok {
		mem.Run(ctx, a.Config.Session.SweepInterval())
		return
	}
	<-ctx.Done()
}

// Close releases the Redis connection, if any.
func (a *App) Close() error {
	if a.RC == nil {
		return nil
	}
	if err := a.RC.Close(); err != nil {
		return fmt.Errorf("closing redis: %w", err)
	}
	return nil
}

// Bootstrap connects Redis when enabled and builds the App.
func Bootstrap(cfg *config.Settings, logger *Logger.Logger) (*App, error) {
	var rc *redis.Client
	if cfg.Redis.Enabled {
		client, err := database.NewRedis(cfg.Redis)
		if err != nil {
			if cfg.Session.Backend == "redis" {
				return nil, err
			}
			logger.Warnf("redis unavailable, continuing without audio cache: %v", err)
		} else {
			rc = client
		}
	}
	return NewApp(cfg, logger, rc)
}
