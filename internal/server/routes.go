package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xpanvictor/emovox/docs"
	"github.com/xpanvictor/emovox/internal/config"
	"github.com/xpanvictor/emovox/internal/handlers"
	"github.com/xpanvictor/emovox/internal/handlers/websocket"
	"github.com/xpanvictor/emovox/pkg/Logger"
)

// Dependencies is everything the HTTP surface needs from the application
type Dependencies struct {
	Pipeline handlers.Pipeline
	Redis    handlers.Pinger // nil when Redis is disabled
	Logger   *Logger.Logger
	Configs  *config.Settings
}

func NewServerDependencies(
	p handlers.Pipeline,
	redis handlers.Pinger,
	logger *Logger.Logger,
	config *config.Settings,
) Dependencies {
	return Dependencies{
		Pipeline: p,
		Redis:    redis,
		Logger:   logger,
		Configs:  config,
	}
}

// RoutesManager owns the handlers that hold connections open
type RoutesManager struct {
	deps Dependencies
	ws   *websocket.WebSocketHandler
}

// Close drops every open websocket
func (rm *RoutesManager) Close() error {
	return rm.ws.Close()
}

// NewRouter builds a gin engine with the standard middleware stack
func NewRouter(logger *Logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		handlers.ErrorHandlerMiddleware(logger),
		handlers.RequestLoggerMiddleware(logger),
		handlers.CORSMiddleware(),
		handlers.TimingMiddleware(),
	)
	return r
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) *RoutesManager {
	handlers.NewSystemHandler(cfg.AppName, cfg.Version, dep.Redis).RegisterRoutes(r)

	handlers.NewTranslateHandler(
		dep.Pipeline,
		cfg.Audio.MaxAudioBytes(),
		cfg.Audio.MaxChunkBytes(),
		dep.Logger,
	).RegisterRoutes(r)

	ws := websocket.NewWebSocketHandler(dep.Logger, dep.Pipeline, int(cfg.Audio.MaxChunkBytes()), cfg.Session.TTL())
	ws.RegisterRoutes(r)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &RoutesManager{deps: dep, ws: ws}
}
