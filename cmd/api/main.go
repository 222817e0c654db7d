package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/emovox/internal/app"
	"github.com/xpanvictor/emovox/internal/config"
	"github.com/xpanvictor/emovox/internal/server"
	"github.com/xpanvictor/emovox/pkg/Logger"
)

// @title Emotion-aware Speech Translation API
// @version 1.0
// @description Translates spoken English and Spanish, resynthesizing speech with the speaker's emotion.
// @BasePath /

// This is the main entry point for the API server.
// Loads in all system components
// Exposes functionalities
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.BuildLogger(cfg.Debug, cfg.LogLevel)
	defer logger.Sync()
	logger.Info("Logger initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	application, err := app.Bootstrap(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to build application: %v", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go application.Run(ctx)

	if err := server.Serve(ctx, cfg, application.ServerDeps, logger); err != nil {
		logger.Errorf("Server exiting: %v", err)
	}
}
