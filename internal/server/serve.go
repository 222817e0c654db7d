package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/xpanvictor/emovox/internal/config"
	"github.com/xpanvictor/emovox/pkg/Logger"
)

// Serve listens on cfg.Server.Addr until ctx is done, then shuts down within
// the configured grace period.
func Serve(ctx context.Context, cfg *config.Settings, dep Dependencies, logger *Logger.Logger) error {
	router := NewRouter(logger)
	routes := InitializeRoutes(cfg, router, dep)
	defer routes.Close()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("%s %s listening on %s", cfg.AppName, cfg.Version, cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown err %v", err)
		return err
	}
	logger.Info("Shutdown system")
	return nil
}
