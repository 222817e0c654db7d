package commands

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/xpanvictor/emovox/internal/app"
	"github.com/xpanvictor/emovox/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	Long: `Run the HTTP and websocket API.

Configuration comes from config_<ENV>.yaml, .env and the environment.

Examples:
  emovox serve
  ENV=prod SERVER_ADDR=:9000 emovox serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if !cfg.Debug && !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		application, err := app.Bootstrap(cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go application.Run(ctx)

		return server.Serve(ctx, cfg, application.ServerDeps, logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address, overrides server.addr")
}
