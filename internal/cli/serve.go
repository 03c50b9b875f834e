package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/wire"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long: `Serve the JSON API under /api with /healthz and /metrics.

Examples:
  taskboard serve
  taskboard serve --listen 127.0.0.1:9000
  TASKBOARD_JWT_SECRET=s3cret taskboard serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			logger := wire.Logger()
			defer wire.Close()

			if listen == "" {
				listen = cfg.Listen
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e := wire.Server()
			errCh := make(chan error, 1)
			go func() {
				logger.WithFields(log.Fields{
					"listen":     listen,
					"db_driver":  cfg.DBDriver,
					"token_auth": cfg.JWTSecret != "",
					"cache":      cfg.RedisURL != "",
				}).Info("taskboard api listening")
				errCh <- e.Start(listen)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default from config)")
	return cmd
}
