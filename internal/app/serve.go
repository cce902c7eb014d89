package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry and albums over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET    /api/health
  GET    /api/albums
  GET    /api/albums/{id}
  GET    /api/feeds
  POST   /api/feeds
  DELETE /api/feeds/{id}

Examples:
  feedctl serve
  feedctl serve --addr :3000`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if addr == "" {
				addr = cfg.Addr()
			}

			httpServer := &http.Server{
				Addr:        addr,
				Handler:     server.New(store, albumsSvc, resolver, logger),
				ReadTimeout: 10 * time.Second,
				// No WriteTimeout: a dynamic aggregation pass over a
				// large registry can outlive any fixed limit.
				IdleTimeout: 60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
