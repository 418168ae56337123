package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"thumbcache/di"
	"thumbcache/job"
	"thumbcache/rest"
	"thumbcache/utils/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the thumbnail HTTP API",
	Long: `Serve exposes thumbnail resolution over HTTP:

  GET    /v1/thumbnails?src=&w=&h=   resolve (add redirect=1 for a 302)
  DELETE /v1/thumbnails              clear the cache
  GET    /v1/health
  GET    /metrics

Cached files are served under public.root unless it is an absolute URL.
When cache.sweep_interval is set, expired entries are swept in the background.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := components()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := job.NewJobScheduler()
	scheduler.Add(job.CacheSweeperJob(app.ThumbnailUsecase, cfg.Cache.SweepInterval))
	scheduler.Start(ctx)

	e := newServer(app)
	address := fmt.Sprintf(":%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info("starting thumbcache server",
			"address", address,
			"cache_root", app.CacheStorage.Root(),
			"jobs", scheduler.Len(),
		)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stop()
		scheduler.Shutdown()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	scheduler.Shutdown()

	logger.Logger.Info("server exited properly")
	return nil
}

func newServer(app *di.ApplicationComponents) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	rest.RegisterRoutes(e, app, cfg)
	return e
}
