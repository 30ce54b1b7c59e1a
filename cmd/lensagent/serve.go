package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lens-agent/internal/di"
	"lens-agent/internal/infrastructure/web"

	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 30 * time.Second
	evictInterval   = time.Minute
)

var (
	serveAddr  string
	accessLog  bool
	sessionTTL time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat page over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	go container.Sessions.RunEviction(ctx, evictInterval, sessionTTL)

	webCfg := web.DefaultConfig()
	webCfg.AccessLog = accessLog
	router, err := web.NewRouter(container.Sessions, log.WithField("component", "web"), webCfg)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// closeContainer gives in-flight turns shutdownTimeout to settle. Turns
// still running after that are abandoned so the process can exit.
func closeContainer(c *di.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.Close(ctx); err != nil {
		log.Warn("Abandoned in-flight turns", "error", err)
	}
}
