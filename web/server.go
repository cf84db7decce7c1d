//go:build !test

/* server.go
 * Contains the HTTP server Start function that listens for incoming connections.
 * Excluded from test coverage as it blocks and requires real network binding.
 */

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"robocup-tournament/logger"
)

// Start serves cfg.LogDir until ctx is cancelled
func Start(ctx context.Context, cfg Config) error {
	s := NewServer(cfg)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("HTTP server listening", logger.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error serving %s: %w", cfg.Addr, err)
	}
	return nil
}
