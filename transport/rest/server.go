package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Handler returns the mux serving /ping, /tally and /metrics.
func Handler(logger *slog.Logger, tally tallyUseCase) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.Handle("GET /tally", &tallyHandler{logger: logger.With("component", "rest"), tally: tally})
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Start serves the HTTP endpoints until ctx is done.
func Start(ctx context.Context, logger *slog.Logger, port string, tally tallyUseCase) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      Handler(logger, tally),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
