// Package server runs a service's HTTP handler until SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"placify-backend/shared/logger"
)

const shutdownTimeout = 10 * time.Second

// PortOf extracts the port from a service URL such as http://localhost:8003
func PortOf(serviceURL, fallback string) string {
	u, err := url.Parse(serviceURL)
	if err != nil || u.Port() == "" {
		return fallback
	}
	return u.Port()
}

// Run serves handler on :port and shuts down gracefully on a termination signal
func Run(name, port string, handler http.Handler) error {
	log := logger.GetLogger().With(zap.String("service", name))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("service starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
