package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yuzeguitarist/qrdrop/internal/netutil"
)

const gracefulShutdownPeriod = 30 * time.Second

// Run serves handler on listen until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, listen string, handler http.Handler) error {
	if err := netutil.TCPAddrAvailable(listen); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    listen,
		Handler: handler,
		// uploads arrive in the body, so allow slow clients some room
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", listen).Msg("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Warn().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownPeriod)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Warn().Msg("http server gracefully stopped")
	return nil
}
