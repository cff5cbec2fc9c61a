package logging

import (
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. debug forces debug level and a
// human readable console writer.
func Init(lvl string, debug bool) error {
	level, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return err
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stderr
	if debug {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}

// Interceptor attaches a request scoped logger carrying a request id.
func Interceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.With().Str("request_id", uuid.New().String()).Logger()

		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Msg("request started")

		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	if host == "" {
		return r.RemoteAddr
	}
	return host
}
