package http

import (
	"net/http"
	"time"

	"github.com/fintrack/ledger-sync/internal/logger"
)

// withLogging writes one access log entry per request. Health probes fire
// every few seconds, so they log at debug to keep webhook deliveries visible
// in the info stream.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		event := log.Info()
		if r.URL.Path == healthPath {
			event = log.Debug()
		}

		event.
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Str("remote_addr", r.RemoteAddr).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
