package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	traceIDHeader = "X-Trace-ID"

	// deliveryIDHeader is set by the aggregator on webhook deliveries.
	// Reusing it as the trace id lets one delivery be correlated across
	// its retries and with the aggregator's own logs.
	deliveryIDHeader = "X-Delivery-ID"
)

// requestTraceID picks the trace id for one request: an explicit trace
// header wins, then the webhook delivery id, then a fresh uuid.
func requestTraceID(r *http.Request) string {
	if id := r.Header.Get(traceIDHeader); id != "" {
		return id
	}

	if id := r.Header.Get(deliveryIDHeader); id != "" {
		return id
	}

	return uuid.NewString()
}

func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := requestTraceID(r)

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
