package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	webhookTransactionsPath = "/webhooks/transactions"
	healthPath              = "/health"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Post(webhookTransactionsPath, h.transactionsWebhook)
	router.Get(healthPath, h.health)

	return router
}
