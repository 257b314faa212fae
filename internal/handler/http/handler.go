package http

import (
	"context"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/service"
)

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	services          *service.Services
	db                Pinger
	webhookSigningKey string

	logger *logger.Logger
}

func NewHandler(services *service.Services, db Pinger, webhookSigningKey string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:          services,
		db:                db,
		webhookSigningKey: webhookSigningKey,
		logger:            logger,
	}
}
