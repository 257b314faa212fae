// Package service wires the sync engine: the coordinator orchestrating one
// run per item, the retrying page fetcher, the delta processor and the
// webhook trigger queue.
package service

import (
	"github.com/fintrack/ledger-sync/internal/config"
	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/store"
	"github.com/fintrack/ledger-sync/internal/upstream"
)

// Services aggregates the engine's service layer for injection into the
// HTTP handlers and background workers.
type Services struct {
	Coordinator SyncCoordinator
	Trigger     SyncTrigger
}

// NewServices wires the full service graph from the repositories, the
// upstream client and the sync configuration.
func NewServices(repos *store.Repositories, client upstream.Client, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	fetcher := NewRetryController(client, cfg.Upstream.PageSize, cfg.Sync.MaxRetries, logger)
	processor := NewDiffProcessor(repos.Transactions, logger)

	return &Services{
		Coordinator: NewSyncCoordinator(
			repos.Locks,
			repos.SyncStates,
			repos.Credentials,
			fetcher,
			processor,
			cfg.Sync,
			logger,
		),
		Trigger: NewSyncTrigger(cfg.Sync.TriggerQueueSize, logger),
	}
}
