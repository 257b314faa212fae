package service

import (
	"context"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/store"
	"github.com/fintrack/ledger-sync/models"
)

// diffProcessor is the concrete implementation of [DiffProcessor]. The
// idempotency and atomicity rules live in the repository's single-transaction
// ApplyBatch; this layer adds logging and keeps the coordinator decoupled
// from the storage interface for testing.
type diffProcessor struct {
	transactions store.TransactionRepository
	logger       *logger.Logger
}

// NewDiffProcessor constructs a [DiffProcessor] writing through the given
// transaction repository.
func NewDiffProcessor(transactions store.TransactionRepository, logger *logger.Logger) DiffProcessor {
	return &diffProcessor{
		transactions: transactions,
		logger:       logger,
	}
}

// Apply implements [DiffProcessor].
func (d *diffProcessor) Apply(ctx context.Context, batch models.SyncBatch) (models.ApplyResult, error) {
	log := logger.FromContext(ctx)

	result, err := d.transactions.ApplyBatch(ctx, batch)
	if err != nil {
		log.Err(err).
			Str("func", "diffProcessor.Apply").
			Int("added", len(batch.Added)).
			Int("modified", len(batch.Modified)).
			Int("removed", len(batch.Removed)).
			Msg("failed to apply delta batch")
		return models.ApplyResult{}, err
	}

	return result, nil
}
