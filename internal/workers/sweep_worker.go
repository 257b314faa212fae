// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package workers

import (
	"context"
	"time"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/service"
	"github.com/fintrack/ledger-sync/internal/store"
	"github.com/fintrack/ledger-sync/models"
)

// sweepWorker re-syncs every syncable item on a fixed interval. The sweep
// is the engine's backstop: it picks up items whose webhook triggers were
// dropped and retries items parked in the error status. Items requiring
// re-authentication are excluded at the query level; no amount of retrying
// fixes an invalid credential.
type sweepWorker struct {
	coordinator service.SyncCoordinator
	states      store.SyncStateRepository
	interval    time.Duration
	logger      *logger.Logger
}

func newSweepWorker(coordinator service.SyncCoordinator, states store.SyncStateRepository, interval time.Duration, logger *logger.Logger) *sweepWorker {
	return &sweepWorker{
		coordinator: coordinator,
		states:      states,
		interval:    interval,
		logger:      logger,
	}
}

// Run implements [Worker]. One full sweep runs per tick; items are synced
// sequentially, so a slow item delays the rest of the sweep rather than
// piling up concurrent runs.
func (w *sweepWorker) Run(ctx context.Context) {
	log := w.logger.GetChildLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().
		Str("func", "sweepWorker.Run").
		Dur("interval", w.interval).
		Msg("sweep worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("func", "sweepWorker.Run").Msg("sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *sweepWorker) sweep(ctx context.Context) {
	log := w.logger.GetChildLogger()

	itemIDs, err := w.states.ListSyncableItems(ctx)
	if err != nil {
		log.Err(err).Str("func", "sweepWorker.sweep").Msg("failed to list syncable items")
		return
	}

	for _, itemID := range itemIDs {
		if ctx.Err() != nil {
			return
		}

		outcome, runErr := w.coordinator.Run(ctx, itemID, false)
		if runErr != nil {
			log.Err(runErr).
				Str("func", "sweepWorker.sweep").
				Str("item_id", itemID).
				Str("outcome", string(outcome.Status)).
				Msg("sweep sync failed")
			continue
		}

		if outcome.Status != models.OutcomeCompleted && outcome.Status != models.OutcomeLockContended {
			log.Warn().
				Str("func", "sweepWorker.sweep").
				Str("item_id", itemID).
				Str("outcome", string(outcome.Status)).
				Msg("sweep sync did not complete")
		}
	}
}
