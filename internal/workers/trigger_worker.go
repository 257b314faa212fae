package workers

import (
	"context"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/service"
)

// triggerWorker drains the webhook trigger queue and runs one sync per
// queued item. A trigger for an item already mid-sync comes back as lock
// contention and is dropped; the in-flight run covers the new data or the
// next sweep does.
type triggerWorker struct {
	coordinator service.SyncCoordinator
	trigger     service.SyncTrigger
	logger      *logger.Logger
}

func newTriggerWorker(coordinator service.SyncCoordinator, trigger service.SyncTrigger, logger *logger.Logger) *triggerWorker {
	return &triggerWorker{
		coordinator: coordinator,
		trigger:     trigger,
		logger:      logger,
	}
}

// Run implements [Worker].
func (w *triggerWorker) Run(ctx context.Context) {
	log := w.logger.GetChildLogger()

	log.Info().Str("func", "triggerWorker.Run").Msg("trigger worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("func", "triggerWorker.Run").Msg("trigger worker stopped")
			return
		case itemID := <-w.trigger.Triggers():
			outcome, err := w.coordinator.Run(ctx, itemID, false)
			if err != nil {
				log.Err(err).
					Str("func", "triggerWorker.Run").
					Str("item_id", itemID).
					Str("outcome", string(outcome.Status)).
					Msg("triggered sync failed")
				continue
			}

			log.Info().
				Str("func", "triggerWorker.Run").
				Str("item_id", itemID).
				Str("outcome", string(outcome.Status)).
				Int("pages", outcome.PagesProcessed).
				Msg("triggered sync finished")
		}
	}
}
