package workers

import (
	"context"
	"sync"

	"github.com/fintrack/ledger-sync/internal/config"
	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/service"
	"github.com/fintrack/ledger-sync/internal/store"
)

// Workers aggregates the engine's background workers.
type Workers struct {
	workers []Worker

	wg sync.WaitGroup
}

// NewWorkers wires the sweep and trigger workers against the shared
// coordinator.
func NewWorkers(services *service.Services, states store.SyncStateRepository, cfg config.Sync, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newSweepWorker(services.Coordinator, states, cfg.SweepInterval, logger),
			newTriggerWorker(services.Coordinator, services.Trigger, logger),
		},
	}
}

// Run launches every worker in its own goroutine. It returns immediately;
// workers stop when ctx is canceled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker := worker
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			worker.Run(ctx)
		}()
	}
}

// Wait blocks until every launched worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}
