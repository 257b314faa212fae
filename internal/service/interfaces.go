package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/fintrack/ledger-sync/models"
)

// SyncCoordinator is the top-level orchestrator of one sync run: it acquires
// the per-item lock, drains the upstream change stream page by page, applies
// each page atomically, persists the cursor after each durable apply, and
// releases the lock on every exit path.
type SyncCoordinator interface {
	// Run synchronizes one item. forceFullResync discards the stored
	// cursor and replays the whole change stream; the apply path is
	// idempotent, so a replay converges on the same stored state.
	Run(ctx context.Context, itemID string, forceFullResync bool) (models.SyncOutcome, error)
}

// PageFetcher fetches one delta page, retrying transient failures
// internally. Non-transient failures surface as classified errors for the
// coordinator to branch on.
type PageFetcher interface {
	FetchPage(ctx context.Context, accessCredential string, cursor models.Cursor) (models.SyncBatch, error)
}

// DiffProcessor applies one page of deltas to the local store as a single
// atomic unit.
type DiffProcessor interface {
	Apply(ctx context.Context, batch models.SyncBatch) (models.ApplyResult, error)
}

// SyncTrigger queues asynchronous sync requests (webhook notifications)
// for the trigger worker to execute.
type SyncTrigger interface {
	// EnqueueSync requests an asynchronous sync of itemID without blocking.
	// Returns false when the queue is full and the trigger was dropped;
	// the scheduled sweep is the backstop for dropped triggers.
	EnqueueSync(itemID string) bool

	// Triggers exposes the queued item ids to the trigger worker.
	Triggers() <-chan string
}
