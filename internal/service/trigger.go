package service

import (
	"github.com/fintrack/ledger-sync/internal/logger"
)

// channelSyncTrigger is a bounded in-process queue between the webhook
// handler and the trigger worker. Enqueue never blocks the HTTP path: a
// full queue drops the trigger, and the scheduled sweep picks the item up
// on its next pass.
type channelSyncTrigger struct {
	queue  chan string
	logger *logger.Logger
}

// NewSyncTrigger constructs a [SyncTrigger] with the given queue capacity.
func NewSyncTrigger(capacity int, logger *logger.Logger) SyncTrigger {
	if capacity <= 0 {
		capacity = 1
	}

	return &channelSyncTrigger{
		queue:  make(chan string, capacity),
		logger: logger,
	}
}

// EnqueueSync implements [SyncTrigger].
func (t *channelSyncTrigger) EnqueueSync(itemID string) bool {
	select {
	case t.queue <- itemID:
		return true
	default:
		t.logger.Warn().
			Str("func", "channelSyncTrigger.EnqueueSync").
			Str("item_id", itemID).
			Msg("trigger queue full, dropping sync trigger")
		return false
	}
}

// Triggers implements [SyncTrigger].
func (t *channelSyncTrigger) Triggers() <-chan string {
	return t.queue
}
