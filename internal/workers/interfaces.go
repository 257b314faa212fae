// Package workers provides the background execution layer of the sync
// engine: the scheduled sweep that re-syncs every syncable item and the
// trigger worker that serves webhook-initiated syncs.
// It defines the Worker interface and a Workers aggregate that runs
// multiple workers in a unified way.
package workers

import "context"

// Worker is the interface implemented by every background worker.
//
// Run blocks until ctx is canceled; implementations own their goroutines
// and must drain cleanly on cancellation.
type Worker interface {
	Run(ctx context.Context)
}
