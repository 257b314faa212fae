package models

import "time"

// ItemStatus is the health state of one external account ("item").
type ItemStatus string

const (
	// ItemStatusActive marks an item whose last sync completed normally.
	ItemStatusActive ItemStatus = "active"

	// ItemStatusError marks an item whose last sync failed with a
	// recoverable error; a future scheduled run will retry it.
	ItemStatusError ItemStatus = "error"

	// ItemStatusRequiresReauth marks an item whose stored credential can no
	// longer authenticate upstream. Syncing is pointless until the user
	// re-links the account.
	ItemStatusRequiresReauth ItemStatus = "requires_reauth"
)

// SyncState is the durable per-item checkpoint of sync progress.
//
// The cursor only ever advances to a value returned by a page that was fully
// and durably applied; a crash between apply and cursor persist is safe
// because the next run reprocesses that page idempotently. The row is written
// only by the lock-holding sync coordinator and is never deleted.
type SyncState struct {
	// ItemID identifies the external account at the upstream aggregator.
	ItemID string `json:"item_id"`

	// Cursor is the last durably-applied position in the upstream change
	// stream. Absent means a full initial sync is required.
	Cursor Cursor `json:"-"`

	Status ItemStatus `json:"status"`

	LastSyncAttemptAt *time.Time `json:"last_sync_attempt_at,omitempty"`
	LastErrorCode     string     `json:"last_error_code,omitempty"`
	LastErrorMessage  string     `json:"last_error_message,omitempty"`
}
