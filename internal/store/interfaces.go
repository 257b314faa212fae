package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/fintrack/ledger-sync/models"
)

// TransactionRepository persists reconciled transactions. ApplyBatch is the
// diff processor's storage contract; the whole page is applied inside one
// database transaction so that a crash mid-page can never leave a partially
// applied batch behind a persisted cursor.
type TransactionRepository interface {
	// ApplyBatch applies one page of deltas atomically. Re-delivered
	// "added" deltas are no-ops, "modified" deltas for unknown records are
	// treated as implicit adds, and "removed" deltas for absent records do
	// nothing.
	ApplyBatch(ctx context.Context, batch models.SyncBatch) (models.ApplyResult, error)

	// UpdateWithVersion applies a conditional partial update. Returns
	// ErrVersionConflict when the expected version no longer matches and
	// ErrTransactionNotFound when the record does not exist.
	UpdateWithVersion(ctx context.Context, update models.TransactionUpdate) error

	// GetByExternalID fetches one record, including soft-deleted ones.
	GetByExternalID(ctx context.Context, externalID string) (models.Transaction, error)

	// ListActive lists non-deleted transactions matching filter.
	ListActive(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

// SyncStateRepository persists the per-item sync checkpoint row.
// Cursor normalization (null / empty / whitespace-only → absent) happens at
// this boundary in both directions.
type SyncStateRepository interface {
	// Get returns the item's sync state. A missing row yields a zero state
	// with an absent cursor and active status, not an error.
	Get(ctx context.Context, itemID string) (models.SyncState, error)

	// SetCursor persists the cursor of a durably-applied page and resets
	// the item's status to active.
	SetCursor(ctx context.Context, itemID string, cursor models.Cursor) error

	// MarkAttempt records the start of a sync run.
	MarkAttempt(ctx context.Context, itemID string) error

	// SetStatus records a terminal run outcome with its error fields.
	SetStatus(ctx context.Context, itemID string, status models.ItemStatus, code, message string) error

	// ListSyncableItems returns item ids eligible for the scheduled sweep:
	// every item except those requiring re-authentication.
	ListSyncableItems(ctx context.Context) ([]string, error)
}

// LockRepository provides per-item mutual exclusion across concurrent sync
// invocations, backed by an atomic compare-and-swap row with a TTL lease.
type LockRepository interface {
	// Acquire takes the lock for key with the given lease, reclaiming it if
	// the previous holder's lease expired. Returns the holder token, or
	// ErrLockContended when a live holder exists.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Release frees the lock if token still owns it. Releasing an expired
	// or re-acquired lock is a silent no-op, never an error.
	Release(ctx context.Context, key, token string) error

	// Extend renews the lease for the current holder. Returns
	// ErrLockNotHeld when token no longer owns a live lock.
	Extend(ctx context.Context, key, token string, ttl time.Duration) error
}

// CredentialRepository hands out the opaque upstream access credential for
// an item. The engine never interprets or transforms the credential;
// encryption of stored credentials belongs to an external collaborator.
type CredentialRepository interface {
	Credential(ctx context.Context, itemID string) (string, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying on a future run.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
