package models

import "time"

// Transaction is a single financial transaction reconciled from the upstream
// aggregator into the local store.
//
// ExternalID is the upstream-assigned identifier and is immutable once the
// record is created. A unique constraint on it is the idempotency backbone of
// the sync engine: re-delivery of an already-applied delta must never produce
// a duplicate row.
type Transaction struct {
	// ID is the server-assigned primary key.
	ID int64 `json:"id"`

	// ExternalID is the upstream identifier of the transaction.
	// Unique and immutable once created.
	ExternalID string `json:"external_id"`

	// AccountID is the upstream account the transaction belongs to.
	AccountID string `json:"account_id"`

	// AmountMinorUnits is the signed amount in the currency's minor units
	// (e.g. cents). Stored as an integer to avoid floating-point drift.
	AmountMinorUnits int64 `json:"amount_minor_units"`

	// OccurredOn is the date the transaction occurred (time part is zero).
	OccurredOn time.Time `json:"occurred_on"`

	Description string  `json:"description"`
	Merchant    *string `json:"merchant,omitempty"`

	// Pending reports whether the upstream still considers the transaction
	// unsettled. Pending transactions are commonly replaced by a posted
	// counterpart through a removed+added delta pair.
	Pending bool `json:"pending"`

	// Version increments on every modification and backs optimistic
	// concurrency: conditional writers compare against it and re-read on
	// mismatch instead of overwriting blindly.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt marks a soft-deleted record. Soft-deleted transactions are
	// excluded from active views but kept so that re-delivered "removed"
	// deltas stay no-ops.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the record is soft-deleted.
func (t Transaction) Deleted() bool {
	return t.DeletedAt != nil
}

// TransactionUpdate describes a conditional partial update of a transaction,
// used by downstream collaborators (e.g. the categorization subsystem).
//
// Nil pointer fields are left untouched. Version must match the current
// database version; on mismatch the repository returns a version-conflict
// error and the caller is expected to re-read and retry.
type TransactionUpdate struct {
	ExternalID string `json:"external_id"`

	Description *string `json:"description,omitempty"`
	Merchant    *string `json:"merchant,omitempty"`
	Pending     *bool   `json:"pending,omitempty"`

	// Version is the version the caller last observed.
	Version int64 `json:"version"`
}

// TransactionFilter narrows active-transaction listings.
// Zero-valued fields are ignored.
type TransactionFilter struct {
	AccountID string
	From      time.Time
	To        time.Time
	Limit     uint64
}
