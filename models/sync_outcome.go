// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package models

// OutcomeStatus is the terminal result category of one sync coordinator run.
type OutcomeStatus string

const (
	// OutcomeCompleted: the change stream was drained to exhaustion and the
	// final cursor was persisted.
	OutcomeCompleted OutcomeStatus = "completed"

	// OutcomeFailedTransient: a transient failure survived all retry and
	// restart budgets. A future scheduled run is expected to succeed.
	OutcomeFailedTransient OutcomeStatus = "failed_transient"

	// OutcomeFailedFatal: a non-retryable failure; the error code and
	// message are recorded on the item's sync state.
	OutcomeFailedFatal OutcomeStatus = "failed_fatal"

	// OutcomeReauthRequired: the stored credential no longer authenticates.
	// No retry is attempted; user action is required.
	OutcomeReauthRequired OutcomeStatus = "reauth_required"

	// OutcomeLockContended: another sync run holds the item's lock and is
	// already making progress toward the same goal.
	OutcomeLockContended OutcomeStatus = "lock_contended"
)

// ApplyResult counts the effects of applying one page to the local store.
//
// Added counts rows actually inserted, so re-delivered deltas that hit the
// uniqueness constraint do not inflate it. Implicit adds (a "modified" delta
// for an unknown record) count under Added.
type ApplyResult struct {
	Added    int
	Modified int
	Removed  int
}

// Add accumulates other into r.
func (r *ApplyResult) Add(other ApplyResult) {
	r.Added += other.Added
	r.Modified += other.Modified
	r.Removed += other.Removed
}

// SyncOutcome is the result of one SyncCoordinator.Run invocation.
// Counters are only meaningful for OutcomeCompleted.
type SyncOutcome struct {
	Status         OutcomeStatus `json:"status"`
	PagesProcessed int           `json:"pages_processed"`
	Added          int           `json:"added"`
	Modified       int           `json:"modified"`
	Removed        int           `json:"removed"`
}
