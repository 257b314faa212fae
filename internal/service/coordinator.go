// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/ledger-sync/internal/config"
	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/store"
	"github.com/fintrack/ledger-sync/internal/upstream"
	"github.com/fintrack/ledger-sync/models"
	"github.com/rs/zerolog"
)

// contextWithItem tags every log entry of one run with the item it serves.
func contextWithItem(itemID string) func(zerolog.Context) zerolog.Context {
	return func(zc zerolog.Context) zerolog.Context {
		return zc.Str("item_id", itemID)
	}
}

// syncCoordinator is the concrete implementation of [SyncCoordinator].
//
// All collaborators are explicit constructor dependencies; there is no
// module-level state and no silent degradation when one is missing. The
// only mutable state shared with other runs is the item's sync_states row,
// which is written exclusively by the lock holder.
type syncCoordinator struct {
	locks       store.LockRepository
	states      store.SyncStateRepository
	credentials store.CredentialRepository
	fetcher     PageFetcher
	processor   DiffProcessor
	cfg         config.Sync
	logger      *logger.Logger
}

// NewSyncCoordinator constructs a [SyncCoordinator]. Every collaborator is
// required; passing nil is a programming error that fails at startup, not a
// runtime behavior change.
func NewSyncCoordinator(
	locks store.LockRepository,
	states store.SyncStateRepository,
	credentials store.CredentialRepository,
	fetcher PageFetcher,
	processor DiffProcessor,
	cfg config.Sync,
	logger *logger.Logger,
) SyncCoordinator {
	return &syncCoordinator{
		locks:       locks,
		states:      states,
		credentials: credentials,
		fetcher:     fetcher,
		processor:   processor,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run implements [SyncCoordinator].
//
// The loop invariant: the cursor only advances to a value returned by a
// page that was fully and durably applied. Apply happens first, cursor
// persist second, so a crash between the two re-processes the page on the
// next run, which the idempotent apply turns into a no-op.
//
// On a pagination-restart disposition the loop discards the progress
// counters of the current invocation and re-enters from the cursor recorded
// at loop entry, bounded by the restart cap. Pages applied before the
// restart stay applied; replaying them converges on the same state.
func (c *syncCoordinator) Run(ctx context.Context, itemID string, forceFullResync bool) (models.SyncOutcome, error) {
	log := c.logger.GetChildLogger()
	log.UpdateContext(contextWithItem(itemID))
	ctx = log.WithContext(ctx)

	token, err := c.locks.Acquire(ctx, itemID, c.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, store.ErrLockContended) {
			log.Info().
				Str("func", "syncCoordinator.Run").
				Msg("sync already in progress, yielding")
			return models.SyncOutcome{Status: models.OutcomeLockContended}, nil
		}

		log.Err(err).
			Str("func", "syncCoordinator.Run").
			Msg("failed to acquire sync lock")
		return models.SyncOutcome{Status: models.OutcomeFailedTransient}, fmt.Errorf("acquire sync lock: %w", err)
	}

	// release must run on every exit path, including cancellation
	defer func() {
		releaseCtx := context.WithoutCancel(ctx)
		if releaseErr := c.locks.Release(releaseCtx, itemID, token); releaseErr != nil {
			log.Err(releaseErr).
				Str("func", "syncCoordinator.Run").
				Msg("failed to release sync lock")
		}
	}()

	if err = c.states.MarkAttempt(ctx, itemID); err != nil {
		return models.SyncOutcome{Status: models.OutcomeFailedTransient}, fmt.Errorf("mark sync attempt: %w", err)
	}

	state, err := c.states.Get(ctx, itemID)
	if err != nil {
		return models.SyncOutcome{Status: models.OutcomeFailedTransient}, fmt.Errorf("read sync state: %w", err)
	}

	cursor := state.Cursor
	if forceFullResync {
		log.Info().
			Str("func", "syncCoordinator.Run").
			Msg("forced full resync, discarding stored cursor")
		cursor = models.AbsentCursor()
	}

	// required for pagination-mutation recovery
	originalCursor := cursor

	credential, err := c.credentials.Credential(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrCredentialNotFound) {
			c.recordStatus(ctx, itemID, models.ItemStatusError, "MISSING_CREDENTIAL", "no access credential stored for item")
			return models.SyncOutcome{Status: models.OutcomeFailedFatal}, nil
		}

		return models.SyncOutcome{Status: models.OutcomeFailedTransient}, fmt.Errorf("read item credential: %w", err)
	}

	var outcome models.SyncOutcome
	restarts := 0

	for {
		batch, fetchErr := c.fetcher.FetchPage(ctx, credential, cursor)
		if fetchErr != nil {
			terminal, terminalErr := c.handleFetchError(ctx, itemID, fetchErr, &restarts)
			if terminal != nil {
				return *terminal, terminalErr
			}

			// pagination restart: discard this invocation's progress and
			// re-enter from the cursor recorded at loop entry
			cursor = originalCursor
			outcome = models.SyncOutcome{}
			continue
		}

		applied, applyErr := c.processor.Apply(ctx, batch)
		if applyErr != nil {
			c.recordStatus(ctx, itemID, models.ItemStatusError, "APPLY_FAILED", applyErr.Error())
			return models.SyncOutcome{Status: storeFailureStatus(applyErr)}, fmt.Errorf("apply delta batch: %w", applyErr)
		}

		nextCursor := models.NewCursor(batch.NextCursor)
		if persistErr := c.states.SetCursor(ctx, itemID, nextCursor); persistErr != nil {
			// the page is durably applied; the next run re-fetches it from
			// the unpersisted cursor and the idempotent apply no-ops
			c.recordStatus(ctx, itemID, models.ItemStatusError, "CURSOR_PERSIST_FAILED", persistErr.Error())
			return models.SyncOutcome{Status: storeFailureStatus(persistErr)}, fmt.Errorf("persist cursor: %w", persistErr)
		}

		outcome.PagesProcessed++
		outcome.Added += applied.Added
		outcome.Modified += applied.Modified
		outcome.Removed += applied.Removed
		cursor = nextCursor

		if !batch.HasMore {
			break
		}

		if extendErr := c.locks.Extend(ctx, itemID, token, c.cfg.LockTTL); extendErr != nil {
			// lease lost mid-run: another invocation may already hold the
			// lock, so continuing would break per-item serialization
			log.Err(extendErr).
				Str("func", "syncCoordinator.Run").
				Msg("lost sync lock lease mid-run, aborting")
			return models.SyncOutcome{Status: models.OutcomeFailedTransient}, fmt.Errorf("extend sync lock: %w", extendErr)
		}
	}

	outcome.Status = models.OutcomeCompleted

	log.Info().
		Str("func", "syncCoordinator.Run").
		Int("pages", outcome.PagesProcessed).
		Int("added", outcome.Added).
		Int("modified", outcome.Modified).
		Int("removed", outcome.Removed).
		Msg("sync completed")

	return outcome, nil
}

// storeFailureStatus maps a database failure to the outcome a scheduled
// retry deserves: constraint violations and other non-retryable errors would
// fail identically on every run, so they terminate as fatal; everything else
// is worth another attempt.
func storeFailureStatus(err error) models.OutcomeStatus {
	if errors.Is(err, store.ErrNonRetryable) {
		return models.OutcomeFailedFatal
	}

	return models.OutcomeFailedTransient
}

// handleFetchError converts a classified fetch failure into either a
// terminal outcome (non-nil first return) or a pagination restart (nil
// first return, restart counter incremented).
func (c *syncCoordinator) handleFetchError(ctx context.Context, itemID string, fetchErr error, restarts *int) (*models.SyncOutcome, error) {
	log := logger.FromContext(ctx)

	var classified *upstream.ClassifiedError
	if !errors.As(fetchErr, &classified) {
		// fetch failures are classified at the client; anything else is an
		// infrastructure error worth a future retry
		c.recordStatus(ctx, itemID, models.ItemStatusError, "FETCH_FAILED", fetchErr.Error())
		return &models.SyncOutcome{Status: models.OutcomeFailedTransient}, fmt.Errorf("fetch delta page: %w", fetchErr)
	}

	switch classified.Disposition {
	case upstream.DispositionPaginationRestart:
		*restarts++
		if *restarts > c.cfg.MaxRestarts {
			log.Warn().
				Str("func", "syncCoordinator.handleFetchError").
				Int("restarts", *restarts-1).
				Msg("pagination restart cap exhausted")
			c.recordStatus(ctx, itemID, models.ItemStatusError, classified.Code, classified.Message)
			return &models.SyncOutcome{Status: models.OutcomeFailedTransient}, nil
		}

		log.Warn().
			Str("func", "syncCoordinator.handleFetchError").
			Int("restart", *restarts).
			Msg("page sequence invalidated by concurrent mutation, restarting from original cursor")
		return nil, nil

	case upstream.DispositionReauth:
		log.Warn().
			Str("func", "syncCoordinator.handleFetchError").
			Str("error_code", classified.Code).
			Msg("credential no longer authenticates, user action required")
		c.recordStatus(ctx, itemID, models.ItemStatusRequiresReauth, classified.Code, classified.Message)
		return &models.SyncOutcome{Status: models.OutcomeReauthRequired}, nil

	case upstream.DispositionFatal:
		log.Error().
			Str("func", "syncCoordinator.handleFetchError").
			Str("error_code", classified.Code).
			Str("error_message", classified.Message).
			Msg("fatal upstream error")
		c.recordStatus(ctx, itemID, models.ItemStatusError, classified.Code, classified.Message)
		return &models.SyncOutcome{Status: models.OutcomeFailedFatal}, nil

	default: // transient, retry budget exhausted
		log.Warn().
			Str("func", "syncCoordinator.handleFetchError").
			Str("error_code", classified.Code).
			Msg("transient failures exhausted retry budget, a scheduled run will retry")
		c.recordStatus(ctx, itemID, models.ItemStatusError, classified.Code, classified.Message)
		return &models.SyncOutcome{Status: models.OutcomeFailedTransient}, nil
	}
}

// recordStatus persists a terminal status; a failure to record is logged
// but never masks the outcome being reported.
func (c *syncCoordinator) recordStatus(ctx context.Context, itemID string, status models.ItemStatus, code, message string) {
	if err := c.states.SetStatus(ctx, itemID, status, code, message); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncCoordinator.recordStatus").
			Str("status", string(status)).
			Msg("failed to record sync status")
	}
}
