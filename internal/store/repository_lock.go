// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/utils"
)

// lockRepository is the PostgreSQL-backed implementation of [LockRepository].
//
// Each lock is one row in "sync_locks" with a random holder token and a
// lease expiry. Acquisition is a single upsert whose conflict clause only
// fires when the previous lease has expired, which makes the whole operation
// an atomic compare-and-swap: exactly one of any number of concurrent
// callers receives the row back.
//
// Locks are ephemeral: a crashed holder's lease simply runs out and the next
// caller reclaims the row. There is no durable state to clean up.
type lockRepository struct {
	*DB
	tokens *utils.UUIDGenerator
	logger *logger.Logger
}

// NewLockRepository constructs a [LockRepository] backed by the provided
// database connection and logger.
func NewLockRepository(db *DB, logger *logger.Logger) LockRepository {
	return &lockRepository{
		DB:     db,
		tokens: utils.NewUUIDGenerator(),
		logger: logger,
	}
}

// Acquire takes the lock for key with the given lease duration.
//
// Returns the holder token on success. When a live holder exists the upsert
// affects no row and [ErrLockContended] is returned; callers are expected to
// fail fast rather than queue, since the current holder is already making
// progress toward the same goal.
func (l *lockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	log := logger.FromContext(ctx)

	token := l.tokens.Generate()

	var acquiredToken string
	queryRowErr := l.DB.QueryRowContext(ctx, acquireLock, key, token, ttl.Seconds()).Scan(&acquiredToken)
	if queryRowErr != nil {
		if errors.Is(queryRowErr, sql.ErrNoRows) {
			log.Debug().
				Str("func", "lockRepository.Acquire").
				Str("key", key).
				Msg("lock is held by another run")
			return "", ErrLockContended
		}

		log.Err(queryRowErr).
			Str("func", "lockRepository.Acquire").
			Str("key", key).
			Msg("failed to execute lock acquisition")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	log.Debug().
		Str("func", "lockRepository.Acquire").
		Str("key", key).
		Dur("ttl", ttl).
		Msg("acquired sync lock")

	return acquiredToken, nil
}

// Release frees the lock if token still owns it.
//
// The delete is token-checked so a holder whose lease expired and was
// re-acquired by someone else cannot free the new holder's lock. Releasing
// an already-expired or missing lock is a silent no-op.
func (l *lockRepository) Release(ctx context.Context, key, token string) error {
	log := logger.FromContext(ctx)

	res, execErr := l.DB.ExecContext(ctx, releaseLock, key, token)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "lockRepository.Release").
			Str("key", key).
			Msg("failed to execute lock release")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		// lease expired or was reclaimed; nothing to free
		log.Debug().
			Str("func", "lockRepository.Release").
			Str("key", key).
			Msg("lock already released or reclaimed")
		return nil
	}

	log.Debug().
		Str("func", "lockRepository.Release").
		Str("key", key).
		Msg("released sync lock")

	return nil
}

// Extend renews the lease for the current holder, for runs that approach
// TTL expiry. Returns [ErrLockNotHeld] when token no longer owns a live
// lock.
func (l *lockRepository) Extend(ctx context.Context, key, token string, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	res, execErr := l.DB.ExecContext(ctx, extendLock, key, token, ttl.Seconds())
	if execErr != nil {
		log.Err(execErr).
			Str("func", "lockRepository.Extend").
			Str("key", key).
			Msg("failed to execute lock extension")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if rowsAffected, _ := res.RowsAffected(); rowsAffected == 0 {
		log.Warn().
			Str("func", "lockRepository.Extend").
			Str("key", key).
			Msg("cannot extend: lock is not held by this token")
		return ErrLockNotHeld
	}

	return nil
}
