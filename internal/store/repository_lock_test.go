// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/stretchr/testify/require"
)

func newTestLockRepo(t *testing.T, db *sql.DB) LockRepository {
	t.Helper()
	return NewLockRepository(newDBFromSQL(db), logger.Nop())
}

func TestAcquire_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestLockRepo(t, db)

	rows := sqlmock.NewRows([]string{"token"}).AddRow("tok-123")

	mock.ExpectQuery("INSERT INTO sync_locks").
		WithArgs("item-1", sqlmock.AnyArg(), float64(30)).
		WillReturnRows(rows)

	token, err := repo.Acquire(testContext(), "item-1", 30*time.Second)
	require.NoError(t, err)
	require.Equal(t, "tok-123", token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquire_Contended(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestLockRepo(t, db)

	// live holder: the conflict clause does not fire, no row comes back
	mock.ExpectQuery("INSERT INTO sync_locks").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Acquire(testContext(), "item-1", 30*time.Second)
	require.ErrorIs(t, err, ErrLockContended)
}

func TestAcquire_QueryError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestLockRepo(t, db)

	mock.ExpectQuery("INSERT INTO sync_locks").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Acquire(testContext(), "item-1", 30*time.Second)
	require.ErrorIs(t, err, ErrExecutingQuery)
}

func TestRelease_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestLockRepo(t, db)

	mock.ExpectExec("DELETE FROM sync_locks").
		WithArgs("item-1", "tok-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Release(testContext(), "item-1", "tok-123"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_ExpiredLock_NoOp(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestLockRepo(t, db)

	// lease ran out and someone else holds the row now
	mock.ExpectExec("DELETE FROM sync_locks").
		WithArgs("item-1", "tok-stale").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Release(testContext(), "item-1", "tok-stale"))
}

func TestExtend_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestLockRepo(t, db)

	mock.ExpectExec("UPDATE sync_locks").
		WithArgs("item-1", "tok-123", float64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Extend(testContext(), "item-1", "tok-123", 30*time.Second))
}

func TestExtend_NotHeld(t *testing.T) {
	db, mock := newTestDB(t)
	repo := newTestLockRepo(t, db)

	mock.ExpectExec("UPDATE sync_locks").
		WithArgs("item-1", "tok-stale", float64(30)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Extend(testContext(), "item-1", "tok-stale", 30*time.Second)
	require.ErrorIs(t, err, ErrLockNotHeld)
}
