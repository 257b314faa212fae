package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/models"
)

// syncStateRepository is the PostgreSQL-backed implementation of
// [SyncStateRepository]. One row per item in the "sync_states" table holds
// the durable sync checkpoint: cursor, status, and last error fields.
//
// The cursor column is normalized at this boundary: NULL, empty, and
// whitespace-only values all read back as the absent cursor, and the absent
// cursor writes back as NULL. Nothing above the repository has to agree on
// which encoding means "no progress yet".
type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs a [SyncStateRepository] backed by the
// provided database connection and logger.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateRepository {
	return &syncStateRepository{
		DB:     db,
		logger: logger,
	}
}

// Get retrieves the item's sync state. A missing row is not an error: the
// item simply has no progress yet, so a zero state with an absent cursor and
// active status is returned.
func (s *syncStateRepository) Get(ctx context.Context, itemID string) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	var (
		state     models.SyncState
		rawCursor sql.NullString
	)

	scanErr := s.DB.QueryRowContext(ctx, getSyncState, itemID).Scan(
		&state.ItemID,
		&rawCursor,
		&state.Status,
		&state.LastSyncAttemptAt,
		&state.LastErrorCode,
		&state.LastErrorMessage,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			log.Debug().
				Str("func", "syncStateRepository.Get").
				Str("item_id", itemID).
				Msg("no sync state yet, initial sync required")
			return models.SyncState{
				ItemID: itemID,
				Cursor: models.AbsentCursor(),
				Status: models.ItemStatusActive,
			}, nil
		}

		log.Err(scanErr).
			Str("func", "syncStateRepository.Get").
			Str("item_id", itemID).
			Msg("failed to scan sync state row")
		return models.SyncState{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	// NULL, empty and whitespace-only all collapse to absent here
	state.Cursor = models.NewCursor(rawCursor.String)

	return state, nil
}

// SetCursor persists the cursor of a durably-applied page and resets the
// item's status to active with cleared error fields. Persisting an absent
// cursor stores NULL.
func (s *syncStateRepository) SetCursor(ctx context.Context, itemID string, cursor models.Cursor) error {
	log := logger.FromContext(ctx)

	var rawCursor sql.NullString
	if cursor.Present() {
		rawCursor = sql.NullString{String: cursor.Value(), Valid: true}
	}

	_, execErr := s.DB.ExecContext(ctx, upsertCursor, itemID, rawCursor)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "syncStateRepository.SetCursor").
			Str("item_id", itemID).
			Stringer("cursor", cursor).
			Msg("failed to persist cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, s.classified(execErr))
	}

	log.Debug().
		Str("func", "syncStateRepository.SetCursor").
		Str("item_id", itemID).
		Stringer("cursor", cursor).
		Msg("persisted cursor")

	return nil
}

// MarkAttempt records the start of a sync run on the item's state row,
// creating the row if this is the first run ever.
func (s *syncStateRepository) MarkAttempt(ctx context.Context, itemID string) error {
	log := logger.FromContext(ctx)

	_, execErr := s.DB.ExecContext(ctx, markSyncAttempt, itemID)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "syncStateRepository.MarkAttempt").
			Str("item_id", itemID).
			Msg("failed to mark sync attempt")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// SetStatus records a terminal run outcome with its error code and message.
// Reauth and fatal outcomes land here so the notification layer can surface
// actionable account-health state instead of the error being swallowed.
func (s *syncStateRepository) SetStatus(ctx context.Context, itemID string, status models.ItemStatus, code, message string) error {
	log := logger.FromContext(ctx)

	_, execErr := s.DB.ExecContext(ctx, setSyncStatus, itemID, status, code, message)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "syncStateRepository.SetStatus").
			Str("item_id", itemID).
			Str("status", string(status)).
			Msg("failed to set sync status")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	log.Info().
		Str("func", "syncStateRepository.SetStatus").
		Str("item_id", itemID).
		Str("status", string(status)).
		Str("error_code", code).
		Msg("recorded sync status")

	return nil
}

// ListSyncableItems returns the ids of every item the scheduled sweep should
// re-sync. Items requiring re-authentication are excluded: syncing them is
// pointless until the user re-links the account.
func (s *syncStateRepository) ListSyncableItems(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := s.DB.QueryContext(ctx, listSyncableItems)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "syncStateRepository.ListSyncableItems").
			Msg("failed to execute query for listing syncable items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	items := make([]string, 0, 50)

	for rows.Next() {
		var itemID string
		if scanErr := rows.Scan(&itemID); scanErr != nil {
			log.Err(scanErr).
				Str("func", "syncStateRepository.ListSyncableItems").
				Msg("failed to scan item id")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		items = append(items, itemID)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "syncStateRepository.ListSyncableItems").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return items, nil
}
