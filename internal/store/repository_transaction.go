package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/models"
)

// transactionRepository is the PostgreSQL-backed implementation of
// [TransactionRepository]. It executes all reconciliation writes against the
// "transactions" table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (external_id, batch sizes, iteration index, etc.).
type transactionRepository struct {
	*DB
	logger *logger.Logger
}

// NewTransactionRepository constructs a [TransactionRepository] backed by
// the provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewTransactionRepository(db *DB, logger *logger.Logger) TransactionRepository {
	return &transactionRepository{
		DB:     db,
		logger: logger,
	}
}

// ApplyBatch applies one page of deltas inside a single database transaction.
//
// Ordering within the batch: added first, then modified, then removed. Each
// class of delta is idempotent on its own:
//   - added → INSERT ... ON CONFLICT (external_id) DO NOTHING; a re-delivered
//     delta affects zero rows and is not counted.
//   - modified → version-bumping UPDATE by external_id; zero affected rows
//     means the record was never seen (upstream ordering is not guaranteed),
//     so the delta is applied as an implicit add and counted under Added.
//   - removed → soft delete; absent or already-deleted records are no-ops.
//
// The transaction commits only after every delta is applied, so a crash
// mid-batch rolls the whole page back and the caller never persists the
// page's cursor.
func (t *transactionRepository) ApplyBatch(ctx context.Context, batch models.SyncBatch) (models.ApplyResult, error) {
	log := logger.FromContext(ctx)

	var result models.ApplyResult

	if batch.Empty() {
		log.Debug().
			Str("func", "transactionRepository.ApplyBatch").
			Msg("empty batch, nothing to apply")
		return result, nil
	}

	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "transactionRepository.ApplyBatch").
			Int("added", len(batch.Added)).
			Int("modified", len(batch.Modified)).
			Int("removed", len(batch.Removed)).
			Msg("failed to begin transaction")
		return result, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	added, err := t.applyAdded(ctx, tx, batch.Added)
	if err != nil {
		return models.ApplyResult{}, err
	}
	result.Added += added

	modified, implicitlyAdded, err := t.applyModified(ctx, tx, batch.Modified)
	if err != nil {
		return models.ApplyResult{}, err
	}
	result.Modified += modified
	result.Added += implicitlyAdded

	removed, err := t.applyRemoved(ctx, tx, batch.Removed)
	if err != nil {
		return models.ApplyResult{}, err
	}
	result.Removed += removed

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "transactionRepository.ApplyBatch").
			Msg("failed to commit transaction")
		return models.ApplyResult{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, t.classified(commitErr))
	}

	log.Info().
		Str("func", "transactionRepository.ApplyBatch").
		Int("added", result.Added).
		Int("modified", result.Modified).
		Int("removed", result.Removed).
		Msg("successfully applied delta batch")

	return result, nil
}

// applyAdded inserts new records through a prepared statement, counting only
// rows actually inserted so that re-delivered deltas stay invisible in the
// outcome counters.
func (t *transactionRepository) applyAdded(ctx context.Context, tx *sql.Tx, deltas []models.TransactionDelta) (int, error) {
	if len(deltas) == 0 {
		return 0, nil
	}

	log := logger.FromContext(ctx)

	stmt, err := tx.PrepareContext(ctx, insertTransaction)
	if err != nil {
		log.Err(err).
			Str("func", "transactionRepository.applyAdded").
			Int("count", len(deltas)).
			Msg("failed to prepare statement")
		return 0, fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	inserted := 0
	for idx, delta := range deltas {
		log.Debug().
			Str("func", "transactionRepository.applyAdded").
			Int("iteration", idx+1).
			Int("total", len(deltas)).
			Str("external_id", delta.ExternalID).
			Msg("inserting transaction in batch")

		res, execErr := stmt.ExecContext(ctx,
			delta.ExternalID,
			delta.AccountID,
			delta.AmountMinorUnits,
			delta.OccurredOn.Time,
			delta.Description,
			delta.Merchant,
			delta.Pending,
		)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "transactionRepository.applyAdded").
				Int("iteration", idx+1).
				Str("external_id", delta.ExternalID).
				Msg("failed to execute prepared insert")
			return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, t.classified(execErr))
		}

		rowsAffected, _ := res.RowsAffected()
		if rowsAffected == 0 {
			// re-delivered delta hit the uniqueness constraint
			log.Debug().
				Str("func", "transactionRepository.applyAdded").
				Str("external_id", delta.ExternalID).
				Msg("transaction already exists, skipping")
			continue
		}

		inserted++
	}

	return inserted, nil
}

// applyModified updates records in place; a delta for an unknown external id
// falls back to an insert. Returns the modified and implicitly-added counts.
func (t *transactionRepository) applyModified(ctx context.Context, tx *sql.Tx, deltas []models.TransactionDelta) (int, int, error) {
	if len(deltas) == 0 {
		return 0, 0, nil
	}

	log := logger.FromContext(ctx)

	modified := 0
	implicitlyAdded := 0

	for idx, delta := range deltas {
		res, execErr := tx.ExecContext(ctx, updateTransaction,
			delta.ExternalID,
			delta.AccountID,
			delta.AmountMinorUnits,
			delta.OccurredOn.Time,
			delta.Description,
			delta.Merchant,
			delta.Pending,
		)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "transactionRepository.applyModified").
				Int("iteration", idx+1).
				Str("external_id", delta.ExternalID).
				Msg("failed to execute update")
			return 0, 0, fmt.Errorf("%w: %w", ErrExecutingStatement, t.classified(execErr))
		}

		rowsAffected, _ := res.RowsAffected()
		if rowsAffected > 0 {
			modified++
			continue
		}

		// record never seen: upstream ordering is not guaranteed, apply
		// the modification as an implicit add
		log.Warn().
			Str("func", "transactionRepository.applyModified").
			Str("external_id", delta.ExternalID).
			Msg("modified delta for unknown transaction, applying as implicit add")

		insertRes, insertErr := tx.ExecContext(ctx, insertTransaction,
			delta.ExternalID,
			delta.AccountID,
			delta.AmountMinorUnits,
			delta.OccurredOn.Time,
			delta.Description,
			delta.Merchant,
			delta.Pending,
		)
		if insertErr != nil {
			log.Err(insertErr).
				Str("func", "transactionRepository.applyModified").
				Str("external_id", delta.ExternalID).
				Msg("failed to execute implicit add")
			return 0, 0, fmt.Errorf("%w: %w", ErrExecutingStatement, t.classified(insertErr))
		}

		if inserted, _ := insertRes.RowsAffected(); inserted > 0 {
			implicitlyAdded++
		}
	}

	return modified, implicitlyAdded, nil
}

// applyRemoved soft-deletes records; absent and already-deleted records are
// silent no-ops.
func (t *transactionRepository) applyRemoved(ctx context.Context, tx *sql.Tx, deltas []models.RemovedDelta) (int, error) {
	if len(deltas) == 0 {
		return 0, nil
	}

	log := logger.FromContext(ctx)

	removed := 0
	for idx, delta := range deltas {
		res, execErr := tx.ExecContext(ctx, softDeleteTransaction, delta.ExternalID)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "transactionRepository.applyRemoved").
				Int("iteration", idx+1).
				Str("external_id", delta.ExternalID).
				Msg("failed to execute soft delete")
			return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, t.classified(execErr))
		}

		rowsAffected, _ := res.RowsAffected()
		if rowsAffected == 0 {
			log.Debug().
				Str("func", "transactionRepository.applyRemoved").
				Str("external_id", delta.ExternalID).
				Msg("transaction absent or already deleted, skipping")
			continue
		}

		removed++
	}

	return removed, nil
}

// UpdateWithVersion applies a conditional partial update with optimistic
// locking.
//
// The method builds a dynamic CTE update via [buildUpdateWithVersionQuery],
// executes it, and inspects the result to determine the outcome:
//   - Both updatedID and currentDBVersion are non-NULL → success.
//   - No row at all → record not found ([ErrTransactionNotFound]).
//   - updatedID is NULL but currentDBVersion is non-NULL → version mismatch
//     ([ErrVersionConflict]); the caller should re-read and retry.
//
// If update carries no fields beyond identity and version, the method
// returns nil immediately as a no-op.
func (t *transactionRepository) UpdateWithVersion(ctx context.Context, update models.TransactionUpdate) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateWithVersionQuery(update)
	if err != nil {
		log.Err(err).
			Str("func", "transactionRepository.UpdateWithVersion").
			Str("external_id", update.ExternalID).
			Msg("failed to build update query")
		return err
	}

	if len(args) == 2 {
		log.Warn().
			Str("func", "transactionRepository.UpdateWithVersion").
			Str("external_id", update.ExternalID).
			Msg("no fields to update, skipping")
		return nil
	}

	var updatedID *int64
	var currentDBVersion *int64

	queryRowErr := t.DB.QueryRowContext(ctx, query, args...).Scan(&updatedID, &currentDBVersion)
	if queryRowErr != nil {
		// target_record empty -> no result row at all
		if errors.Is(queryRowErr, sql.ErrNoRows) {
			log.Warn().
				Str("func", "transactionRepository.UpdateWithVersion").
				Str("external_id", update.ExternalID).
				Msg("record not found")
			return ErrTransactionNotFound
		}

		log.Err(queryRowErr).
			Str("func", "transactionRepository.UpdateWithVersion").
			Str("external_id", update.ExternalID).
			Msg("failed to execute update query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	// record found, but UPDATE didn't apply - version mismatch
	if updatedID == nil {
		log.Warn().
			Str("func", "transactionRepository.UpdateWithVersion").
			Str("external_id", update.ExternalID).
			Int64("db_version", *currentDBVersion).
			Int64("provided_version", update.Version).
			Msg("optimistic lock failed: version mismatch")
		return fmt.Errorf("failed to update transaction: %w", ErrVersionConflict)
	}

	log.Info().
		Str("func", "transactionRepository.UpdateWithVersion").
		Str("external_id", update.ExternalID).
		Msg("successfully updated transaction")

	return nil
}

// GetByExternalID retrieves one transaction by its upstream identifier,
// including soft-deleted records.
func (t *transactionRepository) GetByExternalID(ctx context.Context, externalID string) (models.Transaction, error) {
	log := logger.FromContext(ctx)

	var item models.Transaction

	scanErr := t.DB.QueryRowContext(ctx, getTransactionByExternalID, externalID).Scan(
		&item.ID,
		&item.ExternalID,
		&item.AccountID,
		&item.AmountMinorUnits,
		&item.OccurredOn,
		&item.Description,
		&item.Merchant,
		&item.Pending,
		&item.Version,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DeletedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Transaction{}, ErrTransactionNotFound
		}

		log.Err(scanErr).
			Str("func", "transactionRepository.GetByExternalID").
			Str("external_id", externalID).
			Msg("failed to scan transaction row")
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return item, nil
}

// ListActive retrieves non-deleted transactions matching filter, most recent
// first. Consumed by the reporting layer, which never sees soft-deleted rows.
func (t *transactionRepository) ListActive(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListActiveQuery(filter)
	if err != nil {
		log.Err(err).
			Str("func", "transactionRepository.ListActive").
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := t.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "transactionRepository.ListActive").
			Str("account_id", filter.AccountID).
			Msg("failed to execute query for listing active transactions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	results := make([]models.Transaction, 0, 50)

	for rows.Next() {
		var item models.Transaction

		scanErr := rows.Scan(
			&item.ID,
			&item.ExternalID,
			&item.AccountID,
			&item.AmountMinorUnits,
			&item.OccurredOn,
			&item.Description,
			&item.Merchant,
			&item.Pending,
			&item.Version,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.DeletedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "transactionRepository.ListActive").
				Msg("failed to scan transaction row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "transactionRepository.ListActive").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
