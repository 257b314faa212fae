package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/fintrack/ledger-sync/models"
)

const (
	// insertTransaction is the idempotent "added" apply. The unique index on
	// external_id turns a re-delivered delta into a zero-row no-op.
	insertTransaction = `INSERT INTO transactions (
			external_id,
			account_id,
			amount_minor_units,
			occurred_on,
			description,
			merchant,
			pending,
			version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		ON CONFLICT (external_id) DO NOTHING;`

	// updateTransaction is the unconditional "modified" apply: upstream data
	// wins, the version is bumped so optimistic readers notice the change.
	updateTransaction = `UPDATE transactions
		SET account_id = $2,
			amount_minor_units = $3,
			occurred_on = $4,
			description = $5,
			merchant = $6,
			pending = $7,
			version = version + 1,
			updated_at = NOW()
		WHERE external_id = $1;`

	// softDeleteTransaction marks a record removed without destroying it.
	// Already-deleted and absent records both produce zero affected rows.
	softDeleteTransaction = `UPDATE transactions
		SET deleted_at = NOW(),
			version = version + 1,
			updated_at = NOW()
		WHERE external_id = $1 AND deleted_at IS NULL;`

	getTransactionByExternalID = `SELECT id, external_id, account_id, amount_minor_units, occurred_on,
			description, merchant, pending, version, created_at, updated_at, deleted_at
		FROM transactions
		WHERE external_id = $1;`

	getSyncState = `SELECT item_id, cursor, status, last_sync_attempt_at, last_error_code, last_error_message
		FROM sync_states
		WHERE item_id = $1;`

	upsertCursor = `INSERT INTO sync_states (item_id, cursor, status, last_error_code, last_error_message, updated_at)
		VALUES ($1, $2, 'active', '', '', NOW())
		ON CONFLICT (item_id) DO UPDATE
		SET cursor = EXCLUDED.cursor,
			status = 'active',
			last_error_code = '',
			last_error_message = '',
			updated_at = NOW();`

	markSyncAttempt = `INSERT INTO sync_states (item_id, last_sync_attempt_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (item_id) DO UPDATE
		SET last_sync_attempt_at = NOW(),
			updated_at = NOW();`

	setSyncStatus = `INSERT INTO sync_states (item_id, status, last_error_code, last_error_message, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (item_id) DO UPDATE
		SET status = EXCLUDED.status,
			last_error_code = EXCLUDED.last_error_code,
			last_error_message = EXCLUDED.last_error_message,
			updated_at = NOW();`

	listSyncableItems = `SELECT item_id
		FROM sync_states
		WHERE status <> 'requires_reauth'
		ORDER BY item_id;`

	// acquireLock is a single-statement compare-and-swap: the upsert only
	// steals the row when the previous lease has expired, so exactly one
	// caller gets a row back.
	acquireLock = `INSERT INTO sync_locks (key, token, expires_at)
		VALUES ($1, $2, NOW() + $3 * INTERVAL '1 second')
		ON CONFLICT (key) DO UPDATE
		SET token = EXCLUDED.token,
			expires_at = EXCLUDED.expires_at
		WHERE sync_locks.expires_at < NOW()
		RETURNING token;`

	// releaseLock verifies token ownership so a holder whose lease expired
	// and was re-acquired cannot free somebody else's lock.
	releaseLock = `DELETE FROM sync_locks
		WHERE key = $1 AND token = $2;`

	extendLock = `UPDATE sync_locks
		SET expires_at = NOW() + $3 * INTERVAL '1 second'
		WHERE key = $1 AND token = $2 AND expires_at > NOW();`

	getItemCredential = `SELECT access_token
		FROM item_credentials
		WHERE item_id = $1;`
)

const (
	// updateWithVersionHead opens the CTE used by the conditional update.
	// target_record always yields a row when the transaction exists, so the
	// final LEFT JOIN distinguishes "not found" (no row at all) from
	// "version conflict" (row present, updated.id NULL).
	updateWithVersionHead = `WITH target_record AS (
		SELECT id, version FROM transactions WHERE external_id = $1
	), updated AS (
		UPDATE transactions t
		SET `
	updateWithVersionTail = `
		FROM target_record tr
		WHERE t.id = tr.id AND t.version = $2
		RETURNING t.id
	)
	SELECT updated.id, target_record.version
	FROM target_record
	LEFT JOIN updated ON TRUE;`
)

// buildUpdateWithVersionQuery dynamically assembles the conditional update
// for the non-nil fields of update. Positional args $1 and $2 are reserved
// for external_id and the expected version; SET arguments follow.
//
// When update carries no fields the returned args slice has exactly two
// entries; the caller treats that as a no-op.
func buildUpdateWithVersionQuery(update models.TransactionUpdate) (string, []any, error) {
	args := make([]any, 0, 5)
	args = append(args, update.ExternalID, update.Version)

	setClauses := make([]string, 0, 4)
	argIndex := 3

	if update.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *update.Description)
		argIndex++
	}

	if update.Merchant != nil {
		setClauses = append(setClauses, fmt.Sprintf("merchant = $%d", argIndex))
		args = append(args, *update.Merchant)
		argIndex++
	}

	if update.Pending != nil {
		setClauses = append(setClauses, fmt.Sprintf("pending = $%d", argIndex))
		args = append(args, *update.Pending)
		argIndex++
	}

	setClauses = append(setClauses, "version = t.version + 1", "updated_at = NOW()")

	queryBuilder := new(strings.Builder)
	queryBuilder.WriteString(updateWithVersionHead)
	queryBuilder.WriteString(strings.Join(setClauses, ", "))
	queryBuilder.WriteString(updateWithVersionTail)

	return queryBuilder.String(), args, nil
}

// buildListActiveQuery assembles the filtered active-transaction listing.
// Soft-deleted rows are always excluded; zero-valued filter fields add no
// predicates.
func buildListActiveQuery(filter models.TransactionFilter) (string, []any, error) {
	builder := sq.Select(
		"id", "external_id", "account_id", "amount_minor_units", "occurred_on",
		"description", "merchant", "pending", "version", "created_at", "updated_at", "deleted_at",
	).
		From("transactions").
		Where(sq.Eq{"deleted_at": nil}).
		PlaceholderFormat(sq.Dollar)

	if filter.AccountID != "" {
		builder = builder.Where(sq.Eq{"account_id": filter.AccountID})
	}
	if !filter.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"occurred_on": filter.From})
	}
	if !filter.To.IsZero() {
		builder = builder.Where(sq.LtOrEq{"occurred_on": filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.OrderBy("occurred_on DESC", "id DESC").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
