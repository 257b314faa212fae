package store

import (
	"testing"
	"time"

	"github.com/fintrack/ledger-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateWithVersionQuery_AllFields(t *testing.T) {
	pending := true
	update := models.TransactionUpdate{
		ExternalID:  "txn-1",
		Version:     4,
		Description: strPtr("new description"),
		Merchant:    strPtr("new merchant"),
		Pending:     &pending,
	}

	query, args, err := buildUpdateWithVersionQuery(update)
	require.NoError(t, err)

	require.Len(t, args, 5)
	assert.Equal(t, "txn-1", args[0])
	assert.Equal(t, int64(4), args[1])
	assert.Equal(t, "new description", args[2])
	assert.Equal(t, "new merchant", args[3])
	assert.Equal(t, true, args[4])

	assert.Contains(t, query, "description = $3")
	assert.Contains(t, query, "merchant = $4")
	assert.Contains(t, query, "pending = $5")
	assert.Contains(t, query, "version = t.version + 1")
}

func TestBuildUpdateWithVersionQuery_NoFields(t *testing.T) {
	update := models.TransactionUpdate{ExternalID: "txn-1", Version: 1}

	_, args, err := buildUpdateWithVersionQuery(update)
	require.NoError(t, err)

	// identity and version only: callers treat this as a no-op
	assert.Len(t, args, 2)
}

func TestBuildListActiveQuery(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	query, args, err := buildListActiveQuery(models.TransactionFilter{
		AccountID: "acc-1",
		From:      from,
		To:        to,
		Limit:     10,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "deleted_at IS NULL")
	assert.Contains(t, query, "account_id = $1")
	assert.Contains(t, query, "occurred_on >= $2")
	assert.Contains(t, query, "occurred_on <= $3")
	assert.Contains(t, query, "LIMIT 10")
	assert.Contains(t, query, "ORDER BY occurred_on DESC, id DESC")
	assert.Equal(t, []any{"acc-1", from, to}, args)
}

func TestBuildListActiveQuery_NoFilters(t *testing.T) {
	query, args, err := buildListActiveQuery(models.TransactionFilter{})
	require.NoError(t, err)

	assert.Contains(t, query, "deleted_at IS NULL")
	assert.NotContains(t, query, "account_id")
	assert.Empty(t, args)
}
