package store

import (
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestCredential_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCredentialRepository(newDBFromSQL(db), logger.Nop())

	rows := sqlmock.NewRows([]string{"access_token"}).AddRow("access-abc")

	mock.ExpectQuery("SELECT access_token").
		WithArgs("item-1").
		WillReturnRows(rows)

	credential, err := repo.Credential(testContext(), "item-1")
	require.NoError(t, err)
	require.Equal(t, "access-abc", credential)
}

func TestCredential_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCredentialRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery("SELECT access_token").
		WithArgs("item-unlinked").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Credential(testContext(), "item-unlinked")
	require.ErrorIs(t, err, ErrCredentialNotFound)
}
