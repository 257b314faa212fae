package store

import (
	"github.com/fintrack/ledger-sync/internal/logger"
)

// Repositories aggregates every persistence-layer dependency the service
// layer needs, all backed by the same [*DB] connection.
type Repositories struct {
	Transactions TransactionRepository
	SyncStates   SyncStateRepository
	Locks        LockRepository
	Credentials  CredentialRepository
}

func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		Transactions: NewTransactionRepository(db, logger),
		SyncStates:   NewSyncStateRepository(db, logger),
		Locks:        NewLockRepository(db, logger),
		Credentials:  NewCredentialRepository(db, logger),
	}
}
