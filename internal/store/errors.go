package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrTransactionNotFound is returned when a query or conditional update
	// targets a transaction (identified by external_id) that does not exist
	// in the database.
	ErrTransactionNotFound = errors.New("transaction was not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the version supplied by the caller does not match the current version
	// stored in the database, meaning the record was modified since the
	// caller last read it. The caller should re-read and retry rather than
	// overwrite blindly.
	ErrVersionConflict = errors.New("transaction version conflict occurred")

	// ErrLockContended is returned by Acquire when another holder owns a
	// live lease on the requested lock key.
	ErrLockContended = errors.New("sync lock is held by another run")

	// ErrLockNotHeld is returned by Extend when the presented token no
	// longer owns a live lease (expired and possibly re-acquired).
	ErrLockNotHeld = errors.New("sync lock is not held by this token")

	// ErrCredentialNotFound is returned when no access credential is stored
	// for the requested item. This is fatal for a sync run: the engine
	// never degrades to an unauthenticated fetch.
	ErrCredentialNotFound = errors.New("item credential was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan transaction row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan transaction rows")

	// ErrNonRetryable wraps database failures that retrying cannot fix:
	// constraint violations, data exceptions, SQL errors. The coordinator
	// maps these to a fatal outcome instead of scheduling another run that
	// would hit the same wall.
	ErrNonRetryable = errors.New("database error is not retryable")
)
