package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/ledger-sync/internal/config"
	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}

	return db, nil
}

func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB)
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// classified tags err with [ErrNonRetryable] when the classifier rules a
// retry out, so callers up the stack can map the failure to a terminal
// outcome with a single [errors.Is] check. Retryable errors pass through
// untouched.
func (db *DB) classified(err error) error {
	if db.errorClassificator.Classify(err) == NonRetryable {
		db.logger.Debug().
			Str("func", "DB.classified").
			Str("pg_code", postgresError(err)).
			Msg("database error is not retryable")
		return fmt.Errorf("%w: %w", ErrNonRetryable, err)
	}

	return err
}
