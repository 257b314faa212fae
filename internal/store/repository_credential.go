package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/ledger-sync/internal/logger"
)

// credentialRepository hands out the opaque upstream access credential
// stored for an item. The engine treats the credential as a capability: it
// is passed through to the page fetcher untouched and never logged.
type credentialRepository struct {
	*DB
	logger *logger.Logger
}

// NewCredentialRepository constructs a [CredentialRepository] backed by the
// provided database connection and logger.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	return &credentialRepository{
		DB:     db,
		logger: logger,
	}
}

// Credential returns the access credential for itemID, or
// [ErrCredentialNotFound] when none is stored. Absence is terminal for a
// sync run; there is no unauthenticated fallback.
func (c *credentialRepository) Credential(ctx context.Context, itemID string) (string, error) {
	log := logger.FromContext(ctx)

	var accessToken string
	scanErr := c.DB.QueryRowContext(ctx, getItemCredential, itemID).Scan(&accessToken)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			log.Warn().
				Str("func", "credentialRepository.Credential").
				Str("item_id", itemID).
				Msg("no credential stored for item")
			return "", ErrCredentialNotFound
		}

		log.Err(scanErr).
			Str("func", "credentialRepository.Credential").
			Str("item_id", itemID).
			Msg("failed to read item credential")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return accessToken, nil
}
