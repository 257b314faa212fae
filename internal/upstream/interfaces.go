package upstream

//go:generate mockgen -source=interfaces.go -destination=../mock/upstream_client_mock.go -package=mock

import (
	"context"

	"github.com/fintrack/ledger-sync/models"
)

// Client fetches one delta page per call from the upstream aggregator.
// Errors are always *ClassifiedError values: the client owns error
// interpretation so callers only ever branch on a disposition.
type Client interface {
	FetchPage(ctx context.Context, accessCredential string, cursor models.Cursor, pageSize int) (models.SyncBatch, error)
}
