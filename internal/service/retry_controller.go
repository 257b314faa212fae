package service

import (
	"context"
	"errors"
	"time"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/upstream"
	"github.com/fintrack/ledger-sync/models"
	"github.com/sethvargo/go-retry"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second
)

// retryController wraps the upstream client with exponential backoff for
// transient failures. Only [upstream.DispositionTransient] errors are
// retried; every other disposition aborts immediately and surfaces to the
// coordinator unchanged.
//
// Pagination restarts are deliberately NOT retried here: retrying the same
// page against a mutated sequence cannot succeed. The coordinator discards
// the current loop's progress and re-enters from the original cursor.
type retryController struct {
	client     upstream.Client
	pageSize   int
	maxRetries uint64
	logger     *logger.Logger
}

// NewRetryController constructs a [PageFetcher] with the given retry budget
// (retries beyond the initial attempt) and fixed page size.
func NewRetryController(client upstream.Client, pageSize int, maxRetries int, logger *logger.Logger) PageFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &retryController{
		client:     client,
		pageSize:   pageSize,
		maxRetries: uint64(maxRetries),
		logger:     logger,
	}
}

// FetchPage implements [PageFetcher]. Backoff is exponential from 500ms
// with jitter, capped at 8s per gap. Exhausting the budget returns the last
// transient error.
func (r *retryController) FetchPage(ctx context.Context, accessCredential string, cursor models.Cursor) (models.SyncBatch, error) {
	log := logger.FromContext(ctx)

	backoff := retry.NewExponential(retryBaseDelay)
	backoff = retry.WithCappedDuration(retryMaxDelay, backoff)
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithMaxRetries(r.maxRetries, backoff)

	var batch models.SyncBatch
	attempt := 0

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		fetched, fetchErr := r.client.FetchPage(ctx, accessCredential, cursor, r.pageSize)
		if fetchErr == nil {
			batch = fetched
			return nil
		}

		var classified *upstream.ClassifiedError
		if errors.As(fetchErr, &classified) && classified.Disposition == upstream.DispositionTransient {
			log.Warn().
				Str("func", "retryController.FetchPage").
				Int("attempt", attempt).
				Stringer("cursor", cursor).
				Str("error_code", classified.Code).
				Msg("transient fetch failure, backing off")
			return retry.RetryableError(fetchErr)
		}

		return fetchErr
	})
	if err != nil {
		return models.SyncBatch{}, err
	}

	return batch, nil
}
