package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/mock"
	"github.com/fintrack/ledger-sync/internal/upstream"
	"github.com/fintrack/ledger-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func transientErr(code string) *upstream.ClassifiedError {
	return &upstream.ClassifiedError{Disposition: upstream.DispositionTransient, Code: code, Message: "try later"}
}

func TestRetryControllerFetchPage_TransientThenSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	cursor := models.NewCursor("cur-1")
	want := models.SyncBatch{NextCursor: "cur-2", HasMore: false}

	gomock.InOrder(
		client.EXPECT().FetchPage(gomock.Any(), "access-abc", cursor, 500).
			Return(models.SyncBatch{}, transientErr("RATE_LIMIT_EXCEEDED")),
		client.EXPECT().FetchPage(gomock.Any(), "access-abc", cursor, 500).
			Return(want, nil),
	)

	fetcher := NewRetryController(client, 500, 3, logger.Nop())

	got, err := fetcher.FetchPage(context.Background(), "access-abc", cursor)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRetryControllerFetchPage_NonTransientNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	reauth := &upstream.ClassifiedError{Disposition: upstream.DispositionReauth, Code: "ITEM_LOGIN_REQUIRED"}

	// exactly one call: credential failures must never burn the retry budget
	client.EXPECT().FetchPage(gomock.Any(), "access-abc", gomock.Any(), 500).
		Return(models.SyncBatch{}, reauth).
		Times(1)

	fetcher := NewRetryController(client, 500, 3, logger.Nop())

	_, err := fetcher.FetchPage(context.Background(), "access-abc", models.AbsentCursor())

	var classified *upstream.ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, upstream.DispositionReauth, classified.Disposition)
}

func TestRetryControllerFetchPage_PaginationRestartNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	restart := &upstream.ClassifiedError{Disposition: upstream.DispositionPaginationRestart, Code: "TRANSACTIONS_SYNC_MUTATION_DURING_PAGINATION"}

	client.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.SyncBatch{}, restart).
		Times(1)

	fetcher := NewRetryController(client, 500, 3, logger.Nop())

	_, err := fetcher.FetchPage(context.Background(), "access-abc", models.NewCursor("cur-3"))

	var classified *upstream.ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, upstream.DispositionPaginationRestart, classified.Disposition)
}

func TestRetryControllerFetchPage_BudgetExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)

	// initial attempt plus one retry
	client.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.SyncBatch{}, transientErr("INTERNAL_SERVER_ERROR")).
		Times(2)

	fetcher := NewRetryController(client, 500, 1, logger.Nop())

	_, err := fetcher.FetchPage(context.Background(), "access-abc", models.AbsentCursor())

	var classified *upstream.ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, upstream.DispositionTransient, classified.Disposition)
}

func TestRetryControllerFetchPage_PlainErrorNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	cause := errors.New("programming error")

	client.EXPECT().FetchPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.SyncBatch{}, cause).
		Times(1)

	fetcher := NewRetryController(client, 500, 3, logger.Nop())

	_, err := fetcher.FetchPage(context.Background(), "access-abc", models.AbsentCursor())
	require.ErrorIs(t, err, cause)
}
