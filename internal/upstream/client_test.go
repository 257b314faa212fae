package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrack/ledger-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPAggregatorClient(HTTPClientConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	})
}

func TestFetchPage_Success(t *testing.T) {
	var gotRequest map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions/sync", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"added": [{"transaction_id": "txn-1", "account_id": "acc-1", "amount_minor_units": -450, "date": "2026-08-20", "description": "coffee", "pending": false}],
			"modified": [],
			"removed": [{"transaction_id": "txn-0"}],
			"next_cursor": "cur-2",
			"has_more": true
		}`))
	})

	batch, err := client.FetchPage(context.Background(), "access-abc", models.NewCursor("cur-1"), 500)
	require.NoError(t, err)

	assert.Equal(t, "access-abc", gotRequest["access_token"])
	assert.Equal(t, "cur-1", gotRequest["cursor"])
	assert.Equal(t, float64(500), gotRequest["count"])

	require.Len(t, batch.Added, 1)
	assert.Equal(t, "txn-1", batch.Added[0].ExternalID)
	assert.Equal(t, int64(-450), batch.Added[0].AmountMinorUnits)
	require.Len(t, batch.Removed, 1)
	assert.Equal(t, "cur-2", batch.NextCursor)
	assert.True(t, batch.HasMore)
}

func TestFetchPage_AbsentCursor_OmittedFromRequest(t *testing.T) {
	var gotRequest map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		w.Write([]byte(`{"added": [], "modified": [], "removed": [], "next_cursor": "cur-1", "has_more": false}`))
	})

	_, err := client.FetchPage(context.Background(), "access-abc", models.AbsentCursor(), 500)
	require.NoError(t, err)

	// absent cursor requests a full initial sync, no cursor field at all
	_, present := gotRequest["cursor"]
	assert.False(t, present)
}

func TestFetchPage_ErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code": "ITEM_LOGIN_REQUIRED", "error_message": "the login details have changed"}`))
	})

	_, err := client.FetchPage(context.Background(), "access-abc", models.AbsentCursor(), 500)
	require.Error(t, err)

	var classified *ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, DispositionReauth, classified.Disposition)
	assert.Equal(t, "ITEM_LOGIN_REQUIRED", classified.Code)
}

func TestFetchPage_ErrorStatus_UndecodableBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream maintenance"))
	})

	_, err := client.FetchPage(context.Background(), "access-abc", models.AbsentCursor(), 500)

	var classified *ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, DispositionTransient, classified.Disposition)
}

func TestFetchPage_ErrorCodeInSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error_code": "TRANSACTIONS_SYNC_MUTATION_DURING_PAGINATION", "error_message": "underlying data changed"}`))
	})

	_, err := client.FetchPage(context.Background(), "access-abc", models.NewCursor("cur-5"), 500)

	var classified *ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, DispositionPaginationRestart, classified.Disposition)
}

func TestFetchPage_MalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"added": [`))
	})

	_, err := client.FetchPage(context.Background(), "access-abc", models.AbsentCursor(), 500)

	var classified *ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, DispositionFatal, classified.Disposition)
	assert.Equal(t, "MALFORMED_RESPONSE", classified.Code)
}

func TestFetchPage_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewHTTPAggregatorClient(HTTPClientConfig{BaseURL: srv.URL, Timeout: time.Second})

	_, err := client.FetchPage(context.Background(), "access-abc", models.AbsentCursor(), 500)

	var classified *ClassifiedError
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, DispositionTransient, classified.Disposition)
}
