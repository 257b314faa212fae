package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.pingFn(ctx)
}

func getHealth(pinger Pinger) *httptest.ResponseRecorder {
	handler := NewHandler(&service.Services{}, pinger, "key", logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.health(rec, req)
	return rec
}

func TestHealth_OK(t *testing.T) {
	rec := getHealth(&mockPinger{pingFn: func(ctx context.Context) error { return nil }})

	require.Equal(t, http.StatusOK, rec.Code)

	var got healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
}

func TestHealth_DatabaseDown(t *testing.T) {
	rec := getHealth(&mockPinger{pingFn: func(ctx context.Context) error {
		return errors.New("connection refused")
	}})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var got healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "unavailable", got.Status)
}
