package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/service"
	"github.com/fintrack/ledger-sync/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func newWebhookHandler(t *testing.T) (*Handler, service.SyncTrigger) {
	t.Helper()

	trigger := service.NewSyncTrigger(4, logger.Nop())
	handler := NewHandler(&service.Services{Trigger: trigger}, nil, testSigningKey, logger.Nop())

	return handler, trigger
}

func signWebhookBody(t *testing.T, key string, body []byte) string {
	t.Helper()

	bodyHash := sha256.Sum256(body)
	claims := utils.WebhookClaims{
		RequestBodySHA256: hex.EncodeToString(bodyHash[:]),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func postWebhook(handler *Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/transactions", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}

	rec := httptest.NewRecorder()
	handler.transactionsWebhook(rec, req)
	return rec
}

func TestTransactionsWebhook_SignedDelivery_EnqueuesSync(t *testing.T) {
	handler, trigger := newWebhookHandler(t)

	body := []byte(`{"webhook_type":"TRANSACTIONS","webhook_code":"SYNC_UPDATES_AVAILABLE","item_id":"item-1"}`)

	rec := postWebhook(handler, body, signWebhookBody(t, testSigningKey, body))

	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case itemID := <-trigger.Triggers():
		assert.Equal(t, "item-1", itemID)
	default:
		t.Fatal("expected a sync trigger to be enqueued")
	}
}

func TestTransactionsWebhook_MissingSignature_Unauthorized(t *testing.T) {
	handler, trigger := newWebhookHandler(t)

	body := []byte(`{"webhook_type":"TRANSACTIONS","item_id":"item-1"}`)

	rec := postWebhook(handler, body, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, trigger.Triggers())
}

func TestTransactionsWebhook_TamperedBody_Unauthorized(t *testing.T) {
	handler, trigger := newWebhookHandler(t)

	signed := signWebhookBody(t, testSigningKey, []byte(`{"item_id":"item-1"}`))
	tampered := []byte(`{"webhook_type":"TRANSACTIONS","item_id":"item-666"}`)

	rec := postWebhook(handler, tampered, signed)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, trigger.Triggers())
}

func TestTransactionsWebhook_WrongSigningKey_Unauthorized(t *testing.T) {
	handler, trigger := newWebhookHandler(t)

	body := []byte(`{"webhook_type":"TRANSACTIONS","item_id":"item-1"}`)

	rec := postWebhook(handler, body, signWebhookBody(t, "attacker-key", body))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, trigger.Triggers())
}

func TestTransactionsWebhook_InvalidJSON_BadRequest(t *testing.T) {
	handler, _ := newWebhookHandler(t)

	body := []byte(`{"webhook_type":`)

	rec := postWebhook(handler, body, signWebhookBody(t, testSigningKey, body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionsWebhook_NoItemID_BadRequest(t *testing.T) {
	handler, _ := newWebhookHandler(t)

	body := []byte(`{"webhook_type":"TRANSACTIONS"}`)

	rec := postWebhook(handler, body, signWebhookBody(t, testSigningKey, body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionsWebhook_OtherWebhookType_AcknowledgedAndIgnored(t *testing.T) {
	handler, trigger := newWebhookHandler(t)

	body := []byte(`{"webhook_type":"ITEM","webhook_code":"PENDING_EXPIRATION","item_id":"item-1"}`)

	rec := postWebhook(handler, body, signWebhookBody(t, testSigningKey, body))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, trigger.Triggers())
}
