package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signBody(t *testing.T, key string, body []byte) string {
	t.Helper()

	bodyHash := sha256.Sum256(body)
	claims := WebhookClaims{
		RequestBodySHA256: hex.EncodeToString(bodyHash[:]),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	body := []byte(`{"webhook_type":"TRANSACTIONS","item_id":"item-1"}`)
	token := signBody(t, "signing-key", body)

	require.NoError(t, VerifyWebhookSignature(token, "signing-key", body))
}

func TestVerifyWebhookSignature_WrongKey(t *testing.T) {
	body := []byte(`{}`)
	token := signBody(t, "signing-key", body)

	require.Error(t, VerifyWebhookSignature(token, "other-key", body))
}

func TestVerifyWebhookSignature_TamperedBody(t *testing.T) {
	token := signBody(t, "signing-key", []byte(`{"item_id":"item-1"}`))

	err := VerifyWebhookSignature(token, "signing-key", []byte(`{"item_id":"item-666"}`))
	require.Error(t, err)
}

func TestVerifyWebhookSignature_EmptyToken(t *testing.T) {
	require.Error(t, VerifyWebhookSignature("", "signing-key", []byte(`{}`)))
}

func TestVerifyWebhookSignature_MissingBodyHashClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}).SignedString([]byte("signing-key"))
	require.NoError(t, err)

	require.Error(t, VerifyWebhookSignature(signed, "signing-key", []byte(`{}`)))
}

func TestVerifyWebhookSignature_RejectsUnsignedAlg(t *testing.T) {
	body := []byte(`{}`)
	bodyHash := sha256.Sum256(body)
	claims := WebhookClaims{RequestBodySHA256: hex.EncodeToString(bodyHash[:])}

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	require.Error(t, VerifyWebhookSignature(signed, "signing-key", body))
}
