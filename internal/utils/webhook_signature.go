package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// WebhookClaims is the claim set of the signature token the aggregator
// attaches to each webhook delivery. The body hash binds the signature to
// the exact payload bytes.
type WebhookClaims struct {
	RequestBodySHA256 string `json:"request_body_sha256"`
	jwt.RegisteredClaims
}

// VerifyWebhookSignature validates the HMAC-SHA256 signature token of a
// webhook delivery against the shared signing key and checks that the
// token's body-hash claim matches the delivered payload.
//
// Returns an error when the token fails signature or time-based validation,
// uses a signing method other than HS256, omits the body-hash claim, or the
// claim does not match the payload.
func VerifyWebhookSignature(tokenString, signKey string, body []byte) error {
	if tokenString == "" {
		return errors.New("empty webhook signature token")
	}

	var claims WebhookClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("error occurred validating webhook signature token: %w", err)
	}

	if claims.RequestBodySHA256 == "" {
		return errors.New("webhook signature token has no body hash claim")
	}

	bodyHash := sha256.Sum256(body)
	expected := hex.EncodeToString(bodyHash[:])
	if subtle.ConstantTimeCompare([]byte(expected), []byte(claims.RequestBodySHA256)) != 1 {
		return errors.New("webhook payload does not match signed body hash")
	}

	return nil
}
