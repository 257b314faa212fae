package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyPgError(t *testing.T) {
	tests := []struct {
		name string
		code string
		want ErrorClassification
	}{
		{name: "connection failure", code: pgerrcode.ConnectionFailure, want: Retryable},
		{name: "serialization failure", code: pgerrcode.SerializationFailure, want: Retryable},
		{name: "deadlock detected", code: pgerrcode.DeadlockDetected, want: Retryable},
		{name: "cannot connect now", code: pgerrcode.CannotConnectNow, want: Retryable},
		{name: "unique violation", code: pgerrcode.UniqueViolation, want: NonRetryable},
		{name: "not null violation", code: pgerrcode.NotNullViolation, want: NonRetryable},
		{name: "undefined column", code: pgerrcode.UndefinedColumn, want: NonRetryable},
		{name: "unrecognised code", code: "P0001", want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPgError(&pgconn.PgError{Code: tt.code})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_UnwrapsPgError(t *testing.T) {
	classifier := NewPostgresErrorClassifier()

	wrapped := fmt.Errorf("%w: %w", ErrExecutingStatement, &pgconn.PgError{Code: pgerrcode.CheckViolation})
	assert.Equal(t, NonRetryable, classifier.Classify(wrapped))
}

func TestClassify_NonPostgresErrorIsRetryable(t *testing.T) {
	classifier := NewPostgresErrorClassifier()

	// never reached the server, a later attempt may get through
	assert.Equal(t, Retryable, classifier.Classify(errors.New("connection reset by peer")))
}
