package upstream

import "net/http"

// Upstream error identifiers with a known disposition. Codes not listed
// here fall through to the HTTP status classification, and unknown codes on
// a 4xx response are fatal.
const (
	codeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	codeInternalServerError = "INTERNAL_SERVER_ERROR"

	codeMutationDuringPagination = "TRANSACTIONS_SYNC_MUTATION_DURING_PAGINATION"

	codeItemLoginRequired  = "ITEM_LOGIN_REQUIRED"
	codeInvalidAccessToken = "INVALID_ACCESS_TOKEN"
	codeAccessNotGranted   = "ACCESS_NOT_GRANTED"
	codeItemLocked         = "ITEM_LOCKED"

	codeInvalidItem = "INVALID_ITEM_ID"
)

// classify maps an upstream error response to exactly one disposition.
//
// The error code is authoritative when recognised; the HTTP status is the
// fallback for responses without a decodable code. Per the error taxonomy:
// rate limits and upstream 5xx retry with backoff on the same cursor,
// pagination mutation restarts the loop from the original cursor,
// credential failures stop the run for user action, and everything else is
// fatal.
func classify(statusCode int, code, message string) *ClassifiedError {
	switch code {
	case codeRateLimitExceeded, codeInternalServerError:
		return &ClassifiedError{Disposition: DispositionTransient, Code: code, Message: message}

	case codeMutationDuringPagination:
		return &ClassifiedError{Disposition: DispositionPaginationRestart, Code: code, Message: message}

	case codeItemLoginRequired, codeInvalidAccessToken, codeAccessNotGranted, codeItemLocked:
		return &ClassifiedError{Disposition: DispositionReauth, Code: code, Message: message}

	case codeInvalidItem:
		return &ClassifiedError{Disposition: DispositionFatal, Code: code, Message: message}
	}

	if message == "" {
		message = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &ClassifiedError{Disposition: DispositionTransient, Code: code, Message: message}

	case statusCode >= http.StatusInternalServerError:
		return &ClassifiedError{Disposition: DispositionTransient, Code: code, Message: message}

	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &ClassifiedError{Disposition: DispositionReauth, Code: code, Message: message}

	default:
		return &ClassifiedError{Disposition: DispositionFatal, Code: code, Message: message}
	}
}

// classifyTransport wraps a transport-level failure (connection refused,
// timeout) as transient: the request never produced an upstream verdict, so
// retrying the same cursor is always safe.
func classifyTransport(err error) *ClassifiedError {
	return &ClassifiedError{
		Disposition: DispositionTransient,
		Message:     err.Error(),
		cause:       err,
	}
}

// classifyMalformed wraps an undecodable success response as fatal: the
// engine cannot trust a cursor it failed to parse.
func classifyMalformed(err error) *ClassifiedError {
	return &ClassifiedError{
		Disposition: DispositionFatal,
		Code:        "MALFORMED_RESPONSE",
		Message:     err.Error(),
		cause:       err,
	}
}
