package upstream

import "fmt"

// Disposition is the engine-facing interpretation of an upstream failure.
// Every fetch error is converted into exactly one disposition before any
// control-flow decision is made; no raw upstream error ever reaches the
// sync coordinator uninterpreted.
type Disposition string

const (
	// DispositionTransient: retry the same cursor with backoff
	// (rate limits, upstream 5xx, transport timeouts).
	DispositionTransient Disposition = "transient"

	// DispositionPaginationRestart: a concurrent mutation invalidated the
	// in-flight page sequence; the whole loop restarts from the cursor
	// recorded at loop entry.
	DispositionPaginationRestart Disposition = "pagination_restart"

	// DispositionReauth: the stored credential no longer authenticates.
	// Terminal for the run; no retry can succeed without user action.
	DispositionReauth Disposition = "reauth"

	// DispositionFatal: malformed response, unknown item, or any other
	// non-retryable failure. Terminal, logged, no retry.
	DispositionFatal Disposition = "fatal"
)

// ClassifiedError is an upstream failure carrying its disposition. The
// retry controller and sync coordinator branch on Disposition only; Code
// and Message are recorded on the item's sync state for operators.
type ClassifiedError struct {
	Disposition Disposition
	Code        string
	Message     string
	cause       error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("upstream error (%s): %s", e.Disposition, e.Message)
	}

	return fmt.Sprintf("upstream error (%s) %s: %s", e.Disposition, e.Code, e.Message)
}

// Unwrap exposes the underlying transport or decode error, when any.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}
