package models

import "time"

// TransactionDelta is one added or modified transaction reported by the
// upstream aggregator within a single page.
type TransactionDelta struct {
	ExternalID       string  `json:"transaction_id"`
	AccountID        string  `json:"account_id"`
	AmountMinorUnits int64   `json:"amount_minor_units"`
	OccurredOn       Date    `json:"date"`
	Description      string  `json:"description"`
	Merchant         *string `json:"merchant_name,omitempty"`
	Pending          bool    `json:"pending"`
}

// RemovedDelta identifies a transaction the upstream has removed.
type RemovedDelta struct {
	ExternalID string `json:"transaction_id"`
}

// SyncBatch is the decoded result of one delta page fetch. It is transient:
// it exists only within a single loop iteration of the sync coordinator and
// is never persisted.
type SyncBatch struct {
	Added    []TransactionDelta `json:"added"`
	Modified []TransactionDelta `json:"modified"`
	Removed  []RemovedDelta     `json:"removed"`

	// NextCursor is the position to persist once this batch is durably
	// applied, and to fetch from on the next iteration.
	NextCursor string `json:"next_cursor"`

	// HasMore reports whether further pages are available behind NextCursor.
	HasMore bool `json:"has_more"`
}

// Empty reports whether the batch carries no deltas at all.
func (b SyncBatch) Empty() bool {
	return len(b.Added) == 0 && len(b.Modified) == 0 && len(b.Removed) == 0
}

// Date is a calendar day encoded as "2006-01-02" on the wire.
// The upstream reports transaction dates without a time component.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// UnmarshalJSON implements json.Unmarshaler for the "2006-01-02" layout.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(`"`+dateLayout+`"`, s)
	if err != nil {
		return err
	}

	d.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler for the "2006-01-02" layout.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}

	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}
