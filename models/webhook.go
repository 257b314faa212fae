package models

// WebhookNotification is the payload delivered by the upstream aggregator
// when new transaction data is available for an item. It is treated purely
// as a trigger: delivery deduplication is unnecessary because sync runs are
// lock-guarded and idempotent.
type WebhookNotification struct {
	WebhookType string `json:"webhook_type"`
	WebhookCode string `json:"webhook_code"`
	ItemID      string `json:"item_id"`
}

// WebhookTypeTransactions is the only webhook type the engine acts on.
const WebhookTypeTransactions = "TRANSACTIONS"
