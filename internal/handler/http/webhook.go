package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/utils"
	"github.com/fintrack/ledger-sync/models"
)

const signatureHeader = "X-Webhook-Signature"

// maxWebhookBodySize bounds the delivery body read into memory.
const maxWebhookBodySize = 64 * 1024

// transactionsWebhook receives an aggregator delivery, verifies its
// signature against the shared signing key and enqueues a sync trigger for
// the named item. The response is 202 regardless of queue placement: a
// dropped trigger is picked up by the scheduled sweep, and webhooks must
// never be retried into a thundering herd.
func (h *Handler) transactionsWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	tokenString := r.Header.Get(signatureHeader)
	if tokenString == "" {
		log.Err(ErrMissingSignatureHeader).Str("func", "*Handler.transactionsWebhook").Send()
		http.Error(w, ErrMissingSignatureHeader.Error(), http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		log.Err(err).Str("func", "*Handler.transactionsWebhook").Msg("error reading webhook body")
		http.Error(w, "error reading webhook body", http.StatusBadRequest)
		return
	}

	if err = utils.VerifyWebhookSignature(tokenString, h.webhookSigningKey, body); err != nil {
		log.Err(err).Str("func", "*Handler.transactionsWebhook").Msg("webhook signature verification failed")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var notification models.WebhookNotification
	if err = json.Unmarshal(body, &notification); err != nil {
		log.Err(err).Str("func", "*Handler.transactionsWebhook").Msg("Invalid JSON was passed")
		http.Error(w, ErrInvalidWebhookPayload.Error(), http.StatusBadRequest)
		return
	}

	if notification.ItemID == "" {
		log.Err(ErrInvalidWebhookPayload).Str("func", "*Handler.transactionsWebhook").Msg("webhook names no item")
		http.Error(w, ErrInvalidWebhookPayload.Error(), http.StatusBadRequest)
		return
	}

	// other webhook types are acknowledged and ignored
	if notification.WebhookType == models.WebhookTypeTransactions {
		enqueued := h.services.Trigger.EnqueueSync(notification.ItemID)
		log.Info().
			Str("func", "*Handler.transactionsWebhook").
			Str("item_id", notification.ItemID).
			Str("webhook_code", notification.WebhookCode).
			Bool("enqueued", enqueued).
			Msg("transactions webhook received")
	}

	w.WriteHeader(http.StatusAccepted)
}
