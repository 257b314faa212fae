// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package http

import "errors"

// Sentinel errors used by the webhook receiver when validating a delivery.
// Callers can match against them with [errors.Is].
var (
	// ErrMissingSignatureHeader is returned when the delivery carries no
	// signature header at all.
	ErrMissingSignatureHeader = errors.New("missing webhook signature header")

	// ErrInvalidWebhookPayload is returned when the delivery body is not
	// valid JSON or names no item.
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")
)
