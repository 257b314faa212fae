// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

// Package upstream implements the aggregator delta API client and the
// classifier that converts upstream failures into engine dispositions.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/ledger-sync/models"
	"github.com/go-resty/resty/v2"
)

type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// syncRequest is the wire shape of one delta page request. The cursor field
// is omitted entirely for the absent cursor, which the upstream interprets
// as "start a full initial sync".
type syncRequest struct {
	AccessToken string `json:"access_token"`
	Cursor      string `json:"cursor,omitempty"`
	Count       int    `json:"count"`
}

// syncResponse is the wire shape of one delta page, or of an error body
// when the upstream rejects the request.
type syncResponse struct {
	Added      []models.TransactionDelta `json:"added"`
	Modified   []models.TransactionDelta `json:"modified"`
	Removed    []models.RemovedDelta     `json:"removed"`
	NextCursor string                    `json:"next_cursor"`
	HasMore    bool                      `json:"has_more"`

	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type httpAggregatorClient struct {
	client *resty.Client
}

// NewHTTPAggregatorClient constructs a [Client] for the aggregator's
// cursor-based incremental sync API.
func NewHTTPAggregatorClient(cfg HTTPClientConfig) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpAggregatorClient{client: cli}
}

// FetchPage issues one paginated delta request. The returned error, when
// non-nil, is always a *ClassifiedError.
func (h *httpAggregatorClient) FetchPage(ctx context.Context, accessCredential string, cursor models.Cursor, pageSize int) (models.SyncBatch, error) {
	req := syncRequest{
		AccessToken: accessCredential,
		Cursor:      cursor.Value(),
		Count:       pageSize,
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/transactions/sync")
	if err != nil {
		return models.SyncBatch{}, classifyTransport(fmt.Errorf("sync request: %w", err))
	}

	if resp.IsError() {
		return models.SyncBatch{}, mapErrorResponse(resp)
	}

	var decoded syncResponse
	if err = json.Unmarshal(resp.Body(), &decoded); err != nil {
		return models.SyncBatch{}, classifyMalformed(fmt.Errorf("decode sync response: %w", err))
	}

	// some upstreams report application errors inside a 200 body
	if decoded.ErrorCode != "" {
		return models.SyncBatch{}, classify(resp.StatusCode(), decoded.ErrorCode, decoded.ErrorMessage)
	}

	return models.SyncBatch{
		Added:      decoded.Added,
		Modified:   decoded.Modified,
		Removed:    decoded.Removed,
		NextCursor: decoded.NextCursor,
		HasMore:    decoded.HasMore,
	}, nil
}

// mapErrorResponse decodes the error body of a non-2xx response and
// classifies it. A body that fails to decode still gets a disposition from
// the HTTP status alone.
func mapErrorResponse(resp *resty.Response) *ClassifiedError {
	var decoded syncResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return classify(resp.StatusCode(), "", strings.TrimSpace(string(resp.Body())))
	}

	return classify(resp.StatusCode(), decoded.ErrorCode, decoded.ErrorMessage)
}
