// Package http implements the inbound HTTP surface of the sync engine.
//
// It exposes the aggregator webhook receiver and the health endpoint, plus
// the trace-id and access-logging middleware applied to every request.
// Webhook deliveries are signature-verified and converted into non-blocking
// sync triggers; the engine itself runs in the background workers.
package http
