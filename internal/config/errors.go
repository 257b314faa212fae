package config

import (
	"errors"
	"time"
)

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidUpstreamConfigs indicates invalid aggregator client settings
	// (for example, missing base URL, signing key, or non-positive page size).
	ErrInvalidUpstreamConfigs = errors.New("invalid upstream configuration")
	// ErrInvalidSyncConfigs indicates invalid sync engine settings
	// (for example, zero sweep interval or lock TTL).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)

// Built-in defaults used when no source supplies a value.
const (
	defaultRequestTimeout  = 30 * time.Second
	defaultUpstreamTimeout = 15 * time.Second

	// defaultPageSize matches the upstream maximum page size.
	defaultPageSize = 500

	defaultSweepInterval    = 15 * time.Minute
	defaultLockTTL          = 5 * time.Minute
	defaultMaxRetries       = 3
	defaultMaxRestarts      = 3
	defaultTriggerQueueSize = 256
)
