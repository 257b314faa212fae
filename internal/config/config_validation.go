// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package config

// defaultConfig returns the built-in defaults merged in as the
// lowest-priority configuration source.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Server: Server{
			HTTPAddress:    "0.0.0.0:8080",
			RequestTimeout: defaultRequestTimeout,
		},
		Upstream: Upstream{
			RequestTimeout: defaultUpstreamTimeout,
			PageSize:       defaultPageSize,
		},
		Sync: Sync{
			SweepInterval:    defaultSweepInterval,
			LockTTL:          defaultLockTTL,
			MaxRetries:       defaultMaxRetries,
			MaxRestarts:      defaultMaxRestarts,
			TriggerQueueSize: defaultTriggerQueueSize,
		},
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Missing collaborators are a startup-time fatal error, never a silent
// runtime degradation: the engine refuses to boot without a database, an
// upstream endpoint, and a webhook signing key.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Upstream.BaseURL == "" || cfg.Upstream.PageSize <= 0 {
		return ErrInvalidUpstreamConfigs
	}

	if cfg.Upstream.WebhookSigningKey == "" {
		return ErrInvalidUpstreamConfigs
	}

	if cfg.Sync.SweepInterval <= 0 || cfg.Sync.LockTTL <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Sync.MaxRetries < 0 || cfg.Sync.MaxRestarts < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
