package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOverrides() *StructuredConfig {
	return &StructuredConfig{
		Storage:  Storage{DB: DB{DSN: "postgres://localhost:5432/ledger"}},
		Upstream: Upstream{BaseURL: "https://sandbox.aggregator.example", WebhookSigningKey: "key"},
	}
}

func TestBuild_DefaultsFillMissingValues(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, validOverrides())
	b = b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, defaultPageSize, cfg.Upstream.PageSize)
	assert.Equal(t, defaultLockTTL, cfg.Sync.LockTTL)
	assert.Equal(t, defaultMaxRetries, cfg.Sync.MaxRetries)
	assert.Equal(t, defaultMaxRestarts, cfg.Sync.MaxRestarts)
}

func TestBuild_HigherPrioritySourceWins(t *testing.T) {
	primary := validOverrides()
	primary.Sync.LockTTL = 10 * time.Minute

	secondary := &StructuredConfig{
		Sync: Sync{LockTTL: time.Minute, SweepInterval: time.Hour},
	}

	b := newConfigBuilder()
	// merge order defines priority: earlier sources win
	b.configs = append(b.configs, primary, secondary)
	b = b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Sync.LockTTL)
	assert.Equal(t, time.Hour, cfg.Sync.SweepInterval)
}

func TestBuild_ValidatesMergedConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:    "missing DSN",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "missing upstream base URL",
			mutate:  func(cfg *StructuredConfig) { cfg.Upstream.BaseURL = "" },
			wantErr: ErrInvalidUpstreamConfigs,
		},
		{
			name:    "missing webhook signing key",
			mutate:  func(cfg *StructuredConfig) { cfg.Upstream.WebhookSigningKey = "" },
			wantErr: ErrInvalidUpstreamConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides := validOverrides()
			tt.mutate(overrides)

			b := newConfigBuilder()
			b.configs = append(b.configs, overrides)
			b = b.withDefaults()

			_, err := b.build()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_SyncInvariants(t *testing.T) {
	cfg := validOverrides()
	cfg.Upstream.PageSize = defaultPageSize
	cfg.Sync = Sync{
		SweepInterval: time.Minute,
		LockTTL:       -time.Second,
	}

	require.ErrorIs(t, cfg.validate(), ErrInvalidSyncConfigs)
}
