package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokocargo/sokocargo/internal/config"
	"github.com/sokocargo/sokocargo/internal/pricing"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DB_PATH", "AUDIT_DB_PATH", "REDIS_ADDR", "OTEL_SERVICE_NAME", "FEES_FILE", "STRICT_PROGRESSION"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Contains(t, cfg.RedisAddr, "localhost")
	assert.True(t, cfg.StrictProgression)
	assert.Equal(t, pricing.DefaultFees, cfg.Fees)
	assert.Equal(t, 7, cfg.Sequence.Len())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis-cache:6379")
	t.Setenv("STRICT_PROGRESSION", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis-cache:6379", cfg.RedisAddr)
	assert.False(t, cfg.StrictProgression)
}

func TestLoad_FeesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fees.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fees:
  shipping_flat_usd: 15
  shipping_percent: 0.04
  service_fee_fixed_usd: 25
  service_fee_percent_large: 0.05
  threshold_usd: 500
  handling_fee_usd: 5
  kes_per_usd: 140
stages:
  - Ordered
  - Shipped
  - Delivered
`), 0o600))
	t.Setenv("FEES_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.InDelta(t, 15, cfg.Fees.ShippingFlatUSD, 1e-9)
	assert.InDelta(t, 5, cfg.Fees.HandlingFeeUSD, 1e-9)
	assert.InDelta(t, 140, cfg.Fees.KESPerUSD, 1e-9)
	assert.Equal(t, 3, cfg.Sequence.Len())
	assert.Equal(t, tracking.Stage("Ordered"), cfg.Sequence.First())
}

func TestLoad_MalformedFeesFileIsFatal(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fees.yaml")
	// kes_per_usd missing -> zero rate -> invalid structure.
	require.NoError(t, os.WriteFile(path, []byte("fees:\n  shipping_flat_usd: 20\n"), 0o600))
	t.Setenv("FEES_FILE", path)

	_, err := config.Load()
	require.ErrorIs(t, err, pricing.ErrInvalidFeeStructure)
}

func TestLoad_MissingFeesFileIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEES_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := config.Load()
	require.Error(t, err)
}
