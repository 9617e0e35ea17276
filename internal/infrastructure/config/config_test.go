package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_FullConfig tests parsing a complete YAML config
func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
trendyol:
  seller_id: "123456"
  api_key: "key"
  api_secret: "secret"
  store_front_code: "TRENDYOLTR"
report:
  page_size: 200
  window_days: 10
  legacy_windows: true
  shipping_fee_requires_product_match: true
storage:
  database_path: "/tmp/inventory.db"
api:
  port: 9090
  allowed_origins:
    - "http://localhost:3000"
observability:
  logging:
    level: "debug"
    format: "text"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123456", cfg.Trendyol.SellerID)
	assert.Equal(t, 200, cfg.Report.PageSize)
	assert.Equal(t, 10, cfg.Report.WindowDays)
	assert.True(t, cfg.Report.LegacyWindows)
	assert.True(t, cfg.Report.ShippingFeeRequiresProductMatch)
	assert.Equal(t, "/tmp/inventory.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.API.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

// TestLoad_ExpandsEnvVars tests ${VAR} expansion inside the YAML
func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TRENDYOL_API_KEY", "expanded-key")

	path := writeConfig(t, `
trendyol:
  api_key: "${TRENDYOL_API_KEY}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.Trendyol.APIKey)
}

// TestLoad_AppliesDefaults tests that omitted settings get defaults
func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
trendyol:
  seller_id: "123456"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Report.PageSize)
	assert.Equal(t, 15, cfg.Report.WindowDays)
	assert.False(t, cfg.Report.LegacyWindows)
	assert.Equal(t, "TRENDYOLTR", cfg.Trendyol.StoreFrontCode)
	assert.Equal(t, "inventory.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

// TestLoad_MissingFile tests the error path for a missing config file
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}

// TestLoadFromEnv tests the environment-only fallback
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRENDYOL_SELLER_ID", "654321")
	t.Setenv("TRENDYOL_API_KEY", "env-key")
	t.Setenv("REPORT_PAGE_SIZE", "250")
	t.Setenv("REPORT_LEGACY_WINDOWS", "true")
	t.Setenv("INVENTORY_DB_PATH", "/tmp/env.db")

	cfg := LoadFromEnv()

	assert.Equal(t, "654321", cfg.Trendyol.SellerID)
	assert.Equal(t, "env-key", cfg.Trendyol.APIKey)
	assert.Equal(t, 250, cfg.Report.PageSize)
	assert.True(t, cfg.Report.LegacyWindows)
	assert.Equal(t, "/tmp/env.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 8080, cfg.API.Port)
}

// TestLoadOrEnvWithPath tests the file-then-env fallback order
func TestLoadOrEnvWithPath(t *testing.T) {
	t.Setenv("TRENDYOL_SELLER_ID", "from-env")

	cfg := LoadOrEnvWithPath("/nonexistent/config.yaml")
	assert.Equal(t, "from-env", cfg.Trendyol.SellerID)

	path := writeConfig(t, `
trendyol:
  seller_id: "from-file"
`)
	cfg = LoadOrEnvWithPath(path)
	assert.Equal(t, "from-file", cfg.Trendyol.SellerID)
}

// TestGetEnvBool tests the accepted boolean spellings
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"1", false, true},
		{"true", false, true},
		{"yes", false, true},
		{"0", true, false},
		{"false", true, false},
		{"no", true, false},
		{"", true, true},
		{"garbage", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, getEnvBool("TEST_BOOL", tt.fallback))
		})
	}
}
