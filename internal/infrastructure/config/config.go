// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	sellerID := cfg.Trendyol.SellerID
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Trendyol      TrendyolConfig      `yaml:"trendyol"`
	Report        ReportConfig        `yaml:"report"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// TrendyolConfig holds the partner API credentials and endpoint settings
type TrendyolConfig struct {
	SellerID       string `yaml:"seller_id"`
	APIKey         string `yaml:"api_key"`
	APISecret      string `yaml:"api_secret"`
	StoreFrontCode string `yaml:"store_front_code"`
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
}

// ReportConfig holds reconciliation report policy settings
type ReportConfig struct {
	PageSize   int `yaml:"page_size"`
	WindowDays int `yaml:"window_days"`

	// LegacyWindows switches the period splitter to the historical
	// fixed-three-window behavior regardless of the requested range.
	LegacyWindows bool `yaml:"legacy_windows"`

	// ShippingFeeRequiresProductMatch applies the shipping fee only when
	// the barcode matched a local product (pre-decoupling behavior).
	ShippingFeeRequiresProductMatch bool `yaml:"shipping_fee_requires_product_match"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP server configuration
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${TRENDYOL_API_KEY})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Trendyol: TrendyolConfig{
			SellerID:       os.Getenv("TRENDYOL_SELLER_ID"),
			APIKey:         os.Getenv("TRENDYOL_API_KEY"),
			APISecret:      os.Getenv("TRENDYOL_API_SECRET"),
			StoreFrontCode: getEnv("TRENDYOL_STORE_FRONT_CODE", "TRENDYOLTR"),
			BaseURL:        os.Getenv("TRENDYOL_BASE_URL"),
			UserAgent:      os.Getenv("TRENDYOL_USER_AGENT"),
		},
		Report: ReportConfig{
			PageSize:                        getEnvInt("REPORT_PAGE_SIZE", 500),
			WindowDays:                      getEnvInt("REPORT_WINDOW_DAYS", 15),
			LegacyWindows:                   getEnvBool("REPORT_LEGACY_WINDOWS", false),
			ShippingFeeRequiresProductMatch: getEnvBool("REPORT_FEE_REQUIRES_PRODUCT", false),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("INVENTORY_DB_PATH", "inventory.db"),
		},
		API: APIConfig{
			Port: getEnvInt("API_PORT", 8080),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}

	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills in zero-valued settings
func (c *Config) applyDefaults() {
	if c.Report.PageSize <= 0 {
		c.Report.PageSize = 500
	}
	if c.Report.WindowDays <= 0 {
		c.Report.WindowDays = 15
	}
	if c.Trendyol.StoreFrontCode == "" {
		c.Trendyol.StoreFrontCode = "TRENDYOLTR"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "inventory.db"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvBool retrieves a boolean environment variable with a fallback default
func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}
