package profit

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/profit-tool/profit/forex"
	"github.com/profit-tool/profit/marketdata"
)

// Config holds all settings of one analysis run.
type Config struct {
	// BaseCurrency is the currency every asset value is reported in.
	BaseCurrency string `yaml:"base_currency"`

	Storage struct {
		// Dir holds one price history file per instrument.
		Dir string `yaml:"dir"`
	} `yaml:"storage"`

	Provider struct {
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"provider"`

	Reconcile struct {
		// TolerancePercent bounds the accepted relative deviation between
		// stored and freshly fetched values before a discrepancy is logged.
		TolerancePercent float64 `yaml:"tolerance_percent"`
		// GroundTruth resolves discrepancies: "storage" or "provider".
		GroundTruth string `yaml:"ground_truth"`
	} `yaml:"reconcile"`

	Analysis struct {
		// Days is how far the analysis window reaches into the past.
		Days int `yaml:"days"`
		// MovingAverageDays is the smoothing window for report curves.
		MovingAverageDays int `yaml:"moving_average_days"`
	} `yaml:"analysis"`
}

// LoadConfig reads config from a YAML file, then applies environment
// variable overrides and defaults. A missing file is not an error, the
// defaults describe a usable setup.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PROFIT_BASE_CURRENCY"); v != "" {
		cfg.BaseCurrency = v
	}
	if v := os.Getenv("PROFIT_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("PROFIT_GROUND_TRUTH"); v != "" {
		cfg.Reconcile.GroundTruth = v
	}
	if v := os.Getenv("PROFIT_ANALYSIS_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Days = days
		}
	}

	// Defaults
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "CHF"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "marketdata"
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 30
	}
	if cfg.Reconcile.TolerancePercent == 0 {
		cfg.Reconcile.TolerancePercent = 2.0
	}
	if cfg.Reconcile.GroundTruth == "" {
		cfg.Reconcile.GroundTruth = "storage"
	}
	if cfg.Analysis.Days == 0 {
		cfg.Analysis.Days = 730
	}
	if cfg.Analysis.MovingAverageDays == 0 {
		cfg.Analysis.MovingAverageDays = 30
	}

	return cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c *Config) Validate() error {
	if !forex.ValidCurrency(c.BaseCurrency) {
		return fmt.Errorf("base_currency %q is not a known currency", c.BaseCurrency)
	}
	if c.Reconcile.TolerancePercent < 0 {
		return fmt.Errorf("reconcile.tolerance_percent must not be negative")
	}
	if _, err := c.MergePolicy(); err != nil {
		return err
	}
	if c.Analysis.Days < 1 {
		return fmt.Errorf("analysis.days must be at least 1")
	}
	return nil
}

// MergePolicy maps the configured ground truth name onto the reconciler's
// policy value.
func (c *Config) MergePolicy() (marketdata.MergePolicy, error) {
	switch c.Reconcile.GroundTruth {
	case "storage":
		return marketdata.StorageIsGroundTruth, nil
	case "provider":
		return marketdata.ProviderIsGroundTruth, nil
	}
	return 0, fmt.Errorf("reconcile.ground_truth must be %q or %q, got %q", "storage", "provider", c.Reconcile.GroundTruth)
}

// ProviderTimeout returns the per-call provider timeout as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}
