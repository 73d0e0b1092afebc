package profit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/profit-tool/profit/marketdata"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if cfg.BaseCurrency != "CHF" {
		t.Errorf("BaseCurrency = %q, want CHF", cfg.BaseCurrency)
	}
	if cfg.Reconcile.TolerancePercent != 2.0 {
		t.Errorf("TolerancePercent = %v, want 2.0", cfg.Reconcile.TolerancePercent)
	}
	if cfg.Analysis.Days != 730 {
		t.Errorf("Analysis.Days = %d, want 730", cfg.Analysis.Days)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
	if policy, _ := cfg.MergePolicy(); policy != marketdata.StorageIsGroundTruth {
		t.Errorf("MergePolicy() = %v, want storage as ground truth", policy)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profit.yaml")
	content := `
base_currency: USD
storage:
  dir: /tmp/prices
reconcile:
  tolerance_percent: 5.5
  ground_truth: provider
analysis:
  days: 90
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROFIT_BASE_CURRENCY", "EUR")
	t.Setenv("EODHD_API_KEY", "secret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if cfg.BaseCurrency != "EUR" {
		t.Errorf("BaseCurrency = %q, the environment must override the file", cfg.BaseCurrency)
	}
	if cfg.Storage.Dir != "/tmp/prices" {
		t.Errorf("Storage.Dir = %q, want /tmp/prices", cfg.Storage.Dir)
	}
	if cfg.Provider.APIKey != "secret" {
		t.Errorf("Provider.APIKey = %q, want the environment value", cfg.Provider.APIKey)
	}
	if policy, _ := cfg.MergePolicy(); policy != marketdata.ProviderIsGroundTruth {
		t.Errorf("MergePolicy() = %v, want provider as ground truth", policy)
	}
	if cfg.Analysis.Days != 90 {
		t.Errorf("Analysis.Days = %d, want 90", cfg.Analysis.Days)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg, _ := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.BaseCurrency = "GOLD"
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate() must reject unknown base currency")
	}

	cfg, _ = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Reconcile.GroundTruth = "gut feeling"
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate() must reject unknown ground truth")
	}
}
