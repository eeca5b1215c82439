package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaultsForZeroFields(t *testing.T) {
	path := writeTempConfig(t, `
node_id: ""
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CycleBudgetSeconds != 120 {
		t.Errorf("CycleBudgetSeconds = %d, want 120", cfg.CycleBudgetSeconds)
	}
	if cfg.WatchdogBudgetSeconds != 30 {
		t.Errorf("WatchdogBudgetSeconds = %d, want 30", cfg.WatchdogBudgetSeconds)
	}
	if cfg.OracleBudgetSeconds != 45 {
		t.Errorf("OracleBudgetSeconds = %d, want 45", cfg.OracleBudgetSeconds)
	}
	if cfg.MaxConcurrentFetches != 3 {
		t.Errorf("MaxConcurrentFetches = %d, want 3", cfg.MaxConcurrentFetches)
	}
	if cfg.Conviction.EdgeBankColdStartCount != 10 {
		t.Errorf("EdgeBankColdStartCount = %d, want 10", cfg.Conviction.EdgeBankColdStartCount)
	}
	if cfg.Conviction.Sizing.BaseMultiplier != 1.0 {
		t.Errorf("Sizing.BaseMultiplier = %v, want 1.0", cfg.Conviction.Sizing.BaseMultiplier)
	}
	if cfg.NodeID != "boar-agent-node-1" {
		t.Errorf("NodeID = %q, want default", cfg.NodeID)
	}
}

func TestLoad_PreservesExplicitValuesOverDefaults(t *testing.T) {
	path := writeTempConfig(t, `
cycle_budget_seconds: 90
node_id: "custom-node"
conviction:
  sizing:
    base_multiplier: 2.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CycleBudgetSeconds != 90 {
		t.Errorf("CycleBudgetSeconds = %d, want 90 (explicit)", cfg.CycleBudgetSeconds)
	}
	if cfg.NodeID != "custom-node" {
		t.Errorf("NodeID = %q, want custom-node", cfg.NodeID)
	}
	if cfg.Conviction.Sizing.BaseMultiplier != 2.5 {
		t.Errorf("Sizing.BaseMultiplier = %v, want 2.5 (explicit)", cfg.Conviction.Sizing.BaseMultiplier)
	}
	// Defaults still apply to fields this YAML left unset.
	if cfg.WatchdogBudgetSeconds != 30 {
		t.Errorf("WatchdogBudgetSeconds = %d, want 30", cfg.WatchdogBudgetSeconds)
	}
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAMLReturnsError(t *testing.T) {
	path := writeTempConfig(t, "not: [valid: yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML, got nil")
	}
}
