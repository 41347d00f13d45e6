package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tdpool/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TDPOOL_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("TDPOOL_DATA_DIR", t.TempDir())

	cfg, _, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Matcher.AutoAcceptThreshold != 0.85 {
		t.Fatalf("expected default auto-accept threshold, got %v", cfg.Matcher.AutoAcceptThreshold)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + dir + `"`,
		"[matcher]",
		"medium_threshold = 0.6",
		"auto_accept_threshold = 0.9",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TDPOOL_DATA_DIR", "")
	t.Setenv("TDPOOL_LOG_DIR", "")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Matcher.MediumThreshold != 0.6 {
		t.Fatalf("expected medium threshold 0.6, got %v", cfg.Matcher.MediumThreshold)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsMisorderedThresholds(t *testing.T) {
	cfg := config.Default()
	cfg.Matcher.MediumThreshold = 0.9
	cfg.Matcher.AutoAcceptThreshold = 0.8
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected medium > auto_accept to fail validation")
	}

	cfg = config.Default()
	cfg.Matcher.AutoAcceptThreshold = 1.1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected out-of-range threshold to fail validation")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestEnvOverridesDataDir(t *testing.T) {
	override := t.TempDir()
	t.Setenv("TDPOOL_DATA_DIR", override)
	t.Setenv("TDPOOL_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected data dir %s, got %s", override, cfg.Paths.DataDir)
	}
	if cfg.DatabasePath() != filepath.Join(override, "tdpool.db") {
		t.Fatalf("unexpected database path %s", cfg.DatabasePath())
	}
}
