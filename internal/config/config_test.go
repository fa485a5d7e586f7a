package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  host: 0.0.0.0
  port: 9999
storage:
  database_path: ./data/batches.db
detect:
  accept_threshold: 0.7
  temporal_window_days: 14
  workers: 2
semantic:
  enabled: true
  endpoint: http://localhost:5000/score
  timeout_seconds: 10
watch:
  directories:
    - ./drops
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9999 {
		t.Errorf("Server = %s:%d, want 0.0.0.0:9999", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Detect.AcceptThreshold != 0.7 {
		t.Errorf("AcceptThreshold = %v, want 0.7", cfg.Detect.AcceptThreshold)
	}
	if cfg.Detect.TemporalWindowDays != 14 {
		t.Errorf("TemporalWindowDays = %d, want 14", cfg.Detect.TemporalWindowDays)
	}
	if cfg.Semantic.Timeout() != 10*time.Second {
		t.Errorf("Semantic.Timeout() = %v, want 10s", cfg.Semantic.Timeout())
	}

	// Defaults fill the unset detect knobs.
	if cfg.Detect.EvidenceFloor != 0.05 {
		t.Errorf("EvidenceFloor = %v, want default 0.05", cfg.Detect.EvidenceFloor)
	}
	if len(cfg.Detect.ReferenceFields) == 0 {
		t.Error("ReferenceFields empty, want defaults")
	}

	// Relative ./ paths resolve against the config directory.
	configDir := filepath.Dir(path)
	if cfg.Storage.DatabasePath != filepath.Join(configDir, "data/batches.db") {
		t.Errorf("DatabasePath = %q, want resolved under %q", cfg.Storage.DatabasePath, configDir)
	}
	if len(cfg.Watch.Directories) != 1 || cfg.Watch.Directories[0] != filepath.Join(configDir, "drops") {
		t.Errorf("Watch.Directories = %v, want resolved under config dir", cfg.Watch.Directories)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
	if _, err := Load(writeConfig(t, "server: [not a map")); err == nil {
		t.Error("Load of invalid yaml should fail")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8090 {
		t.Errorf("Server = %s:%d, want localhost:8090", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("DatabasePath empty, want default")
	}
	if cfg.Detect.AcceptThreshold != 0.6 {
		t.Errorf("AcceptThreshold = %v, want 0.6", cfg.Detect.AcceptThreshold)
	}
	if cfg.Detect.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Detect.Workers)
	}
	if cfg.Detect.NameOverlapThreshold != 0.8 {
		t.Errorf("NameOverlapThreshold = %v, want 0.8", cfg.Detect.NameOverlapThreshold)
	}
	if len(cfg.Detect.PrefixPairs) == 0 {
		t.Error("PrefixPairs empty, want defaults")
	}
	if cfg.Semantic.TimeoutSeconds != 5 {
		t.Errorf("Semantic.TimeoutSeconds = %d, want 5", cfg.Semantic.TimeoutSeconds)
	}
}

func TestDefaultDetectConfig(t *testing.T) {
	d := DefaultDetectConfig()
	if d.EvidenceFloor != 0.05 || d.AcceptThreshold != 0.6 || d.TemporalWindowDays != 30 {
		t.Errorf("defaults = %v/%v/%d, want 0.05/0.6/30",
			d.EvidenceFloor, d.AcceptThreshold, d.TemporalWindowDays)
	}
}
