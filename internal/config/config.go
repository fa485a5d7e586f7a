// Package config provides configuration loading and structs for the Kizuna server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Detect   DetectConfig   `yaml:"detect"`
	Semantic SemanticConfig `yaml:"semantic"`
	Watch    WatchConfig    `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the batch database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// PrefixPair is a known pairing of filename prefixes, e.g. INV/PO, and the
// relationship type a match implies.
type PrefixPair struct {
	A    string `yaml:"a"`
	B    string `yaml:"b"`
	Type string `yaml:"type"`
}

// DetectConfig holds evidence detection and aggregation settings.
type DetectConfig struct {
	// EvidenceFloor prunes noise before aggregation; evidence at or below
	// this confidence is discarded.
	EvidenceFloor float64 `yaml:"evidence_floor"`
	// AcceptThreshold is the minimum combined confidence for an edge.
	AcceptThreshold float64 `yaml:"accept_threshold"`
	// TemporalWindowDays bounds the temporal correlation decay.
	TemporalWindowDays int `yaml:"temporal_window_days"`
	// Workers bounds concurrent pair extraction.
	Workers int `yaml:"workers"`

	PrefixPairs     []PrefixPair `yaml:"prefix_pairs"`
	ReferenceFields []string     `yaml:"reference_fields"`
	DateFields      []string     `yaml:"date_fields"`
	NameFields      []string     `yaml:"name_fields"`
	StrongFields    []string     `yaml:"strong_fields"`
	AmountFields    []string     `yaml:"amount_fields"`

	// NameOverlapThreshold is the minimum token-set overlap for a name match.
	NameOverlapThreshold float64 `yaml:"name_overlap_threshold"`
}

// SemanticConfig holds the external semantic scorer settings.
type SemanticConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the scorer call timeout.
func (s *SemanticConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// WatchConfig holds batch drop-directory settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
