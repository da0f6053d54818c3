// Package config provides configuration loading and structs for the relmap server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/relmap/relmap/internal/layout"
	"github.com/relmap/relmap/internal/similarity"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Projection ProjectionConfig `yaml:"projection"`
	Layout     layout.Options   `yaml:"layout"`
	Timeline   TimelineConfig   `yaml:"timeline"`
	Cache      CacheConfig      `yaml:"cache"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the dataset database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ProjectionConfig holds node/edge projection settings.
type ProjectionConfig struct {
	// Dimension is the default category dimension (document_type, matter_type,
	// file_type, organization).
	Dimension string `yaml:"dimension"`
	// MinScore is the default display threshold, 0-100.
	MinScore float64 `yaml:"min_score"`
	// MaxNodes caps the node count per projection.
	MaxNodes int `yaml:"max_nodes"`
	// EdgeThreshold is the strict similarity cutoff for edges.
	EdgeThreshold float64 `yaml:"edge_threshold"`
	// Similarity holds the scorer weights.
	Similarity similarity.Config `yaml:"similarity"`
}

// TimelineConfig holds default timeline plot settings.
type TimelineConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	DateField string  `yaml:"date_field"`
}

// CacheConfig holds projection cache settings.
type CacheConfig struct {
	Capacity   int `yaml:"capacity"`
	TTLSeconds int `yaml:"ttl_seconds"`
}

// WatchConfig holds dataset file watch settings. Each watched file becomes a
// dataset named after its base name.
type WatchConfig struct {
	Files []string `yaml:"files"`
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
	for i := range cfg.Watch.Files {
		cfg.Watch.Files[i] = expandPath(cfg.Watch.Files[i], configDir)
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
