package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Projection.MaxNodes != 100 {
		t.Errorf("max nodes default = %d", cfg.Projection.MaxNodes)
	}
	if cfg.Projection.EdgeThreshold != 0.35 {
		t.Errorf("edge threshold default = %v", cfg.Projection.EdgeThreshold)
	}
	if cfg.Projection.Similarity.CategoryWeight != 0.4 {
		t.Errorf("similarity defaults not applied: %v", cfg.Projection.Similarity.CategoryWeight)
	}
	if cfg.Layout.DistanceMultiplier != 200 || cfg.Layout.ChargeStrength != -300 {
		t.Errorf("layout defaults not applied: %+v", cfg.Layout)
	}
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("cache ttl default = %d", cfg.Cache.TTLSeconds)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 9911
storage:
  database_path: ./data/relmap.db
projection:
  dimension: matter_type
  min_score: 40
layout:
  charge_strength: -500
watch:
  files:
    - ./records.json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug || cfg.Server.Port != 9911 {
		t.Errorf("parsed config wrong: debug=%v port=%d", cfg.Debug, cfg.Server.Port)
	}
	if cfg.Projection.Dimension != "matter_type" || cfg.Projection.MinScore != 40 {
		t.Errorf("projection = %+v", cfg.Projection)
	}
	if cfg.Layout.ChargeStrength != -500 {
		t.Errorf("charge override = %v", cfg.Layout.ChargeStrength)
	}
	// Defaults still fill unset fields.
	if cfg.Layout.DistanceMultiplier != 200 {
		t.Errorf("distance multiplier default = %v", cfg.Layout.DistanceMultiplier)
	}
	// Relative "./" paths resolve against the config directory.
	if cfg.Storage.DatabasePath != filepath.Join(dir, "data/relmap.db") {
		t.Errorf("database path = %s", cfg.Storage.DatabasePath)
	}
	if len(cfg.Watch.Files) != 1 || cfg.Watch.Files[0] != filepath.Join(dir, "records.json") {
		t.Errorf("watch files = %v", cfg.Watch.Files)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config")
	}
}
