package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/relmap/data/datasets.db"
	}
	if cfg.Projection.Dimension == "" {
		cfg.Projection.Dimension = "document_type"
	}
	if cfg.Projection.MaxNodes == 0 {
		cfg.Projection.MaxNodes = 100
	}
	if cfg.Projection.EdgeThreshold == 0 {
		cfg.Projection.EdgeThreshold = 0.35
	}
	cfg.Projection.Similarity.ApplyDefaults()
	cfg.Layout.ApplyDefaults()
	if cfg.Timeline.Width == 0 {
		cfg.Timeline.Width = 1000
	}
	if cfg.Timeline.Height == 0 {
		cfg.Timeline.Height = 400
	}
	if cfg.Timeline.DateField == "" {
		cfg.Timeline.DateField = "created"
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 256
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
}
