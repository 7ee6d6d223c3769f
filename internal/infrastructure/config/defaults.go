package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults: sqlite keeps the CLI self-contained
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" && cfg.Database.Type == "sqlite" {
		cfg.Database.Path = "craftplan.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "craftplan"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "craftplan"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Catalog defaults
	if cfg.Catalog.DataDir == "" {
		cfg.Catalog.DataDir = "./gamedata"
	}

	// Cache defaults
	if cfg.Cache.SnapshotBackend == "" {
		cfg.Cache.SnapshotBackend = "memory"
	}
	if cfg.Cache.SnapshotTTL == 0 {
		cfg.Cache.SnapshotTTL = 24 * time.Hour
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}

	// Planner defaults
	if cfg.Planner.MaxDepth == 0 {
		cfg.Planner.MaxDepth = 50
	}
	if cfg.Planner.RecalcPerSecond == 0 {
		cfg.Planner.RecalcPerSecond = 2
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
