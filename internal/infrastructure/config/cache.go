package config

import "time"

// CacheConfig holds tree cache and snapshot store configuration
type CacheConfig struct {
	// SnapshotBackend selects where requirement snapshots live
	SnapshotBackend string `mapstructure:"snapshot_backend" validate:"required,oneof=memory redis"`

	// TreeTTL bounds how long cached material trees live; zero keeps
	// them until the catalog reloads
	TreeTTL time.Duration `mapstructure:"tree_ttl"`

	// SnapshotTTL bounds how long requirement snapshots live
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`

	// Redis connection settings (used when snapshot_backend is redis)
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}
