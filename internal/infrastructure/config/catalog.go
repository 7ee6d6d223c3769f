package config

// CatalogConfig holds game-data catalog configuration
type CatalogConfig struct {
	// DataDir is the directory holding the game-data JSON files
	DataDir string `mapstructure:"data_dir" validate:"required"`

	// Watch enables the fsnotify watcher: data file changes reload the
	// catalog and invalidate all derived caches
	Watch bool `mapstructure:"watch"`

	// WatchPIDFile, when set, locks watch mode to a single process via
	// a PID file at this path
	WatchPIDFile string `mapstructure:"watch_pid_file"`
}
