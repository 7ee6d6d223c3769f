package config

// PlannerConfig holds engine tuning configuration
type PlannerConfig struct {
	// MaxDepth bounds material tree recursion, the only runaway guard
	// against cyclic recipe graphs
	MaxDepth int `mapstructure:"max_depth" validate:"min=1,max=500"`

	// RecalcPerSecond caps how often rapid successive recompute
	// requests actually run
	RecalcPerSecond float64 `mapstructure:"recalc_per_second" validate:"min=0"`
}
