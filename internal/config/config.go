package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
}

// SchedulerConfig contains the tunables of the review scheduler.
type SchedulerConfig struct {
	// Mode selects the update rule: "enhanced" (SM-2+) or "classic" (plain SM-2).
	Mode            string `mapstructure:"mode" validate:"required,oneof=enhanced classic"`
	MaxIntervalDays int    `mapstructure:"max_interval_days" validate:"required,gte=6,lte=365"`
	// MaxReviewsPerDay is the per-day capacity used by load balancing.
	MaxReviewsPerDay int `mapstructure:"max_reviews_per_day" validate:"required,gt=0"`
	// MaxDeferDays bounds how far load balancing may push an item past its natural date.
	MaxDeferDays   int `mapstructure:"max_defer_days" validate:"gte=0,lte=365"`
	DueHorizonDays int `mapstructure:"due_horizon_days" validate:"gte=0,lte=365"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}
