package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Quiz     QuizConfig     `mapstructure:"quiz" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// QuizConfig contains settings for the quiz engine and review scheduler.
type QuizConfig struct {
	// MaxIntervalDays caps spaced-repetition interval growth.
	MaxIntervalDays int `mapstructure:"max_interval_days" validate:"required,gte=1"`

	// IntervalGrowthFactor multiplies a card's interval after a correct answer.
	IntervalGrowthFactor float64 `mapstructure:"interval_growth_factor" validate:"required,gt=1"`

	// OnRestart selects what happens to a live session when the user starts a
	// new quiz: "discard" drops it without a report, "cancel" closes it with a
	// not-completed report first.
	OnRestart string `mapstructure:"on_restart" validate:"required,oneof=discard cancel"`
}
