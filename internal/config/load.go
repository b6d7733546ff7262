package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults keep a bare environment bootable for local development;
	// database.url and auth.jwt_secret have no safe default and must be set.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("quiz.max_interval_days", 180)
	v.SetDefault("quiz.interval_growth_factor", 2.0)
	v.SetDefault("quiz.on_restart", "discard")

	// Optional config file in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing file is fine; environment variables may carry everything.
	}

	// Environment variables with the QUIZPAL_ prefix override file values,
	// e.g. QUIZPAL_DATABASE_URL maps to database.url.
	v.SetEnvPrefix("QUIZPAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return &cfg, nil
}
