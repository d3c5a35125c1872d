package config

import (
	"fmt"
	"strings"
)

// minSessionSecretLength matches the secret length required for session cookie signing
const minSessionSecretLength = 32

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// productionRequirements lists the values which can only be omitted outside production
var productionRequirements = []struct {
	field string
	value func(*Config) string
}{
	{"APP_DOMAIN_URL", func(c *Config) string { return c.AppDomainURL }},
	{"SUPABASE_URL", func(c *Config) string { return c.SupabaseURL }},
	{"SUPABASE_SERVICE_ROLE_KEY", func(c *Config) string { return c.SupabaseKey }},
	{"WRISTBAND_APPLICATION_DOMAIN", func(c *Config) string { return c.WristbandDomain }},
	{"WRISTBAND_CLIENT_ID", func(c *Config) string { return c.WristbandClientID }},
	{"WRISTBAND_CLIENT_SECRET", func(c *Config) string { return c.WristbandClientSecret }},
	{"SERVER_CALLBACK_URL", func(c *Config) string { return c.CallbackURL }},
	{"CLAUDE_API_KEY", func(c *Config) string { return c.ClaudeAPIKey }},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if len(cfg.SessionSecret) < minSessionSecretLength {
		errs = append(errs, ValidationError{
			Field:   "SESSION_COOKIE_SECRET",
			Message: fmt.Sprintf("must be at least %d characters", minSessionSecretLength),
		})
	}
	if cfg.SessionMaxAge <= 0 {
		errs = append(errs, ValidationError{Field: "SESSION_MAX_AGE", Message: "must be a positive number of seconds"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" && cfg.DBHost == "" {
			errs = append(errs, ValidationError{Field: "DATABASE_URL", Message: "DATABASE_URL or DB_HOST is required"})
		}
	case "sqlite":
		if cfg.DatabaseURL == "" {
			errs = append(errs, ValidationError{Field: "DATABASE_URL", Message: "sqlite requires a database file path"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.Environment == Production {
		for _, req := range productionRequirements {
			if req.value(cfg) == "" {
				errs = append(errs, ValidationError{Field: req.field, Message: "required in production"})
			}
		}
		if cfg.DisableSecureCookies {
			errs = append(errs, ValidationError{Field: "DANGEROUSLY_DISABLE_SECURE_COOKIES", Message: "must not be set in production"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
