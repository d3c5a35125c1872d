package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	AppDomainURL    string
	ShutdownTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Database configuration
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Session configuration
	SessionSecret        string
	SessionMaxAge        time.Duration
	DisableSecureCookies bool

	// Supabase configuration
	SupabaseURL string
	SupabaseKey string

	// Wristband configuration
	WristbandDomain       string
	WristbandClientID     string
	WristbandClientSecret string
	LoginURL              string
	CallbackURL           string
	DefaultTenant         string
	UseTenantSubdomains   bool

	// Anthropic configuration
	ClaudeAPIKey    string
	ClaudeAPIURL    string
	ClaudeModel     string
	ClaudeMaxTokens int

	// Recipe image storage (Supabase Storage S3 endpoint)
	StorageEndpoint string
	StorageRegion   string
	StorageBucket   string
	StorageURLTTL   time.Duration

	ChefRateLimitPerHour int
}

// LoadConfig creates a new Config from environment variables, falling back to
// Docker secrets for sensitive values
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Environment: GetEnvironment(),

		ServerHost:      v.GetString("SERVER_HOST"),
		ServerPort:      v.GetString("PORT"),
		AppDomainURL:    strings.TrimRight(v.GetString("APP_DOMAIN_URL"), "/"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseURL: secretOr(v, "DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      secretOr(v, "DB_USER"),
		DBPassword:  secretOr(v, "DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSL_MODE"),

		RedisURL:      secretOr(v, "REDIS_URL"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: secretOr(v, "REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		SessionSecret:        secretOr(v, "SESSION_COOKIE_SECRET"),
		SessionMaxAge:        time.Duration(v.GetInt("SESSION_MAX_AGE")) * time.Second,
		DisableSecureCookies: v.GetBool("DANGEROUSLY_DISABLE_SECURE_COOKIES"),

		SupabaseURL: strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseKey: secretOr(v, "SUPABASE_SERVICE_ROLE_KEY"),

		WristbandDomain:       v.GetString("WRISTBAND_APPLICATION_DOMAIN"),
		WristbandClientID:     v.GetString("WRISTBAND_CLIENT_ID"),
		WristbandClientSecret: secretOr(v, "WRISTBAND_CLIENT_SECRET"),
		LoginURL:              v.GetString("SERVER_LOGIN_URL"),
		CallbackURL:           v.GetString("SERVER_CALLBACK_URL"),
		DefaultTenant:         v.GetString("WRISTBAND_DEFAULT_TENANT"),
		UseTenantSubdomains:   v.GetBool("WRISTBAND_USE_TENANT_SUBDOMAINS"),

		ClaudeAPIKey:    secretOr(v, "CLAUDE_API_KEY"),
		ClaudeAPIURL:    v.GetString("CLAUDE_API_URL"),
		ClaudeModel:     v.GetString("CLAUDE_MODEL"),
		ClaudeMaxTokens: v.GetInt("CLAUDE_MAX_TOKENS"),

		StorageEndpoint: v.GetString("STORAGE_S3_ENDPOINT"),
		StorageRegion:   v.GetString("STORAGE_S3_REGION"),
		StorageBucket:   v.GetString("STORAGE_BUCKET"),
		StorageURLTTL:   v.GetDuration("STORAGE_URL_TTL"),

		ChefRateLimitPerHour: v.GetInt("CHEF_RATE_LIMIT_PER_HOUR"),
	}

	// The anon key is accepted when no service role key is provisioned
	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = secretOr(v, "SUPABASE_ANON_KEY")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "6900")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("APP_DOMAIN_URL", "http://localhost:3000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_SSL_MODE", "require")

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_MAX_AGE", 1800)

	v.SetDefault("WRISTBAND_DEFAULT_TENANT", "global")

	v.SetDefault("CLAUDE_API_URL", "https://api.anthropic.com/v1/messages")
	v.SetDefault("CLAUDE_MODEL", "claude-3-opus-20240229")
	v.SetDefault("CLAUDE_MAX_TOKENS", 1000)

	v.SetDefault("STORAGE_S3_REGION", "us-east-1")
	v.SetDefault("STORAGE_URL_TTL", "1h")

	v.SetDefault("CHEF_RATE_LIMIT_PER_HOUR", 20)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// SecureCookies reports whether cookies must carry the Secure attribute
func (c *Config) SecureCookies() bool {
	return !c.DisableSecureCookies
}

// secretOr returns the environment value for key, or the Docker secret named
// after the lower-cased key when the variable is unset
func secretOr(v *viper.Viper, key string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return readSecret(strings.ToLower(key))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
