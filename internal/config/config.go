// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the API server.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	APIBasePath   string        `mapstructure:"API_BASE_PATH"`

	// CORS
	CORSAllowedOrigins []string `mapstructure:"-"`

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSQLitePath      string        `mapstructure:"DB_SQLITE_PATH"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// JWT
	JWTSecretKey                string        `mapstructure:"JWT_SECRET_KEY"`
	JWTAccessTokenExpiryMinutes time.Duration `mapstructure:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
	JWTRefreshTokenExpiryDays   time.Duration `mapstructure:"JWT_REFRESH_TOKEN_EXPIRY_DAYS"`
	JWTIssuer                   string        `mapstructure:"JWT_ISSUER"`

	// Admin seed
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	// Waitlist
	DefaultLocation          string `mapstructure:"DEFAULT_LOCATION"`
	SignupRateLimitPerMinute int    `mapstructure:"SIGNUP_RATE_LIMIT_PER_MINUTE"`
	SignupRateBurst          int    `mapstructure:"SIGNUP_RATE_BURST"`

	// Cron Jobs
	WaitlistDigestSchedule string `mapstructure:"WAITLIST_DIGEST_SCHEDULE"`
}

// DSN returns the PostgreSQL connection string built from the DB_* settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("API_BASE_PATH", "/api")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "bridgex_waitlist")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_SQLITE_PATH", "waitlist.db")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 15)
	v.SetDefault("JWT_REFRESH_TOKEN_EXPIRY_DAYS", 7)
	v.SetDefault("JWT_ISSUER", "bridgex_waitlist")

	v.SetDefault("ADMIN_EMAIL", "admin@bridgex.ng")
	v.SetDefault("ADMIN_PASSWORD", "")

	v.SetDefault("DEFAULT_LOCATION", "Nigeria")
	v.SetDefault("SIGNUP_RATE_LIMIT_PER_MINUTE", 10)
	v.SetDefault("SIGNUP_RATE_BURST", 5)

	v.SetDefault("WAITLIST_DIGEST_SCHEDULE", "@daily")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiryMinutes = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES")) * time.Minute
	cfg.JWTRefreshTokenExpiryDays = time.Duration(v.GetInt("JWT_REFRESH_TOKEN_EXPIRY_DAYS")) * 24 * time.Hour

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.APIBasePath = "/" + strings.Trim(cfg.APIBasePath, "/")
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return nil, fmt.Errorf("FATAL: JWT_SECRET_KEY is not set. It is required to sign admin tokens")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("FATAL: unsupported DB_DRIVER %q (expected postgres or sqlite)", cfg.DBDriver)
	}
	if cfg.JWTAccessTokenExpiryMinutes <= 0 || cfg.JWTRefreshTokenExpiryDays <= 0 {
		return nil, fmt.Errorf("FATAL: JWT token lifetimes must be positive")
	}

	return &cfg, nil
}

// ClientConfig holds the settings of the admin CLI.
type ClientConfig struct {
	APIBaseURL  string        `mapstructure:"WAITLIST_API_BASE_URL"`
	Timeout     time.Duration `mapstructure:"WAITLIST_API_TIMEOUT_SECONDS"`
	SessionFile string        `mapstructure:"WAITLIST_SESSION_FILE"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
}

// LoadClient loads the admin CLI configuration.
func LoadClient() (*ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("WAITLIST_API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("WAITLIST_API_TIMEOUT_SECONDS", 20)
	v.SetDefault("WAITLIST_SESSION_FILE", defaultSessionFile())
	v.SetDefault("LOG_LEVEL", "warn")
	v.AutomaticEnv()

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling client configuration: %w", err)
	}
	cfg.Timeout = time.Duration(v.GetInt("WAITLIST_API_TIMEOUT_SECONDS")) * time.Second
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("WAITLIST_API_BASE_URL is empty")
	}
	return &cfg, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".waitlistctl-session.json"
	}
	return dir + string(os.PathSeparator) + "waitlistctl" + string(os.PathSeparator) + "session.json"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
