package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config is the process configuration. Every key can be set through the
// environment (upper-cased key name) or through an optional YAML file.
type Config struct {
	Port           string        `mapstructure:"port"`
	DatabaseDriver string        `mapstructure:"database_driver"`
	DatabaseURL    string        `mapstructure:"database_url"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTIssuer      string        `mapstructure:"jwt_issuer"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	CookieName     string        `mapstructure:"cookie_name"`
	CookieDomain   string        `mapstructure:"cookie_domain"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ClientURL      string        `mapstructure:"client_url"`
	LogLevel       string        `mapstructure:"log_level"`
	GinMode        string        `mapstructure:"gin_mode"`
}

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_url", "kanban.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "kanban")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("cookie_name", "access_token")
	v.SetDefault("cookie_domain", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("allowed_origins", defaultOrigins)
	v.SetDefault("client_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("gin_mode", "release")
}

// Load builds the configuration from defaults, the optional YAML file at
// path and the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var pathErr *os.PathError
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
			slog.Warn("config file not found, using environment only", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins, cfg.ClientURL)
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.DatabaseDriver,
			validation.Required,
			validation.In(DriverSQLite, DriverPostgres, DriverMySQL),
		),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.JWTSecret,
			validation.Required.Error("JWT_SECRET environment variable is not set"),
			validation.Length(16, 0),
		),
		validation.Field(&c.TokenTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.CookieName, validation.Required),
	)
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func normalizeOrigins(origins []string, clientURL string) []string {
	out := make([]string, 0, len(origins)+1)
	seen := make(map[string]bool, len(origins)+1)

	add := func(origin string) {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" || seen[trimmed] {
			return
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}

	for _, origin := range origins {
		// env values arrive as one comma separated string
		for _, part := range strings.Split(origin, ",") {
			add(part)
		}
	}
	add(clientURL)

	return out
}
