package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the command centre service.
type Config struct {
	ListenAddr   string `validate:"required"`
	BackendURL   string `validate:"required,url"` // CRUD backend the /api resources are proxied to
	LogLevel     string `validate:"oneof=debug info warn error"`
	MaxBodyBytes int64  `validate:"gt=0"`
	JWT          JWTConfig
	Session      SessionConfig
	RateLimit    RateLimitConfig
	Server       ServerConfig
}

// JWTConfig holds the HS256 verification settings.
type JWTConfig struct {
	Secret string `validate:"required,min=32"`
	Issuer string
}

// SessionConfig selects and tunes the session snapshot store.
type SessionConfig struct {
	Store         string        `validate:"oneof=memory redis"`
	CookieName    string        `validate:"required"`
	CookieSecure  bool
	TTL           time.Duration `validate:"gt=0"`
	RedisAddr     string        `validate:"required_if=Store redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0,lte=15"`
}

// RateLimitConfig holds token bucket parameters for per-caller rate limiting.
type RateLimitConfig struct {
	Rate  float64 `validate:"gt=0"`
	Burst int     `validate:"gte=1"`
}

// ServerConfig holds http.Server timeouts.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration `validate:"gt=0"`
	IdleTimeout       time.Duration `validate:"gt=0"`
	ShutdownTimeout   time.Duration `validate:"gt=0"`
}

// Load reads configuration from environment variables, falling back to defaults.
// Variables found in the given dotenv files (".env" when none are given) are
// applied first; they never override variables already set in the environment.
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable dotenv file", "error", err)
	}

	return Config{
		ListenAddr:   envOr("LISTEN_ADDR", ":8080"),
		BackendURL:   envOr("BACKEND_URL", "http://localhost:8082"),
		LogLevel:     strings.ToLower(envOr("LOG_LEVEL", "info")),
		MaxBodyBytes: int64(envInt("MAX_BODY_BYTES", 1<<20)),
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: envOr("JWT_ISSUER", "commandcentre"),
		},
		Session: SessionConfig{
			Store:         envOr("SESSION_STORE", "memory"),
			CookieName:    envOr("SESSION_COOKIE", "cc_session"),
			CookieSecure:  envBool("SESSION_COOKIE_SECURE", false),
			TTL:           envDuration("SESSION_TTL", 12*time.Hour),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       envInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Rate:  envFloat("RATE_LIMIT_RATE", 100),
			Burst: envInt("RATE_LIMIT_BURST", 20),
		},
		Server: ServerConfig{
			ReadHeaderTimeout: envDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
			IdleTimeout:       envDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   envDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return f
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return d
	}
	return fallback
}
