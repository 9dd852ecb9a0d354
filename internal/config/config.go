package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "onedo"
	keyringSecret  = "jwt-secret"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrSecretNotFound is returned when no JWT secret is stored in the keyring.
	ErrSecretNotFound = errors.New("jwt secret not found in keyring")
)

type Config struct {
	Port string

	StoreBackend       string
	DataFile           string
	SQLDriver          string
	DatabaseURL        string
	DiscardCorruptData bool

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheEnabled  bool
	RateLimit     int
	RateWindow    time.Duration

	Location *time.Location

	JWTSecret      string
	PassphraseHash string
	TokenTTL       time.Duration

	ReminderWebhookURL     string
	ReminderRelayLockfile  string
	ReminderRelayProcess   string
	ReminderRequestTimeout time.Duration

	LogDir string
	Debug  bool
}

// Load reads the environment, after merging an optional .env file.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, f, err)
		}
	}

	dataDir := defaultDataDir()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DataFile:           getEnv("DATA_FILE", filepath.Join(dataDir, "habits.json")),
		SQLDriver:          strings.ToLower(getEnv("SQL_DRIVER", "sqlite")),
		DatabaseURL:        getEnv("DATABASE_URL", filepath.Join(dataDir, "onedo.db")),
		DiscardCorruptData: getEnvBool("DISCARD_CORRUPT_DATA", true),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheEnabled:  getEnvBool("CACHE_ENABLED", false),
		RateLimit:     getEnvInt("RATE_LIMIT", 100),
		RateWindow:    getEnvDuration("RATE_WINDOW", time.Minute),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		PassphraseHash: os.Getenv("PASSPHRASE_HASH"),
		TokenTTL:       getEnvDuration("TOKEN_TTL", 24*time.Hour),

		ReminderWebhookURL:     os.Getenv("REMINDER_WEBHOOK_URL"),
		ReminderRelayLockfile:  os.Getenv("REMINDER_RELAY_LOCKFILE"),
		ReminderRelayProcess:   getEnv("REMINDER_RELAY_PROCESS", "onedo-relay"),
		ReminderRequestTimeout: getEnvDuration("REMINDER_REQUEST_TIMEOUT", 5*time.Second),

		LogDir: os.Getenv("LOG_DIR"),
		Debug:  getEnvBool("DEBUG", false),
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("%w: TIMEZONE: %v", ErrInvalidConfig, err)
	}
	cfg.Location = loc

	if cfg.JWTSecret == "" {
		if secret, err := LoadJWTSecret(); err == nil {
			cfg.JWTSecret = secret
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQL:
	default:
		return fmt.Errorf("%w: STORE_BACKEND %q (want memory, file, redis or sql)", ErrInvalidConfig, c.StoreBackend)
	}

	switch c.SQLDriver {
	case "sqlite", "pgx", "postgres":
	default:
		return fmt.Errorf("%w: SQL_DRIVER %q (want sqlite, pgx or postgres)", ErrInvalidConfig, c.SQLDriver)
	}

	if c.RateLimit < 1 {
		return fmt.Errorf("%w: RATE_LIMIT must be positive", ErrInvalidConfig)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: TOKEN_TTL must be positive", ErrInvalidConfig)
	}

	return nil
}

// RedisRequired reports whether any configured component talks to redis.
func (c *Config) RedisRequired() bool {
	return c.StoreBackend == BackendRedis || c.CacheEnabled
}

// AuthEnabled reports whether the API should require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.PassphraseHash != ""
}

// LoadJWTSecret reads the token signing secret from the OS keyring.
func LoadJWTSecret() (string, error) {
	secret, err := keyring.Get(keyringService, keyringSecret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrSecretNotFound
		}
		return "", fmt.Errorf("keyring unavailable: %w", err)
	}
	return secret, nil
}

// SaveJWTSecret stores the token signing secret in the OS keyring.
func SaveJWTSecret(secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringSecret, secret); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "onedo")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}
