package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds the whole application configuration.
// Populated from environment variables (.env is loaded by cmd/*/main.go).
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Autosave AutosaveConfig
	Editor   EditorConfig
	Jobs     JobConfig
	Cache    CacheConfig
	Display  DisplayConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string // guidelight-assets
	UseSSL    bool
}

// AutosaveConfig drives pkg/autosave for drafts and board ordering
type AutosaveConfig struct {
	Debounce    time.Duration // 2s
	RevertAfter time.Duration // saved → idle
	SaveTimeout time.Duration
}

// EditorConfig controls in-memory editor sessions
type EditorConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// JobConfig holds asynq schedules (standard 5-field cron specs)
type JobConfig struct {
	DraftCleanupCron string
	DraftRetention   time.Duration
	AssetSweepCron   string
}

type CacheConfig struct {
	CategoryTTL    time.Duration
	DisplayFeedTTL time.Duration
}

// DisplayConfig is the shared secret kiosks present on display routes
type DisplayConfig struct {
	Token string
}

const defaultJWTSecret = "change-me-in-production"

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Guidelight API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "guidelight"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 60),   // 1 hour
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 168), // 7 days
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "guidelight-assets"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Autosave: AutosaveConfig{
			Debounce:    getEnvDuration("AUTOSAVE_DEBOUNCE", 2*time.Second),
			RevertAfter: getEnvDuration("AUTOSAVE_REVERT_AFTER", 2*time.Second),
			SaveTimeout: getEnvDuration("AUTOSAVE_SAVE_TIMEOUT", 10*time.Second),
		},
		Editor: EditorConfig{
			IdleTTL:       getEnvDuration("EDITOR_IDLE_TTL", 30*time.Minute),
			SweepInterval: getEnvDuration("EDITOR_SWEEP_INTERVAL", time.Minute),
		},
		Jobs: JobConfig{
			DraftCleanupCron: getEnv("JOB_DRAFT_CLEANUP_CRON", "30 3 * * *"),
			DraftRetention:   getEnvDuration("DRAFT_RETENTION", 30*24*time.Hour),
			AssetSweepCron:   getEnv("JOB_ASSET_SWEEP_CRON", "0 4 * * 0"),
		},
		Cache: CacheConfig{
			CategoryTTL:    getEnvDuration("CACHE_CATEGORY_TTL", time.Hour),
			DisplayFeedTTL: getEnvDuration("CACHE_DISPLAY_FEED_TTL", 30*time.Second),
		},
		Display: DisplayConfig{
			Token: getEnv("DISPLAY_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Display.Token == "" {
			return fmt.Errorf("DISPLAY_TOKEN must be set in production")
		}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, spec := range map[string]string{
		"JOB_DRAFT_CLEANUP_CRON": c.Jobs.DraftCleanupCron,
		"JOB_ASSET_SWEEP_CRON":   c.Jobs.AssetSweepCron,
	} {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("%s: invalid cron spec %q: %w", name, spec, err)
		}
	}

	if c.Autosave.Debounce <= 0 {
		return fmt.Errorf("AUTOSAVE_DEBOUNCE must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
