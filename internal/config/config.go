package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Audit
		Global
		Database
		Catalog
		RateLimit
		Maintenance
		Tasks
	}

	HTTP struct {
		Port      int32
		Host      string
		APIPrefix string
	}
	Audit struct {
		Enabled       bool
		Dir           string // Archive of bulk operation reports
		RetentionDays int    // Days to keep audit events (default: 30)
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver       string // "sqlite" or "mysql"
		Path         string // SQLite file
		Host         string
		Port         int
		User         string
		Password     string
		Name         string
		MaxOpenConns int
		LogLevel     string // silent, error, warn or info
	}
	Catalog struct {
		MaxConcurrency      int  // Goroutines per reconciliation or aggregation
		TransactionalWrites bool // Run each write pipeline in one transaction
	}
	RateLimit struct {
		RequestsPerSecond float64 // 0 disables the limiter
		Burst             int
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string
		Workers         int
		MaxRetries      int
		RetryDelay      time.Duration
		TaskTimeout     time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// loadEnvFile copies the variables of an optional .env file into the
// process environment. Variables that are already set win.
func loadEnvFile() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: failed to load %s: %v", path, err)
		}
		return
	}
	log.Printf("Loaded environment from %s", path)
}

func NewConfig() *Config {
	loadEnvFile()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 1234)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("api_prefix", "/api")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Database defaults
	v.SetDefault("database_driver", DatabaseDriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_name", "music_library")
	v.SetDefault("database_max_open_conns", 10)
	v.SetDefault("database_log_level", "warn")

	// Catalog defaults
	v.SetDefault("catalog_max_concurrency", 8)
	v.SetDefault("catalog_transactional_writes", false)

	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 50)

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port:      v.GetInt32("PORT"),
			Host:      v.GetString("HOST"),
			APIPrefix: normalizePrefix(v.GetString("API_PREFIX")),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Path:         v.GetString("DATABASE_PATH"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			LogLevel:     strings.ToLower(v.GetString("DATABASE_LOG_LEVEL")),
		},
		Catalog: Catalog{
			MaxConcurrency:      v.GetInt("CATALOG_MAX_CONCURRENCY"),
			TransactionalWrites: v.GetBool("CATALOG_TRANSACTIONAL_WRITES"),
		},
		RateLimit: RateLimit{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			MaxRetries:      v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:      v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:     v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// normalizePrefix turns "api", "/api/" and "/api" into "/api". An empty
// prefix mounts the routes at the root.
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
