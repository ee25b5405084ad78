package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/music-library/internal/config"
	"github.com/mrlokans/music-library/internal/entities"
)

// sqliteParams turn on foreign keys, which SQLite leaves off by default
// and the ON DELETE CASCADE constraints rely on, and make concurrent
// writers wait for the lock instead of failing with SQLITE_BUSY.
const sqliteParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"

type Database struct {
	DB     *gorm.DB
	Driver string
}

// NewDatabase opens a SQLite database at dbPath with default settings.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     dbPath,
		LogLevel: "warn",
	})
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.Database) (*Database, error) {
	dialector, target, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel(cfg.LogLevel)),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	// Auto-migrate all entities. Artist goes first so the albums and songs
	// foreign keys have a table to point at.
	err = db.AutoMigrate(
		&entities.Artist{},
		&entities.Album{},
		&entities.Song{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully (%s: %s)", db.Dialector.Name(), target)

	return &Database{DB: db, Driver: db.Dialector.Name()}, nil
}

// dialectorFor returns the gorm dialector for cfg and a description of the
// target that is safe to log.
func dialectorFor(cfg config.Database) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case "", config.DatabaseDriverSQLite:
		if cfg.Path == "" {
			return nil, "", fmt.Errorf("database path is required for sqlite")
		}
		return sqlite.Open(SQLiteDSN(cfg.Path)), cfg.Path, nil
	case config.DatabaseDriverMySQL:
		if cfg.Name == "" {
			return nil, "", fmt.Errorf("database name is required for mysql")
		}
		target := fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
		return mysql.Open(MySQLDSN(cfg)), target, nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN appends the connection parameters the catalog needs to path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqliteParams
}

// MySQLDSN builds a go-sql-driver DSN. clientFoundRows makes UPDATE report
// matched rows rather than changed rows, so writing an unchanged value
// still counts as a hit.
func MySQLDSN(cfg config.Database) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
