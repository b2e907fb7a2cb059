// Package db opens the console database and migrates its schema.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/atelier-market/admin-console/internal/config"
	"github.com/atelier-market/admin-console/internal/db/dsn"
	"github.com/atelier-market/admin-console/internal/db/models"
)

// Supported storage engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// ErrUnknownEngine is returned for an engine name that is not supported.
var ErrUnknownEngine = errors.New("unknown storage engine")

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg config.Store) (gorm.Dialector, error) {
	switch cfg.Engine {
	case "", EngineSQLite:
		return sqlite.Open(cfg.Path), nil
	case EngineMySQL:
		return gormmysql.Open(dsn.MySQL(cfg.DB)), nil
	case EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg.DB)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.Store) (*gorm.DB, error) {
	if cfg.Engine == "" || cfg.Engine == EngineSQLite {
		if dir := filepath.Dir(cfg.Path); cfg.Path != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if db.Dialector.Name() == EngineSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database: %w", err)
		}

		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err = db.AutoMigrate(&models.SessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Debug().Str("engine", db.Dialector.Name()).Msg("session store ready")

	return db, nil
}
