package store

import (
	"database/sql"
	"fmt"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fairyhunter13/smartmarket-catalog/internal/config"
	"github.com/fairyhunter13/smartmarket-catalog/internal/obs"
)

// Supported DB_DRIVER values.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open builds the Store selected by cfg.DBDriver. SQL stores get the slog
// query logger and tracing callbacks installed.
func Open(cfg config.Config) (*Store, error) {
	if cfg.DBDriver == DriverMemory {
		return NewMemory(), nil
	}
	dialector, err := dialectorFor(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewLogger(obs.Logger, cfg.DBSlowQuery),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if err := prepare(db, cfg.DBDriver); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return NewGorm(db), nil
}

// registerCallbacks is swapped in tests to exercise the failure path.
var registerCallbacks = obs.RegisterGORMCallbacks

func prepare(db *gorm.DB, driver string) error {
	if driver == DriverSQLite {
		// SQLite serialises writers; one connection avoids "database is locked"
		// and keeps in-memory databases shared.
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := registerCallbacks(db, obs.DefaultTracer()); err != nil {
		return fmt.Errorf("register callbacks: %w", err)
	}
	return nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		connCfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connCfg)}), nil
	case DriverMySQL:
		mc, err := mysqldrv.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		// Scanning DATETIME columns needs parseTime.
		mc.ParseTime = true
		connector, err := mysqldrv.NewConnector(mc)
		if err != nil {
			return nil, fmt.Errorf("mysql connector: %w", err)
		}
		return mysql.New(mysql.Config{Conn: sql.OpenDB(connector)}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
