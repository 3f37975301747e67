package database

import (
	"fmt"

	"tuteai/internal/config"
	"tuteai/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

const (
	DriverOracle = "oracle"
	DriverSQLite = "sqlite"
)

func init() {
	// sqlx does not know these driver names; teach Rebind and named queries
	// which placeholder style each one speaks.
	sqlx.BindDriver(DriverOracle, sqlx.NAMED)
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// NewDB connects to the configured database and verifies it with a ping.
func NewDB(cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	switch driver {
	case DriverOracle, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// modernc sqlite serializes writers; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}
