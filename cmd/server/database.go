package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/platform/sqlite"
	"github.com/phrazzld/accounts-api/internal/store"
)

// Supported values of database.driver.
const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// setupAppDatabase opens and pings the configured database.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case driverPostgres:
		db, err = postgres.Open(ctx, cfg)
	case driverSQLite:
		db, err = sqlite.Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established", "driver", cfg.Driver)
	return db, nil
}

// newStores builds the account and phone stores of the configured backend.
func newStores(driver string, db *sql.DB, logger *slog.Logger) (store.AccountStore, store.PhoneStore, error) {
	switch driver {
	case driverPostgres:
		return postgres.NewPostgresAccountStore(db, logger), postgres.NewPostgresPhoneStore(db, logger), nil
	case driverSQLite:
		return sqlite.NewAccountStore(db, logger), sqlite.NewPhoneStore(db, logger), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
