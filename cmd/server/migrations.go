package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/platform/sqlite"
)

// runMigrations executes a goose command against the embedded migrations of
// the configured backend.
func runMigrations(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	logger.Info("Executing migrations", "command", command, "driver", driver)

	var err error
	switch driver {
	case driverPostgres:
		err = postgres.Migrate(ctx, db, command, logger)
	case driverSQLite:
		err = sqlite.Migrate(ctx, db, command, logger)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
