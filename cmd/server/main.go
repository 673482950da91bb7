// Package main runs the accounts API server. With -migrate it applies a
// database migration command instead and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/accounts-api/internal/platform/migrate"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command ("+migrate.CommandUp+"|"+migrate.CommandDown+"|"+
			migrate.CommandStatus+"|"+migrate.CommandVersion+") and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("accounts-api failed", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either executes the
// requested migration command or serves HTTP until a shutdown signal.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, cfg.Database.Driver, migrateCmd, logger)
	}

	// The schema is brought up to date before serving.
	if err := runMigrations(ctx, db, cfg.Database.Driver, migrate.CommandUp, logger); err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
