package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
)

// application holds the shared dependencies of the server and owns their
// cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accountService service.AccountService
}

// newApplication wires the validator, hasher, token issuer and stores of the
// configured backend into the account service.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	validator, err := domain.NewValidator(cfg.Validation.EmailRegex, cfg.Validation.PasswordPatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build validator: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	logger.Info("Token issuer initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	accounts, phones, err := newStores(cfg.Database.Driver, db, logger)
	if err != nil {
		return nil, err
	}

	app.accountService, err = service.NewAccountService(service.AccountServiceDeps{
		DB:        db,
		Accounts:  accounts,
		Phones:    phones,
		Validator: validator,
		Hasher:    auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:    tokens,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
