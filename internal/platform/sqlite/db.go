package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/phrazzld/accounts-api/internal/config"
	// Register the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver used for SQLite.
const DriverName = "sqlite"

// connPragmas are applied to every connection.
var connPragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
}

// DSN appends the connection pragmas to a database path or file: URI.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(connPragmas, "&")
}

// Open opens the SQLite database at cfg.URL and verifies it with a ping.
// The pool holds a single connection: SQLite allows one writer at a time
// and an in-memory database lives only as long as its connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}
