package store

import (
	"context"
	"database/sql"
)

// DBTX is the query surface the account and phone stores run on. Both
// *sql.DB and *sql.Tx satisfy it, so a store bound with WithTx joins the
// caller's transaction without any other change.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
