// Package postgres implements the account and phone stores on PostgreSQL
// through the pgx database/sql driver. Schema migrations are embedded and
// applied with goose.
//
// Uniqueness is enforced by the database: the accounts_username_key
// constraint on username and the accounts_email_lower_idx index on
// lower(email). Violations are reported as store.ErrUsernameExists and
// store.ErrEmailExists.
package postgres
