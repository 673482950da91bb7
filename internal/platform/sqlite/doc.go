// Package sqlite implements the account and phone stores on SQLite using the
// pure Go modernc.org/sqlite driver. It backs local development and the
// service and API tests; schema migrations are shared in shape with the
// postgres package and applied with goose.
//
// Timestamps are stored as Unix milliseconds.
package sqlite
