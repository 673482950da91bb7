// Package testdb provides database helpers for tests.
//
// PostgreSQL integration tests run only when ACCOUNTS_TEST_DATABASE_URL is
// set and are skipped otherwise. Each test runs in its own transaction that
// is rolled back when the test completes, so tests do not see each other's
// data:
//
//	func TestAccountStore(t *testing.T) {
//	    db := testdb.OpenPostgres(t)
//	    require.NoError(t, postgres.Migrate(ctx, db, "up", nil))
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        accounts := postgres.NewPostgresAccountStore(tx, nil)
//	        // ...
//	    })
//	}
//
// SQLite tests need no external service; SQLitePath returns a fresh database
// file inside the test's temporary directory.
package testdb
