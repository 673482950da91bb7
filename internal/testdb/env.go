package testdb

import "os"

// DatabaseURLEnv names the variable holding the PostgreSQL test database URL.
const DatabaseURLEnv = "ACCOUNTS_TEST_DATABASE_URL"

// GetTestDatabaseURL returns the PostgreSQL test database URL, or "" when
// integration tests are disabled.
func GetTestDatabaseURL() string {
	return os.Getenv(DatabaseURLEnv)
}

// IsIntegrationTestEnvironment reports whether a PostgreSQL test database
// is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// ShouldSkipDatabaseTest returns true when PostgreSQL integration tests
// should be skipped.
func ShouldSkipDatabaseTest() bool {
	return !IsIntegrationTestEnvironment()
}
