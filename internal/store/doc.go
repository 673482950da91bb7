// Package store defines the persistence contracts for accounts and their
// phones. Implementations live under internal/platform; the service layer
// depends only on these interfaces and on RunInTransaction.
package store
