// Package service contains the account use cases: registration, full and
// partial update, deletion and lookup.
//
// The service validates input against the configured email and password
// rules, enforces username and email uniqueness, hashes passwords and
// issues a token at registration. Persistence goes through the store
// interfaces; every multi-step write runs inside store.RunInTransaction so
// a failure leaves no partial account behind.
//
// Uniqueness checks read the current state before writing. The database's
// unique constraints remain the authority when two requests race: their
// violations come back from the stores as store.ErrUsernameExists and
// store.ErrEmailExists and are reported as ErrUsernameTaken and
// ErrEmailTaken.
package service
