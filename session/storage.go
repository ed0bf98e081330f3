package session

import "errors"

// ErrStorageUnavailable is returned when a storage backend cannot be
// reached. Callers treat it as "no session" on the read path and as a hard
// failure on the write path.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// Storage is the durable key-value mirror of the session. All writes are
// all-or-nothing across the given keys: a SetAll that fails must leave no
// partial subset behind, and DeleteAll removes every key or none.
//
// The Store is the only component that writes new values. The HTTP
// transport additionally reads the credential and clears both keys on a
// detected expiry, but never writes.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// SetAll writes every pair atomically.
	SetAll(pairs map[string]string) error
	// DeleteAll removes the given keys atomically. Missing keys are not an
	// error; DeleteAll is idempotent.
	DeleteAll(keys ...string) error
}
