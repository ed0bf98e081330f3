package farmaplex

import "errors"

var (
	// ErrAlreadyBuilt means Build was called twice on one builder.
	ErrAlreadyBuilt = errors.New("builder already used")
	// ErrStorageRequired means Build ran without a session storage backend.
	ErrStorageRequired = errors.New("session storage required")
	// ErrNotAuthenticated means an operation needs a logged-in session and
	// there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
)
