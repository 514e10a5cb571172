// Package sentinel holds storage-level facts that services translate into
// responses. Validation failures belong in pkg/domain-errors instead.
package sentinel

import "errors"

var (
	// ErrNotFound: no user, activity or conversation with that key.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a unique key (handle, cognito user id, activity uuid) is taken.
	ErrConflict = errors.New("conflict")
)
