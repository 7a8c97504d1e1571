// Package apperr defines the error taxonomy shared by the whole client.
//
// Every asynchronous failure is converted to one of these kinds at the
// boundary where it occurs:
//
//   - ErrValidation / ErrInvalidURL: local, pre-network; surfaced immediately,
//     nothing is mutated, never retried.
//   - ErrAuth / ErrUnauthorized: rejected by the identity provider or the
//     operation requires a signed-in user.
//   - ErrBackend: insert/query/upload failure; surfaced as a non-fatal
//     notification, local state is preserved so the user can retry manually.
//   - ErrStorageParse: corrupt local data; silently degrades to "absent".
package apperr

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidURL   = errors.New("invalid url")
	ErrAuth         = errors.New("authentication failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBackend      = errors.New("backend failure")
	ErrStorageParse = errors.New("stored data unreadable")
	ErrNotFound     = errors.New("not found")
)

// IsLocal reports whether err was produced before any network call was made.
func IsLocal(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidURL)
}
