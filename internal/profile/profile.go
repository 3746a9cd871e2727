// Package profile reads frontend user records. The records are owned by the
// hosting CMS; this package never writes them outside of tests and seeding.
package profile

import (
	"context"

	id "formprefill/pkg/domain"
)

// Profile is a user's stored attributes keyed by field name. It may contain
// fields that must never leave the server (password hashes, lock state).
type Profile map[string]string

// Store looks up profiles by user id. Implementations return an error
// wrapping sentinel.ErrNotFound for unknown users.
type Store interface {
	FindByID(ctx context.Context, userID id.UserID) (Profile, error)
}
