/*
Package users provides the user directory: registration, credential storage,
and token authentication.

PURPOSE:
  The ledger treats users as an external directory referenced by id. This
  package is that directory: it owns user records and credentials, and issues
  the bearer tokens the HTTP layer verifies. Passwords are stored only as
  bcrypt hashes.

SEE ALSO:
  - service.go: Register / Authenticate use cases
  - ledger/store.go: The UserDirectory contract this package satisfies
*/
package users

import (
	"errors"
	"time"
)

// User is a registered account holder.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrIncorrectCredentials is returned for a wrong email OR a wrong password.
	// The two cases are deliberately indistinguishable so callers cannot probe
	// for registered emails.
	ErrIncorrectCredentials = errors.New("incorrect email or password")
)
