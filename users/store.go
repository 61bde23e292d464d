package users

import "context"

// Store handles persistence of user records.
type Store interface {
	// Save persists a new user. Fails if the email is already registered.
	Save(ctx context.Context, u User) error

	// ByID returns the user or (nil, nil) when the id does not resolve.
	ByID(ctx context.Context, id string) (*User, error)

	// ByEmail returns the user or (nil, nil) when the email is unknown.
	ByEmail(ctx context.Context, email string) (*User, error)
}
