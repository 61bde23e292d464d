/*
store.go - Persistence contracts for the statement ledger

PURPOSE:
  Defines the interface between the ledger logic and storage. The store
  handles persistence while maintaining append-only semantics. Different
  implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  StatementStore: Statement persistence (append, point lookup, history)
  UserDirectory:  Existence gate against the external user directory

APPEND-ONLY CONTRACT:
  The StatementStore interface enforces append-only semantics:
  - Append(): the ONLY write operation
  - NO Update() or Delete() methods exist

OWNERSHIP:
  ByID takes the owning user id as part of the lookup key. A statement that
  exists but belongs to a different user is reported exactly like a missing
  one, so callers cannot probe for other users' records.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - ledger/store: In-memory store for tests

SEE ALSO:
  - service.go: Use cases built on these contracts
  - store/sqlite/sqlite.go: Concrete implementation
*/
package ledger

import "context"

// =============================================================================
// STATEMENT STORE - Append-only statement persistence
// =============================================================================

// StatementStore handles persistence of statements.
// IMPORTANT: StatementStore is APPEND-ONLY. No Update, No Delete. Ever.
type StatementStore interface {
	// Append persists a statement. This is the ONLY write operation.
	Append(ctx context.Context, st Statement) error

	// ByUser returns the full history for a user, ordered by CreatedAt.
	// An unknown user yields an empty history, not an error.
	ByUser(ctx context.Context, userID UserID) ([]Statement, error)

	// ByID returns the statement with the given id owned by the given user.
	// Returns (nil, nil) when no such statement exists for that user,
	// including when the id exists but belongs to someone else.
	ByID(ctx context.Context, userID UserID, id StatementID) (*Statement, error)
}

// =============================================================================
// USER DIRECTORY - External existence gate
// =============================================================================

// User is the minimal view of the external user directory this
// subsystem depends on.
type User struct {
	ID   UserID
	Name string
}

// UserDirectory resolves user ids. The directory is read-only from the
// ledger's perspective; the ledger never creates or deletes users.
type UserDirectory interface {
	// FindByID returns the user or (nil, nil) when the id does not resolve.
	FindByID(ctx context.Context, id UserID) (*User, error)
}
