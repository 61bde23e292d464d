/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements ledger.StatementStore and users.Store using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

APPEND-ONLY ENFORCEMENT:
  The statements table is append-only:
  - No UPDATE statements on the statements table
  - No DELETE statements on the statements table

KEY TABLES:
  users:       Account records with bcrypt password hashes
  statements:  Immutable ledger of all operations

INDEXES:
  idx_statements_user_created: History and balance queries (hot path)

AMOUNTS:
  Stored as canonical decimal strings, never as floats. Parsing back through
  ledger.ParseAmount keeps the money path exact end to end.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety around the shared connection. SQLite
  is opened with WAL (Write-Ahead Logging): multiple readers don't block,
  a single writer at a time, better crash recovery. The per-user serialization
  of check-then-append lives in ledger.Service, not here.

USAGE:
  store, err := sqlite.New("./data/ledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/users"
)

// Store implements the ledger and user storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Users (account records, external to the ledger core)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Statements (append-only ledger)
	CREATE TABLE IF NOT EXISTS statements (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		op_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Balance calculation and history display (hot path)
	CREATE INDEX IF NOT EXISTS idx_statements_user_created
		ON statements(user_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STATEMENT STORE (ledger.StatementStore interface)
// =============================================================================

// Append adds a statement to the ledger.
func (s *Store) Append(ctx context.Context, st ledger.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO statements (id, user_id, op_type, amount, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		st.ID,
		st.UserID,
		st.Type,
		st.Amount.String(),
		st.Description,
		st.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append statement: %w", err)
	}
	return nil
}

// ByUser returns the full history for a user, chronologically.
func (s *Store) ByUser(ctx context.Context, userID ledger.UserID) ([]ledger.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, user_id, op_type, amount, description, created_at
		FROM statements
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statements: %w", err)
	}
	defer rows.Close()

	var statements []ledger.Statement
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}
	return statements, rows.Err()
}

// ByID returns a statement scoped to its owning user.
// The user id is part of the lookup key: a statement owned by a different
// user is reported exactly like a missing one.
func (s *Store) ByID(ctx context.Context, userID ledger.UserID, id ledger.StatementID) (*ledger.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, user_id, op_type, amount, description, created_at
		FROM statements
		WHERE id = ? AND user_id = ?
	`

	rows, err := s.db.QueryContext(ctx, query, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	st, err := scanStatement(rows)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func scanStatement(rows *sql.Rows) (ledger.Statement, error) {
	var (
		st        ledger.Statement
		amount    string
		createdAt string
	)

	err := rows.Scan(&st.ID, &st.UserID, &st.Type, &amount, &st.Description, &createdAt)
	if err != nil {
		return st, fmt.Errorf("failed to scan statement: %w", err)
	}

	st.Amount, err = ledger.ParseAmount(amount)
	if err != nil {
		return st, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	st.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return st, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	return st, nil
}

// =============================================================================
// USER STORE (users.Store interface)
// =============================================================================

// UserStore exposes the users table through the users.Store interface.
// It shares the connection and lock with the statement side of the Store.
type UserStore struct {
	s *Store
}

// Users returns the user-store view of this database.
func (s *Store) Users() *UserStore {
	return &UserStore{s: s}
}

// Save persists a new user. A duplicate email fails with users.ErrEmailTaken.
func (us *UserStore) Save(ctx context.Context, u users.User) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := us.s.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash,
		u.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// ByID retrieves a user by id.
func (us *UserStore) ByID(ctx context.Context, id string) (*users.User, error) {
	return us.queryUser(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?", id)
}

// ByEmail retrieves a user by email.
func (us *UserStore) ByEmail(ctx context.Context, email string) (*users.User, error) {
	return us.queryUser(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", email)
}

func (us *UserStore) queryUser(ctx context.Context, query string, arg any) (*users.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	var (
		u         users.User
		createdAt string
	)
	err := us.s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	return &u, nil
}

// Helper functions

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

var (
	_ ledger.StatementStore = (*Store)(nil)
	_ users.Store           = (*UserStore)(nil)
)
