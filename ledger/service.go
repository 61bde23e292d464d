/*
service.go - Ledger use cases

PURPOSE:
  Implements the three operations the ledger exposes to callers:
  create-operation, get-balance, and get-operation. Each invocation is a
  single atomic read-or-write against the store; the service keeps no state
  across calls other than the per-user lock registry.

CREATE-OPERATION FLOW:
  1. Gate: the user must exist in the directory
  2. Validate: amount > 0, known operation type
  3. For withdrawals: recompute balance from history, reject overdrafts
  4. Persist a new statement with fresh id and timestamp

CONCURRENCY:
  Steps 3-4 are a check-then-append race: two concurrent withdrawals could
  both validate against the same stale balance. The service closes the race
  with a per-user exclusive critical section, so for a single user the
  read-validate-append sequence is serializable. Operations for different
  users never contend. The section is short (one read, one reduction, one
  write) and performs no unrelated I/O.

SEE ALSO:
  - balance.go: The reducer used for withdrawal validation
  - errors.go: The error taxonomy raised here
*/
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SERVICE - Use cases over the store contracts
// =============================================================================

// Service implements the ledger use cases.
type Service struct {
	users      UserDirectory
	statements StatementStore
	locks      userLocks

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a ledger service over the given directory and store.
func NewService(users UserDirectory, statements StatementStore) *Service {
	return &Service{
		users:      users,
		statements: statements,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateOperationInput is the request to record a deposit or withdrawal.
type CreateOperationInput struct {
	UserID      UserID
	Type        OperationType
	Amount      Amount
	Description string
}

// BalanceStatement is the get-balance result: the computed balance plus the
// full history it was computed from.
type BalanceStatement struct {
	Balance    Amount
	Summary    Summary
	Statements []Statement
}

// =============================================================================
// CREATE-OPERATION
// =============================================================================

// CreateOperation validates and records one operation.
// On success exactly one statement is appended; on failure none is.
func (s *Service) CreateOperation(ctx context.Context, in CreateOperationInput) (*Statement, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperationType, in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, in.Amount)
	}

	if err := s.gateUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	// Serialize check-then-append per user. Deposits take the lock too:
	// a concurrent deposit changes the balance a withdrawal validates against.
	unlock := s.locks.lock(in.UserID)
	defer unlock()

	if in.Type == OpWithdraw {
		history, err := s.statements.ByUser(ctx, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		balance := Balance(history)
		if in.Amount.GreaterThan(balance) {
			return nil, &InsufficientFundsError{
				UserID:    in.UserID,
				Available: balance,
				Requested: in.Amount,
			}
		}
	}

	st := Statement{
		ID:          StatementID(uuid.NewString()),
		UserID:      in.UserID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		CreatedAt:   s.now(),
	}
	if err := s.statements.Append(ctx, st); err != nil {
		return nil, fmt.Errorf("appending statement: %w", err)
	}
	return &st, nil
}

// =============================================================================
// GET-BALANCE
// =============================================================================

// GetBalance returns the computed balance and the full operation history.
// Read-only, no side effects.
func (s *Service) GetBalance(ctx context.Context, userID UserID) (*BalanceStatement, error) {
	if err := s.gateUser(ctx, userID); err != nil {
		return nil, err
	}

	history, err := s.statements.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	summary := Summarize(history)
	return &BalanceStatement{
		Balance:    summary.Balance,
		Summary:    summary,
		Statements: history,
	}, nil
}

// =============================================================================
// GET-OPERATION
// =============================================================================

// GetOperation returns one statement by id, scoped to the owning user.
func (s *Service) GetOperation(ctx context.Context, userID UserID, id StatementID) (*Statement, error) {
	if err := s.gateUser(ctx, userID); err != nil {
		return nil, err
	}

	st, err := s.statements.ByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("loading statement: %w", err)
	}
	if st == nil {
		return nil, ErrStatementNotFound
	}
	return st, nil
}

func (s *Service) gateUser(ctx context.Context, id UserID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("resolving user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}

// =============================================================================
// PER-USER LOCKS
// =============================================================================

// userLocks hands out one mutex per user id. Locks are never removed:
// the map grows with the active user set, which is fine at this scale.
type userLocks struct {
	mu sync.Mutex
	m  map[UserID]*sync.Mutex
}

func (l *userLocks) lock(id UserID) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[UserID]*sync.Mutex)
	}
	um, ok := l.m[id]
	if !ok {
		um = &sync.Mutex{}
		l.m[id] = um
	}
	l.mu.Unlock()

	um.Lock()
	return um.Unlock
}
