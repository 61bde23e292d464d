/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All business error types in one place for consistency and discoverability.
  The three sentinels form the complete client-facing taxonomy; anything else
  reaching a caller is an infrastructure fault and is propagated unchanged.

ERROR CATEGORIES:
  1. Gate errors - Unknown user
  2. Validation errors - Overdraft attempts, malformed input
  3. Lookup errors - Missing or foreign statements

USAGE:
  if errors.Is(err, ledger.ErrInsufficientFunds) {
      // 400 to the client, no retry
  }

SEE ALSO:
  - service.go: Raises these errors
  - api: Maps these errors to HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUserNotFound is returned when the referenced user id does not
	// resolve in the user directory.
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance
	// computed at validation time. Retrying the same request fails identically.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStatementNotFound is returned when a statement id does not resolve
	// for the requesting user. A statement owned by a different user is
	// indistinguishable from a missing one.
	ErrStatementNotFound = errors.New("statement not found")

	// ErrInvalidAmount is returned when a requested amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidOperationType is returned for an operation kind outside the closed set.
	ErrInvalidOperationType = errors.New("invalid operation type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError provides details about a rejected withdrawal.
type InsufficientFundsError struct {
	UserID    UserID
	Available Amount
	Requested Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s, shortfall %s",
		e.Available, e.Requested, e.Requested.Sub(e.Available))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
// Client errors are terminal; retrying without changing the request cannot succeed.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidOperationType)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrStatementNotFound)
}
