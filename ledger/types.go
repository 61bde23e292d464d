/*
Package ledger provides the core statement ledger engine.

PURPOSE:
  This package contains the entity model and algorithms for a personal-finance
  ledger. A user's balance is never stored; it is always derived by reducing
  the user's full operation history. The same engine handles recording
  operations, balance calculation, and overdraft protection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: An exact monetary quantity in minor currency units
  - Statement: An immutable ledger entry (one deposit or withdrawal)
  - OperationType: The closed set of operation kinds

DESIGN PRINCIPLES:
  1. Immutability: Statements are never modified or deleted
  2. Precision: Uses decimal.Decimal to avoid floating-point drift
  3. Derived balance: Balance is computed from history, never cached
  4. Ownership: Every statement belongs to exactly one user

USAGE:
  st := ledger.Statement{
      UserID:      "user-123",
      Type:        ledger.OpDeposit,
      Amount:      ledger.NewAmount(100),
      Description: "paycheck",
  }

SEE ALSO:
  - balance.go: Balance calculation from statements
  - service.go: Use cases (create, get balance, get operation)
  - store.go: Persistence contracts
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Exact monetary quantity (minor currency units)
// =============================================================================

// Amount is a monetary quantity denominated in the smallest currency unit.
// All arithmetic is exact; floats never touch the money path.
type Amount struct {
	Value decimal.Decimal
}

// NewAmount creates an Amount from a number of minor units.
func NewAmount(minorUnits int64) Amount {
	return Amount{Value: decimal.NewFromInt(minorUnits)}
}

// ParseAmount parses a decimal string (as stored in the database).
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d}, nil
}

func ZeroAmount() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Neg() Amount               { return Amount{Value: a.Value.Neg()} }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }

// String returns the canonical decimal representation.
func (a Amount) String() string { return a.Value.String() }

// MinorUnits returns the amount as an int64 of minor units.
// Statements only ever hold whole minor units, so this is lossless.
func (a Amount) MinorUnits() int64 { return a.Value.IntPart() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type StatementID string

// =============================================================================
// OPERATION TYPE - Closed set of operation kinds
// =============================================================================

type OperationType string

const (
	OpDeposit  OperationType = "deposit"  // Funds added to the account
	OpWithdraw OperationType = "withdraw" // Funds removed from the account
)

// Valid reports whether t is one of the known operation kinds.
func (t OperationType) Valid() bool {
	return t == OpDeposit || t == OpWithdraw
}

// =============================================================================
// STATEMENT - Immutable signed ledger entry
// =============================================================================

// Statement is one entry in the append-only ledger.
//
// INVARIANTS:
//   - Amount is strictly positive; the sign comes from Type.
//   - Once created, a statement is never mutated or deleted.
//   - UserID references a user that existed at creation time. The owning
//     user may later be deleted without cascading; history is kept.
type Statement struct {
	ID          StatementID
	UserID      UserID
	Type        OperationType
	Amount      Amount
	Description string
	CreatedAt   time.Time
}

// Delta returns the signed contribution of this statement to the balance:
// positive for deposits, negative for withdrawals.
func (s Statement) Delta() Amount {
	if s.Type == OpWithdraw {
		return s.Amount.Neg()
	}
	return s.Amount
}
