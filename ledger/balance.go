/*
balance.go - Balance calculation from statement history

PURPOSE:
  Computes a user's balance from their operation history. This is the central
  calculation that answers "how much does this user have?".

KEY INSIGHT:
  Balance is a derived value. There is no stored balance field that can drift
  out of sync with the history: every caller reduces the same append-only
  ledger, so the arithmetic invariant is testable in isolation.

CALCULATION:
  balance = SUM(deposit amounts) - SUM(withdraw amounts)

  Order is irrelevant to the sum; an empty history yields zero. The reducer
  is pure and has no failure modes.

SEE ALSO:
  - service.go: Uses the reducer for withdrawal validation and statement display
  - types.go: Statement.Delta()
*/
package ledger

// =============================================================================
// BALANCE REDUCER - Pure, deterministic, no side effects
// =============================================================================

// Balance reduces a collection of statements to a single signed total.
func Balance(statements []Statement) Amount {
	total := ZeroAmount()
	for _, s := range statements {
		total = total.Add(s.Delta())
	}
	return total
}

// =============================================================================
// SUMMARY - Balance plus aggregate totals for display
// =============================================================================

// Summary breaks the balance down for statement display.
type Summary struct {
	Balance        Amount
	TotalDeposited Amount
	TotalWithdrawn Amount
}

// Summarize computes the balance together with per-kind totals in one pass.
func Summarize(statements []Statement) Summary {
	var (
		deposited = ZeroAmount()
		withdrawn = ZeroAmount()
	)
	for _, s := range statements {
		switch s.Type {
		case OpDeposit:
			deposited = deposited.Add(s.Amount)
		case OpWithdraw:
			withdrawn = withdrawn.Add(s.Amount)
		}
	}
	return Summary{
		Balance:        deposited.Sub(withdrawn),
		TotalDeposited: deposited,
		TotalWithdrawn: withdrawn,
	}
}
