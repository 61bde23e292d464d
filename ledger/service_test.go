package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fakeDirectory is an in-memory user existence gate.
type fakeDirectory struct {
	known map[ledger.UserID]bool
}

func (d *fakeDirectory) FindByID(_ context.Context, id ledger.UserID) (*ledger.User, error) {
	if !d.known[id] {
		return nil, nil
	}
	return &ledger.User{ID: id, Name: "test user"}, nil
}

func newTestService(knownUsers ...ledger.UserID) (*ledger.Service, *store.Memory) {
	dir := &fakeDirectory{known: make(map[ledger.UserID]bool)}
	for _, u := range knownUsers {
		dir.known[u] = true
	}
	mem := store.NewMemory()
	return ledger.NewService(dir, mem), mem
}

func depositInput(user ledger.UserID, amount int64) ledger.CreateOperationInput {
	return ledger.CreateOperationInput{
		UserID:      user,
		Type:        ledger.OpDeposit,
		Amount:      ledger.NewAmount(amount),
		Description: "deposit",
	}
}

func withdrawInput(user ledger.UserID, amount int64) ledger.CreateOperationInput {
	return ledger.CreateOperationInput{
		UserID:      user,
		Type:        ledger.OpWithdraw,
		Amount:      ledger.NewAmount(amount),
		Description: "withdraw",
	}
}

// =============================================================================
// CREATE-OPERATION TESTS
// =============================================================================

func TestCreateOperation_Deposit_Succeeds(t *testing.T) {
	// GIVEN: An existing user with no history
	// WHEN: Depositing a positive amount
	// THEN: A statement with a fresh id is persisted

	svc, _ := newTestService("u1")
	ctx := context.Background()

	st, err := svc.CreateOperation(ctx, depositInput("u1", 100))

	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, ledger.UserID("u1"), st.UserID)
	assert.Equal(t, ledger.OpDeposit, st.Type)
	assert.False(t, st.CreatedAt.IsZero())
}

func TestCreateOperation_UnknownUser_Rejected(t *testing.T) {
	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("ghost", 100))

	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestCreateOperation_Withdraw_InsufficientFunds_Rejected(t *testing.T) {
	// GIVEN: User deposited 100
	// WHEN: Withdrawing 200
	// THEN: Rejected with ErrInsufficientFunds and nothing is written

	svc, mem := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("u1", 100))
	require.NoError(t, err)

	_, err = svc.CreateOperation(ctx, withdrawInput("u1", 200))

	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	var ifErr *ledger.InsufficientFundsError
	require.ErrorAs(t, err, &ifErr)
	assert.True(t, ifErr.Available.Equal(ledger.NewAmount(100)))
	assert.True(t, ifErr.Requested.Equal(ledger.NewAmount(200)))

	history, _ := mem.ByUser(ctx, "u1")
	assert.Len(t, history, 1, "rejected withdrawal must not be recorded")
}

func TestCreateOperation_OverLimitWithdrawal_FailsIdenticallyOnRetry(t *testing.T) {
	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("u1", 100))
	require.NoError(t, err)

	// Same over-limit request twice: both rejected, balance untouched
	for i := 0; i < 2; i++ {
		_, err = svc.CreateOperation(ctx, withdrawInput("u1", 150))
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	}

	bs, err := svc.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, bs.Balance.Equal(ledger.NewAmount(100)))
}

func TestCreateOperation_WithdrawExactBalance_Succeeds(t *testing.T) {
	// GIVEN: Balance 100 after deposit 100, rejected withdraw 200
	// WHEN: Withdrawing exactly 100
	// THEN: Accepted; balance is 0

	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("u1", 100))
	require.NoError(t, err)

	_, err = svc.CreateOperation(ctx, withdrawInput("u1", 200))
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	_, err = svc.CreateOperation(ctx, withdrawInput("u1", 100))
	require.NoError(t, err)

	bs, err := svc.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, bs.Balance.IsZero(), "balance should be exactly zero, got %s", bs.Balance)
}

func TestCreateOperation_NonPositiveAmount_Rejected(t *testing.T) {
	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("u1", 0))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = svc.CreateOperation(ctx, withdrawInput("u1", -5))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestCreateOperation_UnknownType_Rejected(t *testing.T) {
	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, ledger.CreateOperationInput{
		UserID: "u1",
		Type:   ledger.OperationType("transfer"),
		Amount: ledger.NewAmount(10),
	})

	assert.ErrorIs(t, err, ledger.ErrInvalidOperationType)
}

// =============================================================================
// GET-BALANCE TESTS
// =============================================================================

func TestGetBalance_ReturnsBalanceAndHistory(t *testing.T) {
	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("u1", 300))
	require.NoError(t, err)
	_, err = svc.CreateOperation(ctx, withdrawInput("u1", 120))
	require.NoError(t, err)

	bs, err := svc.GetBalance(ctx, "u1")

	require.NoError(t, err)
	assert.True(t, bs.Balance.Equal(ledger.NewAmount(180)))
	assert.Len(t, bs.Statements, 2)
	assert.True(t, bs.Summary.TotalDeposited.Equal(ledger.NewAmount(300)))
	assert.True(t, bs.Summary.TotalWithdrawn.Equal(ledger.NewAmount(120)))
}

func TestGetBalance_EmptyHistory_Zero(t *testing.T) {
	svc, _ := newTestService("u1")

	bs, err := svc.GetBalance(context.Background(), "u1")

	require.NoError(t, err)
	assert.True(t, bs.Balance.IsZero())
	assert.Empty(t, bs.Statements)
}

func TestGetBalance_UnknownUser_Rejected(t *testing.T) {
	svc, _ := newTestService("u1")

	_, err := svc.GetBalance(context.Background(), "ghost")

	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

// =============================================================================
// GET-OPERATION TESTS
// =============================================================================

func TestGetOperation_ReturnsOwnStatement(t *testing.T) {
	svc, _ := newTestService("u1")
	ctx := context.Background()

	created, err := svc.CreateOperation(ctx, depositInput("u1", 100))
	require.NoError(t, err)

	got, err := svc.GetOperation(ctx, "u1", created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Amount.Equal(ledger.NewAmount(100)))
}

func TestGetOperation_UnknownUser_Rejected(t *testing.T) {
	svc, _ := newTestService("u1")
	ctx := context.Background()

	created, err := svc.CreateOperation(ctx, depositInput("u1", 100))
	require.NoError(t, err)

	_, err = svc.GetOperation(ctx, "ghost", created.ID)

	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestGetOperation_UnknownID_Rejected(t *testing.T) {
	svc, _ := newTestService("u1")

	_, err := svc.GetOperation(context.Background(), "u1", "no-such-statement")

	assert.ErrorIs(t, err, ledger.ErrStatementNotFound)
}

func TestGetOperation_ForeignStatement_LooksMissing(t *testing.T) {
	// GIVEN: A statement owned by u1
	// WHEN: u2 requests it by id
	// THEN: Same error as a nonexistent id (no existence leak)

	svc, _ := newTestService("u1", "u2")
	ctx := context.Background()

	created, err := svc.CreateOperation(ctx, depositInput("u1", 100))
	require.NoError(t, err)

	_, err = svc.GetOperation(ctx, "u2", created.ID)

	assert.ErrorIs(t, err, ledger.ErrStatementNotFound)
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestCreateOperation_ConcurrentWithdrawals_ExactlyOneSucceeds(t *testing.T) {
	// GIVEN: Balance 100
	// WHEN: Two concurrent withdrawals of 60 each
	// THEN: Exactly one succeeds; final balance is 40, never negative

	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("u1", 100))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOperation(ctx, withdrawInput("u1", 60))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent withdrawal must win")

	bs, err := svc.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, bs.Balance.Equal(ledger.NewAmount(40)), "final balance should be 40, got %s", bs.Balance)
}

func TestCreateOperation_ConcurrentMixedLoad_BalanceNeverNegative(t *testing.T) {
	// Hammer a single account with deposits and withdrawals; the invariant is
	// that the reported balance equals the sum over accepted operations only
	// and never goes negative.

	svc, _ := newTestService("u1")
	ctx := context.Background()

	_, err := svc.CreateOperation(ctx, depositInput("u1", 50))
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				svc.CreateOperation(ctx, depositInput("u1", 10))
			} else {
				svc.CreateOperation(ctx, withdrawInput("u1", 25))
			}
		}(i)
	}
	wg.Wait()

	bs, err := svc.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, bs.Balance.IsNegative(), "balance must never go negative, got %s", bs.Balance)

	// The reported balance must equal the reduction of the accepted history.
	assert.True(t, bs.Balance.Equal(ledger.Balance(bs.Statements)))
}

func TestCreateOperation_DifferentUsers_DoNotContend(t *testing.T) {
	// Smoke test: parallel operations for independent users all succeed.

	userIDs := []ledger.UserID{"u1", "u2", "u3", "u4"}
	svc, _ := newTestService(userIDs...)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, len(userIDs))
	for i, u := range userIDs {
		wg.Add(1)
		go func(i int, u ledger.UserID) {
			defer wg.Done()
			_, errs[i] = svc.CreateOperation(ctx, depositInput(u, 100))
		}(i, u)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "user %s", userIDs[i])
	}
}
