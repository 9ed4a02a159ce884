package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

func TestRecordExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-approved expense moves the balance immediately", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)

		result, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:   "acc-1",
			Amount:      dec(200),
			CategoryID:  "cat-1",
			Description: "office supplies",
		})
		require.NoError(t, err)
		require.False(t, result.RequiresApproval)
		require.Equal(t, domain.ApprovalApproved, result.Transaction.ApprovalStatus)
		require.True(t, result.Transaction.BalanceBefore.Equal(dec(1000)))
		require.True(t, result.Transaction.BalanceAfter.Equal(dec(800)))
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(800)))
	})

	t.Run("amount above threshold parks as pending without touching the balance", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 1000)
		account.ApprovalThreshold = dec(100)

		result, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(250),
			CategoryID: "cat-1",
		})
		require.NoError(t, err)
		require.True(t, result.RequiresApproval)
		require.Equal(t, domain.ApprovalPending, result.Transaction.ApprovalStatus)
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(1000)))
	})

	t.Run("amount equal to threshold does not need approval", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 1000)
		account.ApprovalThreshold = dec(100)

		result, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(100),
			CategoryID: "cat-1",
		})
		require.NoError(t, err)
		require.False(t, result.RequiresApproval)
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(900)))
	})

	t.Run("insufficient balance leaves no trace", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 50)

		_, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(80),
			CategoryID: "cat-1",
		})
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		require.ErrorIs(t, err, domain.ErrValidation)
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(50)))
		require.Empty(t, f.txns.All())
	})

	t.Run("per-transaction limit", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 1000)
		account.TransactionLimit = decPtr(300)

		_, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(301),
			CategoryID: "cat-1",
		})
		require.ErrorIs(t, err, domain.ErrTransactionLimitExceeded)
	})

	t.Run("daily limit counts only approved expenses", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 10000)
		account.DailyLimit = decPtr(500)
		uc := f.ledgerUseCase()

		for _, amount := range []int64{200, 200} {
			_, err := uc.RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
				AccountID:  "acc-1",
				Amount:     dec(amount),
				CategoryID: "cat-1",
			})
			require.NoError(t, err)
		}

		// 400 spent today; 150 more would breach the 500 cap.
		_, err := uc.RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(150),
			CategoryID: "cat-1",
		})
		require.ErrorIs(t, err, domain.ErrDailyLimitExceeded)

		// 100 fits exactly.
		_, err = uc.RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(100),
			CategoryID: "cat-1",
		})
		require.NoError(t, err)
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(9500)))
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 1000)
		account.IsActive = false
		account.Status = domain.AccountStatusSuspended

		_, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(10),
			CategoryID: "cat-1",
		})
		require.ErrorIs(t, err, domain.ErrAccountInactive)
	})

	t.Run("inactive category", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		f.expenses.Categories["cat-dead"] = &domain.ExpenseCategory{ID: "cat-dead", Name: "retired", IsActive: false}

		_, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(10),
			CategoryID: "cat-dead",
		})
		require.ErrorIs(t, err, domain.ErrCategoryInactive)
	})

	t.Run("tax is derived from the rate", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)

		result, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(200),
			CategoryID: "cat-1",
			TaxRate:    dec(19),
		})
		require.NoError(t, err)
		require.True(t, result.Expense.TaxAmount.Equal(dec(38)))
		require.True(t, result.Transaction.TaxAmount.Equal(dec(38)))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)

		_, err := f.ledgerUseCase().RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
			AccountID:  "acc-1",
			Amount:     dec(0),
			CategoryID: "cat-1",
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("allocation credits the balance", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 100)

		txn, err := f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionAllocation,
			Amount:    dec(400),
		})
		require.NoError(t, err)
		require.True(t, txn.BalanceAfter.Equal(dec(500)))
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(500)))
	})

	t.Run("adjustment needs a target balance", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 100)

		_, err := f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionAdjustment,
			Amount:    dec(25),
		})
		require.ErrorIs(t, err, domain.ErrAdjustmentTargetRequired)
	})

	t.Run("adjustment sets the balance to the target", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 100)

		txn, err := f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID:     "acc-1",
			Type:          domain.TransactionAdjustment,
			Amount:        dec(25),
			TargetBalance: decPtr(75),
		})
		require.NoError(t, err)
		require.True(t, txn.BalanceAfter.Equal(dec(75)))
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(75)))
	})

	t.Run("reconciliation marker never moves the balance", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 100)

		txn, err := f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionReconciliation,
			Amount:    dec(100),
		})
		require.NoError(t, err)
		require.True(t, txn.SignedDelta().IsZero())
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(100)))
	})

	t.Run("unknown type", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 100)

		_, err := f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionType("withdrawal"),
			Amount:    dec(10),
		})
		require.ErrorIs(t, err, domain.ErrInvalidTransactionType)
	})

	t.Run("closed account rejects new transactions", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 100)
		account.Status = domain.AccountStatusClosed

		_, err := f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionAllocation,
			Amount:    dec(10),
		})
		require.ErrorIs(t, err, domain.ErrAccountClosed)
	})
}

// The stored balance must always equal a replay of approved transactions from
// zero, whatever mix of operations produced it.
func TestBalanceMatchesLedgerReplay(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedAccount("acc-1", 0)
	ledger := f.ledgerUseCase()

	_, err := ledger.CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
		AccountID: "acc-1",
		Type:      domain.TransactionAllocation,
		Amount:    dec(1000),
	})
	require.NoError(t, err)

	_, err = ledger.RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
		AccountID:  "acc-1",
		Amount:     dec(350),
		CategoryID: "cat-1",
	})
	require.NoError(t, err)

	_, err = ledger.CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
		AccountID: "acc-1",
		Type:      domain.TransactionReplenishment,
		Amount:    dec(500),
	})
	require.NoError(t, err)

	// A pending expense must not show up in either number.
	account := f.accounts.Accounts["acc-1"]
	account.ApprovalThreshold = dec(100)
	_, err = ledger.RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
		AccountID:  "acc-1",
		Amount:     dec(400),
		CategoryID: "cat-1",
	})
	require.NoError(t, err)

	stored := f.accounts.Accounts["acc-1"].CurrentBalance
	require.True(t, stored.Equal(dec(1150)))
	require.True(t, domain.ReplayBalance(f.txns.All()).Equal(stored))
}
