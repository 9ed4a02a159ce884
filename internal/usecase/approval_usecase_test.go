package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// pendingExpense records an above-threshold expense so it parks as pending.
func pendingExpense(t *testing.T, f *fixture, amount int64) *domain.Transaction {
	t.Helper()
	account := f.accounts.Accounts["acc-1"]
	if account.ApprovalThreshold.IsZero() {
		account.ApprovalThreshold = dec(1)
	}
	result, err := f.ledgerUseCase().RecordExpense(context.Background(), cashier, usecase.RecordExpenseInput{
		AccountID:  "acc-1",
		Amount:     dec(amount),
		CategoryID: "cat-1",
	})
	require.NoError(t, err)
	require.True(t, result.RequiresApproval)
	return result.Transaction
}

func TestApproveTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("approval applies the delta exactly once", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		txn := pendingExpense(t, f, 400)
		uc := f.approvalUseCase()

		approved, err := uc.ApproveTransaction(ctx, manager, txn.ID, "")
		require.NoError(t, err)
		require.Equal(t, domain.ApprovalApproved, approved.ApprovalStatus)
		require.Equal(t, "manager-1", *approved.ApprovedBy)
		require.NotNil(t, approved.ApprovedAt)
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(600)))

		// Second approval is a no-op, never a second application.
		_, err = uc.ApproveTransaction(ctx, manager, txn.ID, "")
		require.NoError(t, err)
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(600)))
	})

	t.Run("delta lands on the live balance, not the creation snapshot", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 0)
		_, err := f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionAllocation,
			Amount:    dec(1000),
		})
		require.NoError(t, err)

		txn := pendingExpense(t, f, 400)

		// Another movement between creation and approval.
		_, err = f.ledgerUseCase().CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionReplenishment,
			Amount:    dec(500),
		})
		require.NoError(t, err)
		require.True(t, account.CurrentBalance.Equal(dec(1500)))

		_, err = f.approvalUseCase().ApproveTransaction(ctx, manager, txn.ID, "")
		require.NoError(t, err)
		require.True(t, account.CurrentBalance.Equal(dec(1100)))
		require.True(t, domain.ReplayBalance(f.txns.All()).Equal(account.CurrentBalance))
	})

	t.Run("cashier cannot approve", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		txn := pendingExpense(t, f, 400)

		_, err := f.approvalUseCase().ApproveTransaction(ctx, cashier, txn.ID, "")
		require.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("approving a rejected transaction fails", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		txn := pendingExpense(t, f, 400)
		uc := f.approvalUseCase()

		_, err := uc.RejectTransaction(ctx, manager, txn.ID, "duplicate receipt")
		require.NoError(t, err)

		_, err = uc.ApproveTransaction(ctx, manager, txn.ID, "")
		require.ErrorIs(t, err, domain.ErrTransactionResolved)
		require.ErrorIs(t, err, domain.ErrState)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newFixture()
		_, err := f.approvalUseCase().ApproveTransaction(ctx, manager, "missing", "")
		require.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})
}

func TestRejectTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection never moves the balance", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		txn := pendingExpense(t, f, 400)

		rejected, err := f.approvalUseCase().RejectTransaction(ctx, manager, txn.ID, "no receipt")
		require.NoError(t, err)
		require.Equal(t, domain.ApprovalRejected, rejected.ApprovalStatus)
		require.Equal(t, "no receipt", rejected.RejectionReason)
		require.True(t, f.accounts.Accounts["acc-1"].CurrentBalance.Equal(dec(1000)))
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		txn := pendingExpense(t, f, 400)

		_, err := f.approvalUseCase().RejectTransaction(ctx, manager, txn.ID, "")
		require.ErrorIs(t, err, domain.ErrRejectionReasonRequired)
	})

	t.Run("rejecting twice is a no-op", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		txn := pendingExpense(t, f, 400)
		uc := f.approvalUseCase()

		_, err := uc.RejectTransaction(ctx, manager, txn.ID, "no receipt")
		require.NoError(t, err)
		_, err = uc.RejectTransaction(ctx, manager, txn.ID, "still no receipt")
		require.NoError(t, err)
	})

	t.Run("rejecting an approved transaction fails", func(t *testing.T) {
		f := newFixture()
		f.seedAccount("acc-1", 1000)
		txn := pendingExpense(t, f, 400)
		uc := f.approvalUseCase()

		_, err := uc.ApproveTransaction(ctx, manager, txn.ID, "")
		require.NoError(t, err)

		_, err = uc.RejectTransaction(ctx, manager, txn.ID, "too late")
		require.ErrorIs(t, err, domain.ErrTransactionResolved)
	})
}

func TestGetPendingApprovals(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seedAccount("acc-1", 1000)
	pendingExpense(t, f, 400)
	pendingExpense(t, f, 300)
	uc := f.approvalUseCase()

	pending, err := uc.GetPendingApprovals(ctx, manager, 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	_, err = uc.GetPendingApprovals(ctx, cashier, 0, 0)
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}
