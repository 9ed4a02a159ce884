package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

func TestGetAccountSummary(t *testing.T) {
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
		Amount:     dec(250),
		CategoryID: "cat-1",
	})
	require.NoError(t, err)

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	summary, err := f.reportingUseCase().GetAccountSummary(ctx, "acc-1", from, to)
	require.NoError(t, err)
	require.Equal(t, "acc-1", summary.AccountID)
	require.True(t, summary.CurrentBalance.Equal(dec(750)))
	require.Len(t, summary.TypeTotals, 2)
	require.Equal(t, int64(0), summary.PendingApprovals)

	totals := make(map[domain.TransactionType]usecase.TypeTotal)
	for _, tt := range summary.TypeTotals {
		totals[tt.Type] = tt
	}
	require.True(t, totals[domain.TransactionAllocation].Total.Equal(dec(1000)))
	require.True(t, totals[domain.TransactionExpense].Total.Equal(dec(250)))

	// Second read comes from cache and survives later writes.
	_, err = ledger.RecordExpense(ctx, cashier, usecase.RecordExpenseInput{
		AccountID:  "acc-1",
		Amount:     dec(100),
		CategoryID: "cat-1",
	})
	require.NoError(t, err)

	cached, err := f.reportingUseCase().GetAccountSummary(ctx, "acc-1", from, to)
	require.NoError(t, err)
	require.True(t, cached.CurrentBalance.Equal(dec(750)))
	require.Equal(t, summary.GeneratedAt.Unix(), cached.GeneratedAt.Unix())
}

func TestGetAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("low balance and never reconciled", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 40)
		account.MinimumBalance = dec(100)

		alerts, err := f.reportingUseCase().GetAlerts(ctx, manager)
		require.NoError(t, err)
		require.Len(t, alerts, 2)

		types := map[string]bool{}
		for _, a := range alerts {
			types[a.Type] = true
			require.Equal(t, "acc-1", a.AccountID)
		}
		require.True(t, types[usecase.AlertLowBalance])
		require.True(t, types[usecase.AlertNoReconciliation])
	})

	t.Run("reconciled healthy account is quiet", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 500)
		account.MinimumBalance = dec(100)

		_, err := f.reconciliationUseCase().CreateReconciliation(ctx, manager, reconInput(500, ""))
		require.NoError(t, err)

		alerts, err := f.reportingUseCase().GetAlerts(ctx, manager)
		require.NoError(t, err)
		require.Empty(t, alerts)
	})

	t.Run("non-admin only sees own accounts", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 0)
		account.MinimumBalance = dec(100)
		foreign := f.seedAccount("acc-2", 0)
		foreign.OwnerID = "manager-2"
		foreign.MinimumBalance = dec(100)

		alerts, err := f.reportingUseCase().GetAlerts(ctx, manager)
		require.NoError(t, err)
		for _, a := range alerts {
			require.Equal(t, "acc-1", a.AccountID)
		}

		alerts, err = f.reportingUseCase().GetAlerts(ctx, admin)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, a := range alerts {
			seen[a.AccountID] = true
		}
		require.True(t, seen["acc-1"])
		require.True(t, seen["acc-2"])
	})
}

func TestCheckLedgerConsistency(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy ledger", func(t *testing.T) {
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
			Amount:     dec(400),
			CategoryID: "cat-1",
		})
		require.NoError(t, err)

		result, err := f.reportingUseCase().CheckLedgerConsistency(ctx, "acc-1")
		require.NoError(t, err)
		require.True(t, result.Consistent)
		require.True(t, result.StoredBalance.Equal(dec(600)))
		require.True(t, result.ReplayedBalance.Equal(dec(600)))
		require.True(t, result.Difference.IsZero())
	})

	t.Run("drift is reported, not hidden", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount("acc-1", 0)
		ledger := f.ledgerUseCase()

		_, err := ledger.CreateTransaction(ctx, manager, usecase.CreateTransactionInput{
			AccountID: "acc-1",
			Type:      domain.TransactionAllocation,
			Amount:    dec(1000),
		})
		require.NoError(t, err)

		// Simulated corruption of the stored projection.
		account.CurrentBalance = dec(1100)

		result, err := f.reportingUseCase().CheckLedgerConsistency(ctx, "acc-1")
		require.NoError(t, err)
		require.False(t, result.Consistent)
		require.True(t, result.Difference.Equal(dec(100)))
	})
}
