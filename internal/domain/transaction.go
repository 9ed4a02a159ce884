package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

const (
	TransactionAllocation     TransactionType = "allocation"
	TransactionExpense        TransactionType = "expense"
	TransactionReplenishment  TransactionType = "replenishment"
	TransactionAdjustment     TransactionType = "adjustment"
	TransactionReconciliation TransactionType = "reconciliation"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionAllocation, TransactionExpense, TransactionReplenishment,
		TransactionAdjustment, TransactionReconciliation:
		return true
	}
	return false
}

// ApprovalStatus is the sign-off state of a transaction.
type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Transaction is a single typed, timestamped money movement against an
// account. BalanceBefore/BalanceAfter snapshot the account balance at
// creation time; the effect on the live balance is applied exactly once,
// when ApprovalStatus first becomes approved.
type Transaction struct {
	ID               string
	AccountID        string
	Type             TransactionType
	OccurredAt       time.Time
	Amount           decimal.Decimal
	BalanceBefore    decimal.Decimal
	BalanceAfter     decimal.Decimal
	CategoryID       *string
	SubcategoryID    *string
	PaymentMethod    string
	TaxRate          decimal.Decimal
	TaxAmount        decimal.Decimal
	RequiresApproval bool
	ApprovalStatus   ApprovalStatus
	ApprovedBy       *string
	ApprovedAt       *time.Time
	RejectionReason  string
	ReconciliationID *string
	ExpenseID        *string
	IsReconciled     bool
	RecordedBy       string
	Description      string
	Notes            string
	ReferenceNumber  string
	AccountVersion   int64
	CreatedAt        time.Time
}

// ComputeBalanceAfter applies the per-type balance rule. Adjustments carry a
// caller-supplied absolute target balance; reconciliation entries are
// informational and never move the balance.
func ComputeBalanceAfter(typ TransactionType, before, amount decimal.Decimal, target *decimal.Decimal) (decimal.Decimal, error) {
	switch typ {
	case TransactionAllocation, TransactionReplenishment:
		return before.Add(amount), nil
	case TransactionExpense:
		return before.Sub(amount), nil
	case TransactionAdjustment:
		if target == nil {
			return decimal.Zero, ErrAdjustmentTargetRequired
		}
		return *target, nil
	case TransactionReconciliation:
		return before, nil
	}
	return decimal.Zero, ErrInvalidTransactionType
}

// SignedDelta is the effect this transaction has on the account balance once
// approved. Derived from the creation-time snapshot, so a signed adjustment
// keeps its direction regardless of when the approval lands.
func (t *Transaction) SignedDelta() decimal.Decimal {
	if t.Type == TransactionReconciliation {
		return decimal.Zero
	}
	return t.BalanceAfter.Sub(t.BalanceBefore)
}

// Pending reports whether the transaction is parked awaiting sign-off.
func (t *Transaction) Pending() bool {
	return t.RequiresApproval && t.ApprovalStatus == ApprovalPending
}

// ReplayBalance recomputes an account balance by replaying approved
// transactions from zero. The opening allocation emitted at account creation
// is part of the ledger, so the replayed total must equal the stored
// current_balance at all times.
func ReplayBalance(transactions []*Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range transactions {
		if tx.ApprovalStatus != ApprovalApproved {
			continue
		}
		balance = balance.Add(tx.SignedDelta())
	}
	return balance
}
