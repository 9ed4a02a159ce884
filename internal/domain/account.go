package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of a petty-cash account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// Account is a bounded cash-fund pool assigned to a user or cashier.
// CurrentBalance is a projection over approved transactions; it is mutated
// only inside the same store transaction that marks a ledger transaction
// approved.
type Account struct {
	ID                string
	OwnerID           string
	AssigneeUserID    *string
	AssigneeCashierID *string
	Name              string
	Code              string
	OpeningBalance    decimal.Decimal
	CurrentBalance    decimal.Decimal
	DailyLimit        *decimal.Decimal
	TransactionLimit  *decimal.Decimal
	ApprovalThreshold decimal.Decimal
	MinimumBalance    decimal.Decimal
	Status            AccountStatus
	IsActive          bool
	Version           int64
	CreatedBy         string
	ClosedBy          *string
	ClosedAt          *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Open reports whether the account still accepts ledger mutations.
// Suspended accounts stay open for approvals and replenishment, closed
// accounts are frozen entirely.
func (a *Account) Open() bool {
	return a.Status != AccountStatusClosed
}

// CanSpend reports whether new expenses may be recorded against the account.
func (a *Account) CanSpend() bool {
	return a.IsActive && a.Status == AccountStatusActive
}

// ValidateExpense checks an expense amount against the account state and its
// limits. todayApproved is the sum of already-approved expenses for the
// current day, computed under the same row lock as the subsequent write.
func (a *Account) ValidateExpense(amount, todayApproved decimal.Decimal) error {
	if !a.CanSpend() {
		return ErrAccountInactive
	}
	if amount.GreaterThan(a.CurrentBalance) {
		return ErrInsufficientBalance
	}
	if a.TransactionLimit != nil && amount.GreaterThan(*a.TransactionLimit) {
		return ErrTransactionLimitExceeded
	}
	if a.DailyLimit != nil && todayApproved.Add(amount).GreaterThan(*a.DailyLimit) {
		return ErrDailyLimitExceeded
	}
	return nil
}

// NeedsApproval reports whether an amount crosses the approval threshold.
// A zero threshold disables the approval gate.
func (a *Account) NeedsApproval(amount decimal.Decimal) bool {
	return a.ApprovalThreshold.IsPositive() && amount.GreaterThan(a.ApprovalThreshold)
}

// BelowMinimum reports whether the balance has fallen under the configured
// floor. A zero floor disables the low-balance alert.
func (a *Account) BelowMinimum() bool {
	return a.MinimumBalance.IsPositive() && a.CurrentBalance.LessThan(a.MinimumBalance)
}
