package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the resolution state of a reconciliation.
type ReconciliationStatus string

const (
	ReconciliationPending   ReconciliationStatus = "pending"
	ReconciliationCompleted ReconciliationStatus = "completed"
)

// Reconciliation is a point-in-time comparison of the ledger-derived balance
// against physically counted cash. A non-zero variance spawns exactly one
// adjustment transaction and keeps the reconciliation pending until that
// adjustment is resolved.
type Reconciliation struct {
	ID                 string
	AccountID          string
	ReconciliationDate time.Time
	PeriodStart        time.Time
	PeriodEnd          time.Time
	OpeningBalance     decimal.Decimal
	ExpectedBalance    decimal.Decimal
	ActualBalance      decimal.Decimal
	Variance           decimal.Decimal
	TotalReceipts      decimal.Decimal
	TotalPayments      decimal.Decimal
	TransactionCount   int
	Status             ReconciliationStatus
	VarianceReason     string
	ReconciledBy       string
	ApprovedBy         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Balanced reports whether counted cash matched the ledger.
func (r *Reconciliation) Balanced() bool {
	return r.Variance.IsZero()
}

// Shortage reports whether counted cash came up short. Shortages require an
// approved adjustment; surpluses may auto-apply.
func (r *Reconciliation) Shortage() bool {
	return r.Variance.IsNegative()
}
