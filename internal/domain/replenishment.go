package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishmentStatus is the state of a replenishment request.
// The machine is pending -> approved -> completed, with pending -> rejected
// as the only terminal branch. Approval never moves money; disbursement is
// the sole step that creates the ledger transaction.
type ReplenishmentStatus string

const (
	ReplenishmentPending   ReplenishmentStatus = "pending"
	ReplenishmentApproved  ReplenishmentStatus = "approved"
	ReplenishmentCompleted ReplenishmentStatus = "completed"
	ReplenishmentRejected  ReplenishmentStatus = "rejected"
)

// Replenishment is a request-and-approval flow that adds funds back into a
// depleted account.
type Replenishment struct {
	ID                 string
	AccountID          string
	RequestedAmount    decimal.Decimal
	BalanceAtRequest   decimal.Decimal
	Justification      string
	Status             ReplenishmentStatus
	RequestedBy        string
	ApprovedAmount     *decimal.Decimal
	ApprovedBy         *string
	ApprovedAt         *time.Time
	DisbursedBy        *string
	DisbursedAt        *time.Time
	DisbursementMethod string
	ReferenceNumber    string
	TransactionID      *string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanApprove reports whether the request may transition to approved.
func (r *Replenishment) CanApprove() bool {
	return r.Status == ReplenishmentPending
}

// CanReject reports whether the request may transition to rejected.
func (r *Replenishment) CanReject() bool {
	return r.Status == ReplenishmentPending
}

// CanDisburse reports whether the request may be disbursed.
func (r *Replenishment) CanDisburse() bool {
	return r.Status == ReplenishmentApproved
}

// DisbursementAmount is the amount the replenishment transaction will carry:
// the approved amount when set, otherwise the requested amount.
func (r *Replenishment) DisbursementAmount() decimal.Decimal {
	if r.ApprovedAmount != nil {
		return *r.ApprovedAmount
	}
	return r.RequestedAmount
}
