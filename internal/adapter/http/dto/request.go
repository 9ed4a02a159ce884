package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// Monetary amounts travel as strings on the wire so no client-side float
// representation ever reaches the ledger.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is not a valid amount", domain.ErrValidation, field)
	}
	return d, nil
}

func parseOptionalAmount(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseAmount(field, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateAccountRequest is the payload for opening a petty-cash account.
type CreateAccountRequest struct {
	Name              string  `json:"name"`
	Code              string  `json:"code,omitempty"`
	AssigneeUserID    *string `json:"assignee_user_id,omitempty"`
	AssigneeCashierID *string `json:"assignee_cashier_id,omitempty"`
	OpeningBalance    string  `json:"opening_balance"`
	DailyLimit        *string `json:"daily_limit,omitempty"`
	TransactionLimit  *string `json:"transaction_limit,omitempty"`
	ApprovalThreshold string  `json:"approval_threshold,omitempty"`
	MinimumBalance    string  `json:"minimum_balance,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *CreateAccountRequest) ToUseCaseInput() (usecase.CreateAccountInput, error) {
	var in usecase.CreateAccountInput

	opening, err := parseAmount("opening_balance", r.OpeningBalance)
	if err != nil {
		return in, err
	}
	dailyLimit, err := parseOptionalAmount("daily_limit", r.DailyLimit)
	if err != nil {
		return in, err
	}
	txnLimit, err := parseOptionalAmount("transaction_limit", r.TransactionLimit)
	if err != nil {
		return in, err
	}
	threshold := decimal.Zero
	if r.ApprovalThreshold != "" {
		if threshold, err = parseAmount("approval_threshold", r.ApprovalThreshold); err != nil {
			return in, err
		}
	}
	minimum := decimal.Zero
	if r.MinimumBalance != "" {
		if minimum, err = parseAmount("minimum_balance", r.MinimumBalance); err != nil {
			return in, err
		}
	}

	return usecase.CreateAccountInput{
		Name:              r.Name,
		Code:              r.Code,
		AssigneeUserID:    r.AssigneeUserID,
		AssigneeCashierID: r.AssigneeCashierID,
		OpeningBalance:    opening,
		DailyLimit:        dailyLimit,
		TransactionLimit:  txnLimit,
		ApprovalThreshold: threshold,
		MinimumBalance:    minimum,
		Notes:             r.Notes,
	}, nil
}

// UpdateAccountRequest is a partial account update. Absent fields are left
// unchanged.
type UpdateAccountRequest struct {
	Name              *string `json:"name,omitempty"`
	Code              *string `json:"code,omitempty"`
	DailyLimit        *string `json:"daily_limit,omitempty"`
	TransactionLimit  *string `json:"transaction_limit,omitempty"`
	ApprovalThreshold *string `json:"approval_threshold,omitempty"`
	MinimumBalance    *string `json:"minimum_balance,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() (usecase.UpdateAccountInput, error) {
	var in usecase.UpdateAccountInput

	dailyLimit, err := parseOptionalAmount("daily_limit", r.DailyLimit)
	if err != nil {
		return in, err
	}
	txnLimit, err := parseOptionalAmount("transaction_limit", r.TransactionLimit)
	if err != nil {
		return in, err
	}
	threshold, err := parseOptionalAmount("approval_threshold", r.ApprovalThreshold)
	if err != nil {
		return in, err
	}
	minimum, err := parseOptionalAmount("minimum_balance", r.MinimumBalance)
	if err != nil {
		return in, err
	}

	return usecase.UpdateAccountInput{
		Name:              r.Name,
		Code:              r.Code,
		DailyLimit:        dailyLimit,
		TransactionLimit:  txnLimit,
		ApprovalThreshold: threshold,
		MinimumBalance:    minimum,
		Notes:             r.Notes,
	}, nil
}

// StatusChangeRequest carries the reason for suspending or closing an
// account.
type StatusChangeRequest struct {
	Reason string `json:"reason"`
}

// CreateTransactionRequest is the payload for a raw ledger transaction.
type CreateTransactionRequest struct {
	AccountID        string     `json:"account_id"`
	Type             string     `json:"type"`
	Amount           string     `json:"amount"`
	OccurredAt       *time.Time `json:"occurred_at,omitempty"`
	CategoryID       *string    `json:"category_id,omitempty"`
	SubcategoryID    *string    `json:"subcategory_id,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	TaxRate          string     `json:"tax_rate,omitempty"`
	RequiresApproval bool       `json:"requires_approval,omitempty"`
	TargetBalance    *string    `json:"target_balance,omitempty"`
	Description      string     `json:"description,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	ReferenceNumber  string     `json:"reference_number,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() (usecase.CreateTransactionInput, error) {
	var in usecase.CreateTransactionInput

	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return in, err
	}
	taxRate := decimal.Zero
	if r.TaxRate != "" {
		if taxRate, err = parseAmount("tax_rate", r.TaxRate); err != nil {
			return in, err
		}
	}
	target, err := parseOptionalAmount("target_balance", r.TargetBalance)
	if err != nil {
		return in, err
	}

	return usecase.CreateTransactionInput{
		AccountID:        r.AccountID,
		Type:             domain.TransactionType(r.Type),
		Amount:           amount,
		OccurredAt:       r.OccurredAt,
		CategoryID:       r.CategoryID,
		SubcategoryID:    r.SubcategoryID,
		PaymentMethod:    r.PaymentMethod,
		TaxRate:          taxRate,
		RequiresApproval: r.RequiresApproval,
		TargetBalance:    target,
		Description:      r.Description,
		Notes:            r.Notes,
		ReferenceNumber:  r.ReferenceNumber,
	}, nil
}

// RecordExpenseRequest is the payload for recording an expense.
type RecordExpenseRequest struct {
	AccountID     string     `json:"account_id"`
	Amount        string     `json:"amount"`
	CategoryID    string     `json:"category_id"`
	SubcategoryID *string    `json:"subcategory_id,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	TaxRate       string     `json:"tax_rate,omitempty"`
	Description   string     `json:"description,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ReceiptNumber string     `json:"receipt_number,omitempty"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *RecordExpenseRequest) ToUseCaseInput() (usecase.RecordExpenseInput, error) {
	var in usecase.RecordExpenseInput

	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return in, err
	}
	taxRate := decimal.Zero
	if r.TaxRate != "" {
		if taxRate, err = parseAmount("tax_rate", r.TaxRate); err != nil {
			return in, err
		}
	}

	return usecase.RecordExpenseInput{
		AccountID:     r.AccountID,
		Amount:        amount,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		PaymentMethod: r.PaymentMethod,
		TaxRate:       taxRate,
		Description:   r.Description,
		Notes:         r.Notes,
		ReceiptNumber: r.ReceiptNumber,
		OccurredAt:    r.OccurredAt,
	}, nil
}

// ApproveTransactionRequest carries optional approver notes.
type ApproveTransactionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// RejectTransactionRequest carries the mandatory rejection reason.
type RejectTransactionRequest struct {
	Reason string `json:"reason"`
}

// CreateReconciliationRequest is the payload for a cash count.
type CreateReconciliationRequest struct {
	AccountID      string    `json:"account_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	ActualBalance  string    `json:"actual_balance"`
	VarianceReason string    `json:"variance_reason,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *CreateReconciliationRequest) ToUseCaseInput() (usecase.CreateReconciliationInput, error) {
	actual, err := parseAmount("actual_balance", r.ActualBalance)
	if err != nil {
		return usecase.CreateReconciliationInput{}, err
	}

	return usecase.CreateReconciliationInput{
		AccountID:      r.AccountID,
		PeriodStart:    r.PeriodStart,
		PeriodEnd:      r.PeriodEnd,
		ActualBalance:  actual,
		VarianceReason: r.VarianceReason,
	}, nil
}

// RequestReplenishmentRequest is the payload for requesting a top-up.
type RequestReplenishmentRequest struct {
	AccountID     string `json:"account_id"`
	Amount        string `json:"amount"`
	Justification string `json:"justification"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *RequestReplenishmentRequest) ToUseCaseInput() (usecase.RequestReplenishmentInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.RequestReplenishmentInput{}, err
	}

	return usecase.RequestReplenishmentInput{
		AccountID:     r.AccountID,
		Amount:        amount,
		Justification: r.Justification,
	}, nil
}

// ApproveReplenishmentRequest optionally trims the amount to disburse.
type ApproveReplenishmentRequest struct {
	ApprovedAmount *string `json:"approved_amount,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// DisburseReplenishmentRequest carries the hand-over details.
type DisburseReplenishmentRequest struct {
	DisbursementMethod string `json:"disbursement_method,omitempty"`
	ReferenceNumber    string `json:"reference_number,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// ToUseCaseInput converts the request to a use case input.
func (r *DisburseReplenishmentRequest) ToUseCaseInput() usecase.DisburseReplenishmentInput {
	return usecase.DisburseReplenishmentInput{
		DisbursementMethod: r.DisbursementMethod,
		ReferenceNumber:    r.ReferenceNumber,
		Notes:              r.Notes,
	}
}

// RejectReplenishmentRequest carries the mandatory rejection reason.
type RejectReplenishmentRequest struct {
	Reason string `json:"reason"`
}
