package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func decimalPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// AccountResponse is the wire form of an account.
type AccountResponse struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"owner_id"`
	AssigneeUserID    *string    `json:"assignee_user_id,omitempty"`
	AssigneeCashierID *string    `json:"assignee_cashier_id,omitempty"`
	Name              string     `json:"name"`
	Code              string     `json:"code,omitempty"`
	OpeningBalance    string     `json:"opening_balance"`
	CurrentBalance    string     `json:"current_balance"`
	DailyLimit        *string    `json:"daily_limit,omitempty"`
	TransactionLimit  *string    `json:"transaction_limit,omitempty"`
	ApprovalThreshold string     `json:"approval_threshold"`
	MinimumBalance    string     `json:"minimum_balance"`
	Status            string     `json:"status"`
	IsActive          bool       `json:"is_active"`
	Version           int64      `json:"version"`
	ClosedBy          *string    `json:"closed_by,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// AccountFromDomain converts a domain account to its wire form.
func AccountFromDomain(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:                a.ID,
		OwnerID:           a.OwnerID,
		AssigneeUserID:    a.AssigneeUserID,
		AssigneeCashierID: a.AssigneeCashierID,
		Name:              a.Name,
		Code:              a.Code,
		OpeningBalance:    a.OpeningBalance.String(),
		CurrentBalance:    a.CurrentBalance.String(),
		DailyLimit:        decimalPtr(a.DailyLimit),
		TransactionLimit:  decimalPtr(a.TransactionLimit),
		ApprovalThreshold: a.ApprovalThreshold.String(),
		MinimumBalance:    a.MinimumBalance.String(),
		Status:            string(a.Status),
		IsActive:          a.IsActive,
		Version:           a.Version,
		ClosedBy:          a.ClosedBy,
		ClosedAt:          a.ClosedAt,
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// AccountListResponse wraps an account listing.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Count    int               `json:"count"`
}

// AccountListFromDomain converts a domain account slice to its wire form.
func AccountListFromDomain(accounts []*domain.Account) AccountListResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountFromDomain(a))
	}
	return AccountListResponse{Accounts: out, Count: len(out)}
}

// TransactionResponse is the wire form of a ledger transaction.
type TransactionResponse struct {
	ID               string     `json:"id"`
	AccountID        string     `json:"account_id"`
	Type             string     `json:"type"`
	OccurredAt       time.Time  `json:"occurred_at"`
	Amount           string     `json:"amount"`
	BalanceBefore    string     `json:"balance_before"`
	BalanceAfter     string     `json:"balance_after"`
	CategoryID       *string    `json:"category_id,omitempty"`
	SubcategoryID    *string    `json:"subcategory_id,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	TaxRate          string     `json:"tax_rate"`
	TaxAmount        string     `json:"tax_amount"`
	RequiresApproval bool       `json:"requires_approval"`
	ApprovalStatus   string     `json:"approval_status"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	ReconciliationID *string    `json:"reconciliation_id,omitempty"`
	ExpenseID        *string    `json:"expense_id,omitempty"`
	IsReconciled     bool       `json:"is_reconciled"`
	RecordedBy       string     `json:"recorded_by"`
	Description      string     `json:"description,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	ReferenceNumber  string     `json:"reference_number,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to its wire form.
func TransactionFromDomain(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID,
		AccountID:        t.AccountID,
		Type:             string(t.Type),
		OccurredAt:       t.OccurredAt,
		Amount:           t.Amount.String(),
		BalanceBefore:    t.BalanceBefore.String(),
		BalanceAfter:     t.BalanceAfter.String(),
		CategoryID:       t.CategoryID,
		SubcategoryID:    t.SubcategoryID,
		PaymentMethod:    t.PaymentMethod,
		TaxRate:          t.TaxRate.String(),
		TaxAmount:        t.TaxAmount.String(),
		RequiresApproval: t.RequiresApproval,
		ApprovalStatus:   string(t.ApprovalStatus),
		ApprovedBy:       t.ApprovedBy,
		ApprovedAt:       t.ApprovedAt,
		RejectionReason:  t.RejectionReason,
		ReconciliationID: t.ReconciliationID,
		ExpenseID:        t.ExpenseID,
		IsReconciled:     t.IsReconciled,
		RecordedBy:       t.RecordedBy,
		Description:      t.Description,
		Notes:            t.Notes,
		ReferenceNumber:  t.ReferenceNumber,
		CreatedAt:        t.CreatedAt,
	}
}

// TransactionListResponse wraps a transaction listing.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// TransactionListFromDomain converts a domain transaction slice to its wire
// form.
func TransactionListFromDomain(transactions []*domain.Transaction) TransactionListResponse {
	out := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, TransactionFromDomain(t))
	}
	return TransactionListResponse{Transactions: out, Count: len(out)}
}

// ExpenseResponse is the wire form of the collaborator expense record.
type ExpenseResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	CategoryID    string    `json:"category_id"`
	SubcategoryID *string   `json:"subcategory_id,omitempty"`
	Amount        string    `json:"amount"`
	TaxRate       string    `json:"tax_rate"`
	TaxAmount     string    `json:"tax_amount"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Description   string    `json:"description,omitempty"`
	ReceiptNumber string    `json:"receipt_number,omitempty"`
	RecordedBy    string    `json:"recorded_by"`
	ExpenseDate   time.Time `json:"expense_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to its wire form.
func ExpenseFromDomain(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		CategoryID:    e.CategoryID,
		SubcategoryID: e.SubcategoryID,
		Amount:        e.Amount.String(),
		TaxRate:       e.TaxRate.String(),
		TaxAmount:     e.TaxAmount.String(),
		PaymentMethod: e.PaymentMethod,
		Description:   e.Description,
		ReceiptNumber: e.ReceiptNumber,
		RecordedBy:    e.RecordedBy,
		ExpenseDate:   e.ExpenseDate,
		CreatedAt:     e.CreatedAt,
	}
}

// RecordExpenseResponse is the composed outcome of recording an expense.
type RecordExpenseResponse struct {
	Expense          ExpenseResponse     `json:"expense"`
	Transaction      TransactionResponse `json:"transaction"`
	RequiresApproval bool                `json:"requires_approval"`
}

// RecordExpenseFromResult converts the use case result to its wire form.
func RecordExpenseFromResult(r *usecase.RecordExpenseResult) RecordExpenseResponse {
	return RecordExpenseResponse{
		Expense:          ExpenseFromDomain(r.Expense),
		Transaction:      TransactionFromDomain(r.Transaction),
		RequiresApproval: r.RequiresApproval,
	}
}

// CategoryResponse is the wire form of an expense category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// CategoryListFromDomain converts a domain category slice to its wire form.
func CategoryListFromDomain(categories []*domain.ExpenseCategory) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			IsActive:    c.IsActive,
		})
	}
	return out
}

// ReconciliationResponse is the wire form of a reconciliation.
type ReconciliationResponse struct {
	ID                 string    `json:"id"`
	AccountID          string    `json:"account_id"`
	ReconciliationDate time.Time `json:"reconciliation_date"`
	PeriodStart        time.Time `json:"period_start"`
	PeriodEnd          time.Time `json:"period_end"`
	OpeningBalance     string    `json:"opening_balance"`
	ExpectedBalance    string    `json:"expected_balance"`
	ActualBalance      string    `json:"actual_balance"`
	Variance           string    `json:"variance"`
	TotalReceipts      string    `json:"total_receipts"`
	TotalPayments      string    `json:"total_payments"`
	TransactionCount   int       `json:"transaction_count"`
	Status             string    `json:"status"`
	VarianceReason     string    `json:"variance_reason,omitempty"`
	ReconciledBy       string    `json:"reconciled_by"`
	ApprovedBy         *string   `json:"approved_by,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ReconciliationFromDomain converts a domain reconciliation to its wire form.
func ReconciliationFromDomain(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ID:                 r.ID,
		AccountID:          r.AccountID,
		ReconciliationDate: r.ReconciliationDate,
		PeriodStart:        r.PeriodStart,
		PeriodEnd:          r.PeriodEnd,
		OpeningBalance:     r.OpeningBalance.String(),
		ExpectedBalance:    r.ExpectedBalance.String(),
		ActualBalance:      r.ActualBalance.String(),
		Variance:           r.Variance.String(),
		TotalReceipts:      r.TotalReceipts.String(),
		TotalPayments:      r.TotalPayments.String(),
		TransactionCount:   r.TransactionCount,
		Status:             string(r.Status),
		VarianceReason:     r.VarianceReason,
		ReconciledBy:       r.ReconciledBy,
		ApprovedBy:         r.ApprovedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// CreateReconciliationResponse carries the reconciliation and, for a
// non-zero variance, the adjustment it spawned.
type CreateReconciliationResponse struct {
	Reconciliation ReconciliationResponse `json:"reconciliation"`
	Adjustment     *TransactionResponse   `json:"adjustment,omitempty"`
}

// ReconciliationFromResult converts the use case result to its wire form.
func ReconciliationFromResult(r *usecase.CreateReconciliationResult) CreateReconciliationResponse {
	resp := CreateReconciliationResponse{
		Reconciliation: ReconciliationFromDomain(r.Reconciliation),
	}
	if r.Adjustment != nil {
		adj := TransactionFromDomain(r.Adjustment)
		resp.Adjustment = &adj
	}
	return resp
}

// ReconciliationListResponse wraps a reconciliation listing.
type ReconciliationListResponse struct {
	Reconciliations []ReconciliationResponse `json:"reconciliations"`
	Count           int                      `json:"count"`
}

// ReconciliationListFromDomain converts a domain reconciliation slice to its
// wire form.
func ReconciliationListFromDomain(recs []*domain.Reconciliation) ReconciliationListResponse {
	out := make([]ReconciliationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, ReconciliationFromDomain(r))
	}
	return ReconciliationListResponse{Reconciliations: out, Count: len(out)}
}

// ReplenishmentResponse is the wire form of a replenishment request.
type ReplenishmentResponse struct {
	ID                 string     `json:"id"`
	AccountID          string     `json:"account_id"`
	RequestedAmount    string     `json:"requested_amount"`
	BalanceAtRequest   string     `json:"balance_at_request"`
	Justification      string     `json:"justification"`
	Status             string     `json:"status"`
	RequestedBy        string     `json:"requested_by"`
	ApprovedAmount     *string    `json:"approved_amount,omitempty"`
	ApprovedBy         *string    `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	DisbursedBy        *string    `json:"disbursed_by,omitempty"`
	DisbursedAt        *time.Time `json:"disbursed_at,omitempty"`
	DisbursementMethod string     `json:"disbursement_method,omitempty"`
	ReferenceNumber    string     `json:"reference_number,omitempty"`
	TransactionID      *string    `json:"transaction_id,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ReplenishmentFromDomain converts a domain replenishment to its wire form.
func ReplenishmentFromDomain(r *domain.Replenishment) ReplenishmentResponse {
	return ReplenishmentResponse{
		ID:                 r.ID,
		AccountID:          r.AccountID,
		RequestedAmount:    r.RequestedAmount.String(),
		BalanceAtRequest:   r.BalanceAtRequest.String(),
		Justification:      r.Justification,
		Status:             string(r.Status),
		RequestedBy:        r.RequestedBy,
		ApprovedAmount:     decimalPtr(r.ApprovedAmount),
		ApprovedBy:         r.ApprovedBy,
		ApprovedAt:         r.ApprovedAt,
		DisbursedBy:        r.DisbursedBy,
		DisbursedAt:        r.DisbursedAt,
		DisbursementMethod: r.DisbursementMethod,
		ReferenceNumber:    r.ReferenceNumber,
		TransactionID:      r.TransactionID,
		Notes:              r.Notes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ReplenishmentListResponse wraps a replenishment listing.
type ReplenishmentListResponse struct {
	Replenishments []ReplenishmentResponse `json:"replenishments"`
	Count          int                     `json:"count"`
}

// ReplenishmentListFromDomain converts a domain replenishment slice to its
// wire form.
func ReplenishmentListFromDomain(repls []*domain.Replenishment) ReplenishmentListResponse {
	out := make([]ReplenishmentResponse, 0, len(repls))
	for _, r := range repls {
		out = append(out, ReplenishmentFromDomain(r))
	}
	return ReplenishmentListResponse{Replenishments: out, Count: len(out)}
}

// DisburseReplenishmentResponse carries the completed request and the ledger
// transaction it produced.
type DisburseReplenishmentResponse struct {
	Replenishment ReplenishmentResponse `json:"replenishment"`
	Transaction   TransactionResponse   `json:"transaction"`
}

// DisburseFromResult converts the use case result to its wire form.
func DisburseFromResult(r *usecase.DisburseReplenishmentResult) DisburseReplenishmentResponse {
	return DisburseReplenishmentResponse{
		Replenishment: ReplenishmentFromDomain(r.Replenishment),
		Transaction:   TransactionFromDomain(r.Transaction),
	}
}
