package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the collaborator expense record created alongside an expense
// transaction. The ledger owns the balance effect; this record owns the
// categorisation and receipt details.
type Expense struct {
	ID            string
	AccountID     string
	CategoryID    string
	SubcategoryID *string
	Amount        decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	PaymentMethod string
	Description   string
	ReceiptNumber string
	RecordedBy    string
	ExpenseDate   time.Time
	CreatedAt     time.Time
}

// ExpenseCategory classifies expenses for reporting.
type ExpenseCategory struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// ExpenseSubcategory refines a category.
type ExpenseSubcategory struct {
	ID         string
	CategoryID string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
}
