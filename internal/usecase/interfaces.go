package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
)

// AccountFilter narrows account listings.
type AccountFilter struct {
	OwnerID           string
	Status            *domain.AccountStatus
	ActiveOnly        bool
	AssigneeUserID    *string
	AssigneeCashierID *string
	// AssigneeID matches either assignee column.
	AssigneeID *string
	Limit             int
	Offset            int
}

// TransactionFilter narrows ledger listings. Results are ordered by
// occurrence time descending.
type TransactionFilter struct {
	AccountID      string
	Type           *domain.TransactionType
	ApprovalStatus *domain.ApprovalStatus
	DateFrom       *time.Time
	DateTo         *time.Time
	Limit          int
	Offset         int
}

// TypeTotal is an aggregated amount for one transaction type.
type TypeTotal struct {
	Type  domain.TransactionType
	Count int64
	Total decimal.Decimal
}

// CategoryTotal is an aggregated expense amount for one category.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Count        int64
	Total        decimal.Decimal
}

// DailyTotal is the approved expense total for one calendar day.
type DailyTotal struct {
	Day   time.Time
	Count int64
	Total decimal.Decimal
}

// AccountRepository defines data access for petty-cash accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	// UpdateBalance writes the new balance projection and bumps the account
	// version inside the caller's transaction.
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	// UpdateApproval persists the approval resolution fields of a transaction.
	UpdateApproval(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
	// ListPending returns pending transactions on accounts owned by ownerID;
	// an empty ownerID removes the scope.
	ListPending(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	// SumApprovedExpensesOn sums approved expense amounts for one calendar
	// day under the caller's row lock.
	SumApprovedExpensesOn(ctx context.Context, tx Transaction, accountID string, day time.Time) (decimal.Decimal, error)
	ListForPeriod(ctx context.Context, tx Transaction, accountID string, from, to time.Time) ([]*domain.Transaction, error)
	MarkReconciled(ctx context.Context, tx Transaction, accountID string, from, to time.Time, reconciliationID string) (int64, error)
	SummarizeByType(ctx context.Context, accountID string, from, to time.Time) ([]TypeTotal, error)
	CountPending(ctx context.Context, accountID string) (int64, error)
	CategoryBreakdown(ctx context.Context, accountID string, from, to time.Time) ([]CategoryTotal, error)
	DailyTotals(ctx context.Context, accountID string, from, to time.Time) ([]DailyTotal, error)
}

// ReconciliationRepository defines data access for reconciliations.
type ReconciliationRepository interface {
	Create(ctx context.Context, tx Transaction, rec *domain.Reconciliation) error
	GetByID(ctx context.Context, id string) (*domain.Reconciliation, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.ReconciliationStatus, approvedBy *string, updatedAt time.Time) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Reconciliation, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// ReplenishmentRepository defines data access for replenishment requests.
type ReplenishmentRepository interface {
	Create(ctx context.Context, tx Transaction, repl *domain.Replenishment) error
	GetByID(ctx context.Context, id string) (*domain.Replenishment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Replenishment, error)
	Update(ctx context.Context, tx Transaction, repl *domain.Replenishment) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Replenishment, error)
	ListByStatus(ctx context.Context, status domain.ReplenishmentStatus, limit, offset int) ([]*domain.Replenishment, error)
}

// ExpenseRepository defines data access for the collaborator expense store.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	GetCategory(ctx context.Context, id string) (*domain.ExpenseCategory, error)
	GetSubcategory(ctx context.Context, id string) (*domain.ExpenseSubcategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*domain.ExpenseCategory, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for reporting reads.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
