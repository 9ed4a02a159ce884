// Package mocks provides hand-rolled fakes for the usecase repository
// interfaces. Defaults behave like a small in-memory store; individual
// methods can be overridden through the *Func fields.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	mu       sync.Mutex
	Began    []*MockTransaction
	BeginErr error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Began = append(m.Began, tx)
	return tx, nil
}

// MockIDGenerator returns sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (g *MockIDGenerator) Generate() string {
	if g.GenerateFunc != nil {
		return g.GenerateFunc()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%06d", g.counter)
}

// NoopRetrier runs the operation once.
type NoopRetrier struct{}

func (NoopRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	Accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{Accounts: make(map[string]*domain.Account)}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.Accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, version, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.Accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.CurrentBalance = balance
	acc.Version = version
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.Accounts {
		if filter.OwnerID != "" && acc.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ActiveOnly && !acc.IsActive {
			continue
		}
		if filter.Status != nil && acc.Status != *filter.Status {
			continue
		}
		if filter.AssigneeUserID != nil {
			if acc.AssigneeUserID == nil || *acc.AssigneeUserID != *filter.AssigneeUserID {
				continue
			}
		}
		if filter.AssigneeCashierID != nil {
			if acc.AssigneeCashierID == nil || *acc.AssigneeCashierID != *filter.AssigneeCashierID {
				continue
			}
		}
		if filter.AssigneeID != nil {
			asUser := acc.AssigneeUserID != nil && *acc.AssigneeUserID == *filter.AssigneeID
			asCashier := acc.AssigneeCashierID != nil && *acc.AssigneeCashierID == *filter.AssigneeID
			if !asUser && !asCashier {
				continue
			}
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockTransactionRepository is an in-memory TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	Transactions map[string]*domain.Transaction
	order        []string

	CreateFunc                func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc      func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateApprovalFunc        func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	ListFunc                  func(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error)
	ListPendingFunc           func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	SumApprovedExpensesOnFunc func(ctx context.Context, tx usecase.Transaction, accountID string, day time.Time) (decimal.Decimal, error)
	ListForPeriodFunc         func(ctx context.Context, tx usecase.Transaction, accountID string, from, to time.Time) ([]*domain.Transaction, error)
	MarkReconciledFunc        func(ctx context.Context, tx usecase.Transaction, accountID string, from, to time.Time, reconciliationID string) (int64, error)
	SummarizeByTypeFunc       func(ctx context.Context, accountID string, from, to time.Time) ([]usecase.TypeTotal, error)
	CountPendingFunc          func(ctx context.Context, accountID string) (int64, error)
	CategoryBreakdownFunc     func(ctx context.Context, accountID string, from, to time.Time) ([]usecase.CategoryTotal, error)
	DailyTotalsFunc           func(ctx context.Context, accountID string, from, to time.Time) ([]usecase.DailyTotal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{Transactions: make(map[string]*domain.Transaction)}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions[txn.ID] = txn
	m.order = append(m.order, txn.ID)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.Transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) UpdateApproval(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateApprovalFunc != nil {
		return m.UpdateApprovalFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Transactions[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.Transactions[txn.ID] = txn
	return nil
}

// All returns stored transactions in insertion order.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.Transactions[id])
	}
	return out
}

func (m *MockTransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	var out []*domain.Transaction
	for _, txn := range m.All() {
		if filter.AccountID != "" && txn.AccountID != filter.AccountID {
			continue
		}
		if filter.Type != nil && txn.Type != *filter.Type {
			continue
		}
		if filter.ApprovalStatus != nil && txn.ApprovalStatus != *filter.ApprovalStatus {
			continue
		}
		if filter.DateFrom != nil && txn.OccurredAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && txn.OccurredAt.After(*filter.DateTo) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *MockTransactionRepository) ListPending(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, ownerID, limit, offset)
	}
	var out []*domain.Transaction
	for _, txn := range m.All() {
		if txn.Pending() {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) SumApprovedExpensesOn(ctx context.Context, tx usecase.Transaction, accountID string, day time.Time) (decimal.Decimal, error) {
	if m.SumApprovedExpensesOnFunc != nil {
		return m.SumApprovedExpensesOnFunc(ctx, tx, accountID, day)
	}
	sum := decimal.Zero
	dayStart := day.UTC().Truncate(24 * time.Hour)
	for _, txn := range m.All() {
		if txn.AccountID != accountID || txn.Type != domain.TransactionExpense {
			continue
		}
		if txn.ApprovalStatus != domain.ApprovalApproved {
			continue
		}
		if !txn.OccurredAt.UTC().Truncate(24 * time.Hour).Equal(dayStart) {
			continue
		}
		sum = sum.Add(txn.Amount)
	}
	return sum, nil
}

func (m *MockTransactionRepository) ListForPeriod(ctx context.Context, tx usecase.Transaction, accountID string, from, to time.Time) ([]*domain.Transaction, error) {
	if m.ListForPeriodFunc != nil {
		return m.ListForPeriodFunc(ctx, tx, accountID, from, to)
	}
	var out []*domain.Transaction
	for _, txn := range m.All() {
		if txn.AccountID != accountID {
			continue
		}
		if txn.OccurredAt.Before(from) || txn.OccurredAt.After(to) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *MockTransactionRepository) MarkReconciled(ctx context.Context, tx usecase.Transaction, accountID string, from, to time.Time, reconciliationID string) (int64, error) {
	if m.MarkReconciledFunc != nil {
		return m.MarkReconciledFunc(ctx, tx, accountID, from, to, reconciliationID)
	}
	var n int64
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range m.Transactions {
		if txn.AccountID != accountID {
			continue
		}
		if txn.OccurredAt.Before(from) || txn.OccurredAt.After(to) {
			continue
		}
		txn.IsReconciled = true
		rid := reconciliationID
		txn.ReconciliationID = &rid
		n++
	}
	return n, nil
}

func (m *MockTransactionRepository) SummarizeByType(ctx context.Context, accountID string, from, to time.Time) ([]usecase.TypeTotal, error) {
	if m.SummarizeByTypeFunc != nil {
		return m.SummarizeByTypeFunc(ctx, accountID, from, to)
	}
	totals := make(map[domain.TransactionType]*usecase.TypeTotal)
	for _, txn := range m.All() {
		if txn.AccountID != accountID || txn.ApprovalStatus != domain.ApprovalApproved {
			continue
		}
		if txn.OccurredAt.Before(from) || txn.OccurredAt.After(to) {
			continue
		}
		tt, ok := totals[txn.Type]
		if !ok {
			tt = &usecase.TypeTotal{Type: txn.Type, Total: decimal.Zero}
			totals[txn.Type] = tt
		}
		tt.Count++
		tt.Total = tt.Total.Add(txn.Amount)
	}
	out := make([]usecase.TypeTotal, 0, len(totals))
	for _, tt := range totals {
		out = append(out, *tt)
	}
	return out, nil
}

func (m *MockTransactionRepository) CountPending(ctx context.Context, accountID string) (int64, error) {
	if m.CountPendingFunc != nil {
		return m.CountPendingFunc(ctx, accountID)
	}
	var n int64
	for _, txn := range m.All() {
		if txn.AccountID == accountID && txn.Pending() {
			n++
		}
	}
	return n, nil
}

func (m *MockTransactionRepository) CategoryBreakdown(ctx context.Context, accountID string, from, to time.Time) ([]usecase.CategoryTotal, error) {
	if m.CategoryBreakdownFunc != nil {
		return m.CategoryBreakdownFunc(ctx, accountID, from, to)
	}
	return nil, nil
}

func (m *MockTransactionRepository) DailyTotals(ctx context.Context, accountID string, from, to time.Time) ([]usecase.DailyTotal, error) {
	if m.DailyTotalsFunc != nil {
		return m.DailyTotalsFunc(ctx, accountID, from, to)
	}
	return nil, nil
}

// MockReconciliationRepository is an in-memory ReconciliationRepository.
type MockReconciliationRepository struct {
	mu              sync.RWMutex
	Reconciliations map[string]*domain.Reconciliation

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, rec *domain.Reconciliation) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Reconciliation, error)
	UpdateStatusFunc   func(ctx context.Context, tx usecase.Transaction, id string, status domain.ReconciliationStatus, approvedBy *string, updatedAt time.Time) error
	ListByAccountFunc  func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Reconciliation, error)
	CountByAccountFunc func(ctx context.Context, accountID string) (int64, error)
}

func NewMockReconciliationRepository() *MockReconciliationRepository {
	return &MockReconciliationRepository{Reconciliations: make(map[string]*domain.Reconciliation)}
}

func (m *MockReconciliationRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.Reconciliation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reconciliations[rec.ID] = rec
	return nil
}

func (m *MockReconciliationRepository) GetByID(ctx context.Context, id string) (*domain.Reconciliation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.Reconciliations[id]; ok {
		return rec, nil
	}
	return nil, domain.ErrReconciliationNotFound
}

func (m *MockReconciliationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ReconciliationStatus, approvedBy *string, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, approvedBy, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Reconciliations[id]
	if !ok {
		return domain.ErrReconciliationNotFound
	}
	rec.Status = status
	rec.ApprovedBy = approvedBy
	rec.UpdatedAt = updatedAt
	return nil
}

func (m *MockReconciliationRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Reconciliation, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Reconciliation
	for _, rec := range m.Reconciliations {
		if rec.AccountID == accountID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockReconciliationRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, accountID)
	}
	recs, _ := m.ListByAccount(ctx, accountID, 0, 0)
	return int64(len(recs)), nil
}

// MockReplenishmentRepository is an in-memory ReplenishmentRepository.
type MockReplenishmentRepository struct {
	mu             sync.RWMutex
	Replenishments map[string]*domain.Replenishment

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, repl *domain.Replenishment) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Replenishment, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Replenishment, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, repl *domain.Replenishment) error
	ListByAccountFunc    func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Replenishment, error)
	ListByStatusFunc     func(ctx context.Context, status domain.ReplenishmentStatus, limit, offset int) ([]*domain.Replenishment, error)
}

func NewMockReplenishmentRepository() *MockReplenishmentRepository {
	return &MockReplenishmentRepository{Replenishments: make(map[string]*domain.Replenishment)}
}

func (m *MockReplenishmentRepository) Create(ctx context.Context, tx usecase.Transaction, repl *domain.Replenishment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, repl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replenishments[repl.ID] = repl
	return nil
}

func (m *MockReplenishmentRepository) GetByID(ctx context.Context, id string) (*domain.Replenishment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if repl, ok := m.Replenishments[id]; ok {
		return repl, nil
	}
	return nil, domain.ErrReplenishmentNotFound
}

func (m *MockReplenishmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Replenishment, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockReplenishmentRepository) Update(ctx context.Context, tx usecase.Transaction, repl *domain.Replenishment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, repl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Replenishments[repl.ID]; !ok {
		return domain.ErrReplenishmentNotFound
	}
	m.Replenishments[repl.ID] = repl
	return nil
}

func (m *MockReplenishmentRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Replenishment, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Replenishment
	for _, repl := range m.Replenishments {
		if repl.AccountID == accountID {
			out = append(out, repl)
		}
	}
	return out, nil
}

func (m *MockReplenishmentRepository) ListByStatus(ctx context.Context, status domain.ReplenishmentStatus, limit, offset int) ([]*domain.Replenishment, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Replenishment
	for _, repl := range m.Replenishments {
		if repl.Status == status {
			out = append(out, repl)
		}
	}
	return out, nil
}

// MockExpenseRepository is an in-memory ExpenseRepository with a default
// always-active category.
type MockExpenseRepository struct {
	mu         sync.RWMutex
	Expenses   map[string]*domain.Expense
	Categories map[string]*domain.ExpenseCategory

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Expense, error)
	GetCategoryFunc    func(ctx context.Context, id string) (*domain.ExpenseCategory, error)
	GetSubcategoryFunc func(ctx context.Context, id string) (*domain.ExpenseSubcategory, error)
	ListCategoriesFunc func(ctx context.Context, activeOnly bool) ([]*domain.ExpenseCategory, error)
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses:   make(map[string]*domain.Expense),
		Categories: make(map[string]*domain.ExpenseCategory),
	}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expenses[expense.ID] = expense
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.Expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockExpenseRepository) GetCategory(ctx context.Context, id string) (*domain.ExpenseCategory, error) {
	if m.GetCategoryFunc != nil {
		return m.GetCategoryFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.Categories[id]; ok {
		return c, nil
	}
	// Default category keeps expense tests focused on ledger behavior.
	return &domain.ExpenseCategory{ID: id, Name: "general", IsActive: true}, nil
}

func (m *MockExpenseRepository) GetSubcategory(ctx context.Context, id string) (*domain.ExpenseSubcategory, error) {
	if m.GetSubcategoryFunc != nil {
		return m.GetSubcategoryFunc(ctx, id)
	}
	return &domain.ExpenseSubcategory{ID: id, Name: "general", IsActive: true}, nil
}

func (m *MockExpenseRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*domain.ExpenseCategory, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx, activeOnly)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ExpenseCategory
	for _, c := range m.Categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// MockAuditRepository collects audit logs.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AuditLog
	for _, l := range m.Logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu      sync.RWMutex
	Values  map[string]string
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key, value string, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{Values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Values, key)
	return nil
}
