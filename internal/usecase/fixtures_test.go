package usecase_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase/mocks"
)

// fixture wires every usecase against the in-memory mocks. Metrics are nil on
// purpose; the recorder methods are nil-safe.
type fixture struct {
	txManager *mocks.MockTransactionManager
	accounts  *mocks.MockAccountRepository
	txns      *mocks.MockTransactionRepository
	recs      *mocks.MockReconciliationRepository
	repls     *mocks.MockReplenishmentRepository
	expenses  *mocks.MockExpenseRepository
	audit     *mocks.MockAuditRepository
	idGen     *mocks.MockIDGenerator
	cache     *mocks.MockCache
}

func newFixture() *fixture {
	return &fixture{
		txManager: mocks.NewMockTransactionManager(),
		accounts:  mocks.NewMockAccountRepository(),
		txns:      mocks.NewMockTransactionRepository(),
		recs:      mocks.NewMockReconciliationRepository(),
		repls:     mocks.NewMockReplenishmentRepository(),
		expenses:  mocks.NewMockExpenseRepository(),
		audit:     mocks.NewMockAuditRepository(),
		idGen:     mocks.NewMockIDGenerator(),
		cache:     mocks.NewMockCache(),
	}
}

func (f *fixture) accountUseCase() *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(f.txManager, f.accounts, f.txns, f.audit, f.idGen, mocks.NoopRetrier{}, nil)
}

func (f *fixture) ledgerUseCase() *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(f.txManager, f.accounts, f.txns, f.expenses, f.audit, f.idGen, mocks.NoopRetrier{}, nil)
}

func (f *fixture) approvalUseCase() *usecase.ApprovalUseCase {
	return usecase.NewApprovalUseCase(f.txManager, f.accounts, f.txns, f.recs, f.audit, f.idGen, mocks.NoopRetrier{}, nil)
}

func (f *fixture) reconciliationUseCase() *usecase.ReconciliationUseCase {
	return usecase.NewReconciliationUseCase(f.txManager, f.accounts, f.txns, f.recs, f.audit, f.idGen, mocks.NoopRetrier{}, nil)
}

func (f *fixture) replenishmentUseCase() *usecase.ReplenishmentUseCase {
	return usecase.NewReplenishmentUseCase(f.txManager, f.accounts, f.txns, f.repls, f.audit, f.idGen, mocks.NoopRetrier{}, nil)
}

func (f *fixture) reportingUseCase() *usecase.ReportingUseCase {
	return usecase.NewReportingUseCase(f.accounts, f.txns, f.recs, f.cache, nil)
}

// seedAccount stores an active account with the given balance and returns it.
func (f *fixture) seedAccount(id string, balance int64) *domain.Account {
	assignee := "cashier-1"
	now := time.Now().UTC()
	account := &domain.Account{
		ID:             id,
		OwnerID:        "manager-1",
		AssigneeUserID: &assignee,
		Name:           "front desk float",
		OpeningBalance: decimal.NewFromInt(balance),
		CurrentBalance: decimal.NewFromInt(balance),
		Status:         domain.AccountStatusActive,
		IsActive:       true,
		Version:        1,
		CreatedBy:      "manager-1",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.accounts.Accounts[id] = account
	return account
}

var (
	admin   = domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	manager = domain.Principal{ID: "manager-1", Role: domain.RoleManager}
	cashier = domain.Principal{ID: "cashier-1", Role: domain.RoleCashier}
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }
