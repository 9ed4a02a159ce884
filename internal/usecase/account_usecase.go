package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/metrics"
)

// AccountUseCase handles petty-cash account lifecycle.
type AccountUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	retrier         Retrier
	metrics         *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		retrier:         retrier,
		metrics:         m,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name              string
	Code              string
	AssigneeUserID    *string
	AssigneeCashierID *string
	OpeningBalance    decimal.Decimal
	DailyLimit        *decimal.Decimal
	TransactionLimit  *decimal.Decimal
	ApprovalThreshold decimal.Decimal
	MinimumBalance    decimal.Decimal
	Notes             string
}

func (in *CreateAccountInput) validate() error {
	if err := domain.ValidateAccountName(in.Name); err != nil {
		return err
	}
	if in.OpeningBalance.IsNegative() {
		return domain.ErrNegativeOpening
	}
	if in.AssigneeUserID == nil && in.AssigneeCashierID == nil {
		return domain.ErrAssigneeRequired
	}
	if in.AssigneeUserID != nil && in.AssigneeCashierID != nil {
		return domain.ErrAssigneeConflict
	}
	for _, limit := range []*decimal.Decimal{in.DailyLimit, in.TransactionLimit} {
		if err := domain.ValidateLimit(limit); err != nil {
			return err
		}
	}
	if in.ApprovalThreshold.IsNegative() || in.MinimumBalance.IsNegative() {
		return domain.ErrInvalidLimit
	}
	return nil
}

// CreateAccount creates a new account owned by the principal. A positive
// opening balance is materialised as a pre-approved allocation transaction so
// the balance's provenance is always traceable in the ledger.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, principal domain.Principal, input CreateAccountInput) (*domain.Account, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:                uc.idGen.Generate(),
		OwnerID:           principal.ID,
		AssigneeUserID:    input.AssigneeUserID,
		AssigneeCashierID: input.AssigneeCashierID,
		Name:              input.Name,
		Code:              input.Code,
		OpeningBalance:    input.OpeningBalance,
		CurrentBalance:    input.OpeningBalance,
		DailyLimit:        input.DailyLimit,
		TransactionLimit:  input.TransactionLimit,
		ApprovalThreshold: input.ApprovalThreshold,
		MinimumBalance:    input.MinimumBalance,
		Status:            domain.AccountStatusActive,
		IsActive:          true,
		Version:           0,
		CreatedBy:         principal.ID,
		Notes:             input.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if input.OpeningBalance.IsPositive() {
			account.Version = 1
		}
		if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
			return err
		}

		if input.OpeningBalance.IsPositive() {
			allocation := &domain.Transaction{
				ID:             uc.idGen.Generate(),
				AccountID:      account.ID,
				Type:           domain.TransactionAllocation,
				OccurredAt:     now,
				Amount:         input.OpeningBalance,
				BalanceBefore:  decimal.Zero,
				BalanceAfter:   input.OpeningBalance,
				ApprovalStatus: domain.ApprovalApproved,
				RecordedBy:     principal.ID,
				Description:    "opening balance allocation",
				AccountVersion: 1,
				CreatedAt:      now,
			}
			// The balance was set at account insert; the allocation records
			// its provenance, so no separate balance write happens here.
			if err := uc.transactionRepo.Create(txCtx, tx, allocation); err != nil {
				return err
			}
		}

		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionAccountCreate, account.ID, map[string]any{
			"name":            account.Name,
			"opening_balance": account.OpeningBalance.String(),
		})); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveAccountOperation("create")
	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists accounts visible to the principal. Non-admin callers are
// scoped to accounts they own.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, principal domain.Principal, filter AccountFilter) ([]*domain.Account, error) {
	if !principal.SeesAllAccounts() {
		filter.OwnerID = principal.ID
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.accountRepo.List(ctx, filter)
}

// GetAccountForPrincipal resolves the caller's own assigned account. At most
// one open account per assignee is expected; multiple matches are a data
// error, never silently resolved.
func (uc *AccountUseCase) GetAccountForPrincipal(ctx context.Context, principal domain.Principal) (*domain.Account, error) {
	// Assignment may sit in either assignee column; which one is not
	// derivable from the principal alone.
	id := principal.ID
	accounts, err := uc.accountRepo.List(ctx, AccountFilter{
		AssigneeID: &id,
		Limit:      2,
	})
	if err != nil {
		return nil, err
	}

	open := accounts[:0]
	for _, a := range accounts {
		if a.Open() {
			open = append(open, a)
		}
	}

	switch len(open) {
	case 0:
		return nil, domain.ErrAccountNotFound
	case 1:
		return open[0], nil
	default:
		return nil, domain.ErrAmbiguousAssignee
	}
}

// UpdateAccountInput carries the patchable account fields. Nil means leave
// unchanged.
type UpdateAccountInput struct {
	Name              *string
	Code              *string
	DailyLimit        *decimal.Decimal
	TransactionLimit  *decimal.Decimal
	ApprovalThreshold *decimal.Decimal
	MinimumBalance    *decimal.Decimal
	Notes             *string
}

// UpdateAccount applies a patch to an open account.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, principal domain.Principal, id string, input UpdateAccountInput) (*domain.Account, error) {
	if input.Name != nil {
		if err := domain.ValidateAccountName(*input.Name); err != nil {
			return nil, err
		}
	}
	for _, limit := range []*decimal.Decimal{input.DailyLimit, input.TransactionLimit} {
		if err := domain.ValidateLimit(limit); err != nil {
			return nil, err
		}
	}
	if input.ApprovalThreshold != nil && input.ApprovalThreshold.IsNegative() {
		return nil, domain.ErrInvalidLimit
	}
	if input.MinimumBalance != nil && input.MinimumBalance.IsNegative() {
		return nil, domain.ErrInvalidLimit
	}

	var account *domain.Account
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		account, err = uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		if !account.Open() {
			return domain.ErrAccountClosed
		}

		if input.Name != nil {
			account.Name = *input.Name
		}
		if input.Code != nil {
			account.Code = *input.Code
		}
		if input.DailyLimit != nil {
			account.DailyLimit = input.DailyLimit
		}
		if input.TransactionLimit != nil {
			account.TransactionLimit = input.TransactionLimit
		}
		if input.ApprovalThreshold != nil {
			account.ApprovalThreshold = *input.ApprovalThreshold
		}
		if input.MinimumBalance != nil {
			account.MinimumBalance = *input.MinimumBalance
		}
		if input.Notes != nil {
			account.Notes = *input.Notes
		}
		account.UpdatedAt = time.Now().UTC()

		if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
			return err
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionAccountUpdate, account.ID, nil)); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveAccountOperation("update")
	return account, nil
}

// SuspendAccount blocks further expense recording on the account. Reads and
// reporting keep working.
func (uc *AccountUseCase) SuspendAccount(ctx context.Context, principal domain.Principal, id, reason string) (*domain.Account, error) {
	account, err := uc.transition(ctx, principal, id, reason, domain.AuditActionAccountSuspend, func(a *domain.Account, now time.Time) error {
		if !a.Open() {
			return domain.ErrAccountClosed
		}
		a.Status = domain.AccountStatusSuspended
		a.IsActive = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveAccountOperation("suspend")
	return account, nil
}

// CloseAccount is terminal: all further mutation freezes, history is retained
// for audit.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, principal domain.Principal, id, reason string) (*domain.Account, error) {
	account, err := uc.transition(ctx, principal, id, reason, domain.AuditActionAccountClose, func(a *domain.Account, now time.Time) error {
		if !a.Open() {
			return domain.ErrAccountClosed
		}
		closedBy := principal.ID
		a.Status = domain.AccountStatusClosed
		a.IsActive = false
		a.ClosedBy = &closedBy
		a.ClosedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveAccountOperation("close")
	return account, nil
}

func (uc *AccountUseCase) transition(
	ctx context.Context,
	principal domain.Principal,
	id, reason, auditAction string,
	apply func(*domain.Account, time.Time) error,
) (*domain.Account, error) {
	var account *domain.Account
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		account, err = uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := apply(account, now); err != nil {
			return err
		}
		account.UpdatedAt = now

		if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
			return err
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, auditAction, account.ID, map[string]any{
			"reason": reason,
		})); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (uc *AccountUseCase) auditLog(principal domain.Principal, action, accountID string, detail map[string]any) *domain.AuditLog {
	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      principal.ID,
		Action:       action,
		ResourceType: "account",
		ResourceID:   accountID,
		Detail:       detail,
		Status:       "success",
		CreatedAt:    time.Now().UTC(),
	}
}
