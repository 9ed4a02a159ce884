package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/metrics"
)

// ReconciliationUseCase compares the ledger-derived balance against
// physically counted cash and produces variance-driven adjustments.
type ReconciliationUseCase struct {
	txManager          TransactionManager
	accountRepo        AccountRepository
	transactionRepo    TransactionRepository
	reconciliationRepo ReconciliationRepository
	auditRepo          AuditRepository
	idGen              IDGenerator
	retrier            Retrier
	metrics            *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	reconciliationRepo ReconciliationRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:          txManager,
		accountRepo:        accountRepo,
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		auditRepo:          auditRepo,
		idGen:              idGen,
		retrier:            retrier,
		metrics:            m,
	}
}

// CreateReconciliationInput represents input for reconciling an account.
type CreateReconciliationInput struct {
	AccountID      string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	ActualBalance  decimal.Decimal
	VarianceReason string
}

// CreateReconciliationResult carries the reconciliation and, for a non-zero
// variance, the adjustment transaction it spawned.
type CreateReconciliationResult struct {
	Reconciliation *domain.Reconciliation
	Adjustment     *domain.Transaction
}

// CreateReconciliation runs the whole reconciliation as one database
// transaction: aggregate the period, compute the variance, persist the
// record, mark the period reconciled and, when the count disagrees with the
// ledger, create exactly one adjustment transaction of amount |variance|.
// A shortage parks the adjustment for approval; a surplus auto-applies.
// Nothing is written when validation fails.
func (uc *ReconciliationUseCase) CreateReconciliation(ctx context.Context, principal domain.Principal, input CreateReconciliationInput) (*CreateReconciliationResult, error) {
	if input.ActualBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, domain.ErrInvalidPeriod
	}

	var result *CreateReconciliationResult
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
		if err != nil {
			return err
		}
		if !account.Open() {
			return domain.ErrAccountClosed
		}

		// The caller reconciles "as of now": expected is the live balance
		// under the row lock we hold.
		expected := account.CurrentBalance
		variance := input.ActualBalance.Sub(expected)

		if !variance.IsZero() && input.VarianceReason == "" {
			return domain.ErrVarianceReasonRequired
		}

		periodTxns, err := uc.transactionRepo.ListForPeriod(txCtx, tx, account.ID, input.PeriodStart, input.PeriodEnd)
		if err != nil {
			return err
		}

		totalReceipts := decimal.Zero
		totalPayments := decimal.Zero
		for _, t := range periodTxns {
			if t.ApprovalStatus != domain.ApprovalApproved {
				continue
			}
			switch t.Type {
			case domain.TransactionAllocation, domain.TransactionReplenishment:
				totalReceipts = totalReceipts.Add(t.Amount)
			case domain.TransactionExpense:
				totalPayments = totalPayments.Add(t.Amount)
			}
		}

		now := time.Now().UTC()
		status := domain.ReconciliationPending
		if variance.IsZero() {
			status = domain.ReconciliationCompleted
		}

		rec := &domain.Reconciliation{
			ID:                 uc.idGen.Generate(),
			AccountID:          account.ID,
			ReconciliationDate: now,
			PeriodStart:        input.PeriodStart,
			PeriodEnd:          input.PeriodEnd,
			OpeningBalance:     account.OpeningBalance,
			ExpectedBalance:    expected,
			ActualBalance:      input.ActualBalance,
			Variance:           variance,
			TotalReceipts:      totalReceipts,
			TotalPayments:      totalPayments,
			TransactionCount:   len(periodTxns),
			Status:             status,
			VarianceReason:     input.VarianceReason,
			ReconciledBy:       principal.ID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := uc.reconciliationRepo.Create(txCtx, tx, rec); err != nil {
			return err
		}

		if _, err := uc.transactionRepo.MarkReconciled(txCtx, tx, account.ID, input.PeriodStart, input.PeriodEnd, rec.ID); err != nil {
			return err
		}

		var adjustment *domain.Transaction
		if !variance.IsZero() {
			adjustment, err = uc.createAdjustment(txCtx, tx, principal, account, rec, now)
			if err != nil {
				return err
			}

			// A surplus auto-applies in this same transaction, completing
			// the reconciliation immediately.
			if adjustment.ApprovalStatus == domain.ApprovalApproved {
				rec.Status = domain.ReconciliationCompleted
				if err := uc.reconciliationRepo.UpdateStatus(txCtx, tx, rec.ID, domain.ReconciliationCompleted, nil, now); err != nil {
					return err
				}
			}
		}

		if err := uc.auditRepo.CreateTx(txCtx, tx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      principal.ID,
			Action:       domain.AuditActionReconciliationCreate,
			ResourceType: "reconciliation",
			ResourceID:   rec.ID,
			Detail: map[string]any{
				"expected": expected.String(),
				"actual":   input.ActualBalance.String(),
				"variance": variance.String(),
			},
			Status:    "success",
			CreatedAt: now,
		}); err != nil {
			return err
		}

		result = &CreateReconciliationResult{Reconciliation: rec, Adjustment: adjustment}
		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveReconciliation(result.Reconciliation.Balanced(), result.Reconciliation.Variance)
	return result, nil
}

func (uc *ReconciliationUseCase) createAdjustment(
	ctx context.Context,
	tx Transaction,
	principal domain.Principal,
	account *domain.Account,
	rec *domain.Reconciliation,
	now time.Time,
) (*domain.Transaction, error) {
	status := domain.ApprovalApproved
	requiresApproval := rec.Shortage()
	if requiresApproval {
		status = domain.ApprovalPending
	}

	adjustment := &domain.Transaction{
		ID:               uc.idGen.Generate(),
		AccountID:        account.ID,
		Type:             domain.TransactionAdjustment,
		OccurredAt:       now,
		Amount:           rec.Variance.Abs(),
		BalanceBefore:    rec.ExpectedBalance,
		BalanceAfter:     rec.ActualBalance,
		RequiresApproval: requiresApproval,
		ApprovalStatus:   status,
		ReconciliationID: &rec.ID,
		RecordedBy:       principal.ID,
		Description:      "reconciliation variance adjustment",
		Notes:            rec.VarianceReason,
		AccountVersion:   account.Version + 1,
		CreatedAt:        now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, adjustment); err != nil {
		return nil, err
	}

	if status == domain.ApprovalApproved {
		newBalance := account.CurrentBalance.Add(adjustment.SignedDelta())
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version+1, now); err != nil {
			return nil, err
		}
		account.CurrentBalance = newBalance
		account.Version++
	}

	return adjustment, nil
}

// GetReconciliation retrieves a reconciliation by ID.
func (uc *ReconciliationUseCase) GetReconciliation(ctx context.Context, id string) (*domain.Reconciliation, error) {
	return uc.reconciliationRepo.GetByID(ctx, id)
}

// ListReconciliations lists reconciliations for an account, newest first.
func (uc *ReconciliationUseCase) ListReconciliations(ctx context.Context, accountID string, limit, offset int) ([]*domain.Reconciliation, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.reconciliationRepo.ListByAccount(ctx, accountID, limit, offset)
}
