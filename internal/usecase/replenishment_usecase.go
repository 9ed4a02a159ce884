package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/metrics"
)

// ReplenishmentUseCase runs the request -> approve -> disburse state machine
// for topping up an account. Approval is a pure state transition; only
// disbursement creates the ledger transaction and moves the balance.
type ReplenishmentUseCase struct {
	txManager         TransactionManager
	accountRepo       AccountRepository
	transactionRepo   TransactionRepository
	replenishmentRepo ReplenishmentRepository
	auditRepo         AuditRepository
	idGen             IDGenerator
	retrier           Retrier
	metrics           *metrics.Metrics
}

// NewReplenishmentUseCase creates a new ReplenishmentUseCase.
func NewReplenishmentUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	replenishmentRepo ReplenishmentRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		txManager:         txManager,
		accountRepo:       accountRepo,
		transactionRepo:   transactionRepo,
		replenishmentRepo: replenishmentRepo,
		auditRepo:         auditRepo,
		idGen:             idGen,
		retrier:           retrier,
		metrics:           m,
	}
}

// RequestReplenishmentInput represents input for requesting a top-up.
type RequestReplenishmentInput struct {
	AccountID     string
	Amount        decimal.Decimal
	Justification string
}

// RequestReplenishment creates a pending request, snapshotting the balance at
// request time for audit.
func (uc *ReplenishmentUseCase) RequestReplenishment(ctx context.Context, principal domain.Principal, input RequestReplenishmentInput) (*domain.Replenishment, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.Justification == "" {
		return nil, domain.ErrJustificationRequired
	}

	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.Open() {
		return nil, domain.ErrAccountClosed
	}

	now := time.Now().UTC()
	repl := &domain.Replenishment{
		ID:               uc.idGen.Generate(),
		AccountID:        account.ID,
		RequestedAmount:  input.Amount,
		BalanceAtRequest: account.CurrentBalance,
		Justification:    input.Justification,
		Status:           domain.ReplenishmentPending,
		RequestedBy:      principal.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := uc.replenishmentRepo.Create(txCtx, tx, repl); err != nil {
			return err
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionReplenishmentRequest, repl.ID, map[string]any{
			"amount": input.Amount.String(),
		})); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveReplenishment("requested")
	return repl, nil
}

// ApproveReplenishment transitions a pending request to approved. No balance
// effect; the account is topped up by DisburseReplenishment alone.
func (uc *ReplenishmentUseCase) ApproveReplenishment(ctx context.Context, principal domain.Principal, id string, approvedAmount *decimal.Decimal, notes string) (*domain.Replenishment, error) {
	if !principal.CanApprove() {
		return nil, domain.ErrNotAuthorized
	}
	if approvedAmount != nil {
		if err := domain.ValidateAmount(*approvedAmount); err != nil {
			return nil, err
		}
	}

	var repl *domain.Replenishment
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		repl, err = uc.replenishmentRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		if !repl.CanApprove() {
			return domain.ErrReplenishmentNotPending
		}
		// Approvers may trim the request, never raise it.
		if approvedAmount != nil && approvedAmount.GreaterThan(repl.RequestedAmount) {
			return domain.ErrApprovedExceedsRequested
		}

		now := time.Now().UTC()
		approvedBy := principal.ID
		amount := repl.RequestedAmount
		if approvedAmount != nil {
			amount = *approvedAmount
		}

		repl.Status = domain.ReplenishmentApproved
		repl.ApprovedAmount = &amount
		repl.ApprovedBy = &approvedBy
		repl.ApprovedAt = &now
		if notes != "" {
			repl.Notes = notes
		}
		repl.UpdatedAt = now

		if err := uc.replenishmentRepo.Update(txCtx, tx, repl); err != nil {
			return err
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionReplenishmentApprove, repl.ID, map[string]any{
			"approved_amount": amount.String(),
		})); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveReplenishment("approved")
	return repl, nil
}

// DisburseReplenishmentInput carries the hand-over details.
type DisburseReplenishmentInput struct {
	DisbursementMethod string
	ReferenceNumber    string
	Notes              string
}

// DisburseReplenishmentResult carries the completed request and the ledger
// transaction it produced.
type DisburseReplenishmentResult struct {
	Replenishment *domain.Replenishment
	Transaction   *domain.Transaction
}

// DisburseReplenishment completes an approved request: it creates the
// pre-approved replenishment transaction, applies the balance in the same
// database transaction and links the two records.
func (uc *ReplenishmentUseCase) DisburseReplenishment(ctx context.Context, principal domain.Principal, id string, input DisburseReplenishmentInput) (*DisburseReplenishmentResult, error) {
	var result *DisburseReplenishmentResult
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		repl, err := uc.replenishmentRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		if !repl.CanDisburse() {
			return domain.ErrReplenishmentNotApproved
		}

		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, repl.AccountID)
		if err != nil {
			return err
		}
		if !account.Open() {
			return domain.ErrAccountClosed
		}

		now := time.Now().UTC()
		amount := repl.DisbursementAmount()

		txn := &domain.Transaction{
			ID:              uc.idGen.Generate(),
			AccountID:       account.ID,
			Type:            domain.TransactionReplenishment,
			OccurredAt:      now,
			Amount:          amount,
			BalanceBefore:   account.CurrentBalance,
			BalanceAfter:    account.CurrentBalance.Add(amount),
			PaymentMethod:   input.DisbursementMethod,
			ApprovalStatus:  domain.ApprovalApproved,
			RecordedBy:      principal.ID,
			Description:     "replenishment disbursement",
			Notes:           repl.Justification,
			ReferenceNumber: input.ReferenceNumber,
			AccountVersion:  account.Version + 1,
			CreatedAt:       now,
		}
		if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
			return err
		}
		if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, txn.BalanceAfter, account.Version+1, now); err != nil {
			return err
		}

		disbursedBy := principal.ID
		repl.Status = domain.ReplenishmentCompleted
		repl.DisbursedBy = &disbursedBy
		repl.DisbursedAt = &now
		repl.DisbursementMethod = input.DisbursementMethod
		repl.ReferenceNumber = input.ReferenceNumber
		repl.TransactionID = &txn.ID
		if input.Notes != "" {
			repl.Notes = input.Notes
		}
		repl.UpdatedAt = now

		if err := uc.replenishmentRepo.Update(txCtx, tx, repl); err != nil {
			return err
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionReplenishmentDisburse, repl.ID, map[string]any{
			"amount":         amount.String(),
			"transaction_id": txn.ID,
		})); err != nil {
			return err
		}

		result = &DisburseReplenishmentResult{Replenishment: repl, Transaction: txn}
		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveReplenishment("disbursed")
	uc.metrics.ObserveTransaction(string(domain.TransactionReplenishment), string(domain.ApprovalApproved))
	return result, nil
}

// RejectReplenishment terminally rejects a pending request.
func (uc *ReplenishmentUseCase) RejectReplenishment(ctx context.Context, principal domain.Principal, id, reason string) (*domain.Replenishment, error) {
	if !principal.CanApprove() {
		return nil, domain.ErrNotAuthorized
	}
	if reason == "" {
		return nil, domain.ErrRejectionReasonRequired
	}

	var repl *domain.Replenishment
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		repl, err = uc.replenishmentRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		if !repl.CanReject() {
			return domain.ErrReplenishmentNotPending
		}

		now := time.Now().UTC()
		repl.Status = domain.ReplenishmentRejected
		repl.Notes = reason
		repl.UpdatedAt = now

		if err := uc.replenishmentRepo.Update(txCtx, tx, repl); err != nil {
			return err
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionReplenishmentReject, repl.ID, map[string]any{
			"reason": reason,
		})); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveReplenishment("rejected")
	return repl, nil
}

// GetReplenishment retrieves a replenishment by ID.
func (uc *ReplenishmentUseCase) GetReplenishment(ctx context.Context, id string) (*domain.Replenishment, error) {
	return uc.replenishmentRepo.GetByID(ctx, id)
}

// ListReplenishments lists replenishments for an account, newest first.
func (uc *ReplenishmentUseCase) ListReplenishments(ctx context.Context, accountID string, limit, offset int) ([]*domain.Replenishment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.replenishmentRepo.ListByAccount(ctx, accountID, limit, offset)
}

// ListPendingReplenishments lists requests awaiting approval.
func (uc *ReplenishmentUseCase) ListPendingReplenishments(ctx context.Context, limit, offset int) ([]*domain.Replenishment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.replenishmentRepo.ListByStatus(ctx, domain.ReplenishmentPending, limit, offset)
}

func (uc *ReplenishmentUseCase) auditLog(principal domain.Principal, action, replenishmentID string, detail map[string]any) *domain.AuditLog {
	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      principal.ID,
		Action:       action,
		ResourceType: "replenishment",
		ResourceID:   replenishmentID,
		Detail:       detail,
		Status:       "success",
		CreatedAt:    time.Now().UTC(),
	}
}
