package usecase

import (
	"context"
	"time"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/metrics"
)

// ApprovalUseCase is the gate that finalizes or rejects pending transactions.
// Approval re-reads the transaction under a row lock before applying the
// balance, so the delta lands exactly once no matter how often approve is
// called.
type ApprovalUseCase struct {
	txManager          TransactionManager
	accountRepo        AccountRepository
	transactionRepo    TransactionRepository
	reconciliationRepo ReconciliationRepository
	auditRepo          AuditRepository
	idGen              IDGenerator
	retrier            Retrier
	metrics            *metrics.Metrics
}

// NewApprovalUseCase creates a new ApprovalUseCase.
func NewApprovalUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	reconciliationRepo ReconciliationRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *ApprovalUseCase {
	return &ApprovalUseCase{
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

// GetPendingApprovals lists transactions awaiting sign-off on accounts within
// the principal's visibility set.
func (uc *ApprovalUseCase) GetPendingApprovals(ctx context.Context, principal domain.Principal, limit, offset int) ([]*domain.Transaction, error) {
	if !principal.CanApprove() {
		return nil, domain.ErrNotAuthorized
	}

	ownerScope := principal.ID
	if principal.SeesAllAccounts() {
		ownerScope = ""
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.transactionRepo.ListPending(ctx, ownerScope, limit, offset)
}

// ApproveTransaction marks a pending transaction approved and applies its
// balance delta. Approving an already-approved transaction is a no-op, never
// a double application.
func (uc *ApprovalUseCase) ApproveTransaction(ctx context.Context, principal domain.Principal, id, notes string) (*domain.Transaction, error) {
	if !principal.CanApprove() {
		return nil, domain.ErrNotAuthorized
	}

	var txn *domain.Transaction
	applied := false
	err := uc.retrier.Retry(ctx, func() error {
		applied = false
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		txn, err = uc.transactionRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}

		switch txn.ApprovalStatus {
		case domain.ApprovalApproved:
			// Idempotent: the delta was applied when the status first
			// flipped; nothing to do.
			return tx.Commit(txCtx)
		case domain.ApprovalRejected:
			return domain.ErrTransactionResolved
		}

		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, txn.AccountID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		approvedBy := principal.ID
		txn.ApprovalStatus = domain.ApprovalApproved
		txn.ApprovedBy = &approvedBy
		txn.ApprovedAt = &now
		if notes != "" {
			txn.Notes = notes
		}
		txn.AccountVersion = account.Version + 1

		if err := uc.transactionRepo.UpdateApproval(txCtx, tx, txn); err != nil {
			return err
		}

		if txn.Type != domain.TransactionReconciliation {
			newBalance := account.CurrentBalance.Add(txn.SignedDelta())
			if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, newBalance, account.Version+1, now); err != nil {
				return err
			}
		}

		// Resolving a variance adjustment completes its reconciliation.
		if txn.ReconciliationID != nil {
			if err := uc.reconciliationRepo.UpdateStatus(txCtx, tx, *txn.ReconciliationID, domain.ReconciliationCompleted, &approvedBy, now); err != nil {
				return err
			}
		}

		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionTransactionApprove, txn.ID, map[string]any{
			"delta": txn.SignedDelta().String(),
		})); err != nil {
			return err
		}

		applied = true
		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if applied {
		uc.metrics.ObserveApproval("approved")
	}
	return txn, nil
}

// RejectTransaction marks a pending transaction rejected. The balance is
// never mutated for a rejected transaction. Rejecting an already-rejected
// transaction is a no-op; rejecting an approved one is a state error.
func (uc *ApprovalUseCase) RejectTransaction(ctx context.Context, principal domain.Principal, id, reason string) (*domain.Transaction, error) {
	if !principal.CanApprove() {
		return nil, domain.ErrNotAuthorized
	}
	if reason == "" {
		return nil, domain.ErrRejectionReasonRequired
	}

	var txn *domain.Transaction
	rejected := false
	err := uc.retrier.Retry(ctx, func() error {
		rejected = false
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		txn, err = uc.transactionRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}

		switch txn.ApprovalStatus {
		case domain.ApprovalRejected:
			return tx.Commit(txCtx)
		case domain.ApprovalApproved:
			return domain.ErrTransactionResolved
		}

		now := time.Now().UTC()
		txn.ApprovalStatus = domain.ApprovalRejected
		txn.RejectionReason = reason

		if err := uc.transactionRepo.UpdateApproval(txCtx, tx, txn); err != nil {
			return err
		}

		// A rejected variance adjustment still resolves its reconciliation;
		// the books stay as counted-versus-recorded disagreement on record.
		if txn.ReconciliationID != nil {
			if err := uc.reconciliationRepo.UpdateStatus(txCtx, tx, *txn.ReconciliationID, domain.ReconciliationCompleted, nil, now); err != nil {
				return err
			}
		}

		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditLog(principal, domain.AuditActionTransactionReject, txn.ID, map[string]any{
			"reason": reason,
		})); err != nil {
			return err
		}

		rejected = true
		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if rejected {
		uc.metrics.ObserveApproval("rejected")
	}
	return txn, nil
}

func (uc *ApprovalUseCase) auditLog(principal domain.Principal, action, transactionID string, detail map[string]any) *domain.AuditLog {
	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      principal.ID,
		Action:       action,
		ResourceType: "transaction",
		ResourceID:   transactionID,
		Detail:       detail,
		Status:       "success",
		CreatedAt:    time.Now().UTC(),
	}
}
