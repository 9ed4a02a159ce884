package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/metrics"
)

// LedgerUseCase owns the balance-mutation algorithm. Every path that both
// reads the balance for validation and writes a new one runs under a row
// lock on the account, inside a single database transaction; the balance
// moves exactly once, when a ledger transaction becomes approved.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	expenseRepo     ExpenseRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	retrier         Retrier
	metrics         *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	expenseRepo ExpenseRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		expenseRepo:     expenseRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		retrier:         retrier,
		metrics:         m,
	}
}

// CreateTransactionInput represents input for creating a ledger transaction.
type CreateTransactionInput struct {
	AccountID        string
	Type             domain.TransactionType
	Amount           decimal.Decimal
	OccurredAt       *time.Time
	CategoryID       *string
	SubcategoryID    *string
	PaymentMethod    string
	TaxRate          decimal.Decimal
	TaxAmount        decimal.Decimal
	RequiresApproval bool
	// TargetBalance is the absolute post-adjustment balance; required for
	// adjustments, ignored otherwise.
	TargetBalance *decimal.Decimal
	// BalanceOverride replaces the live balance as balance_before. Only for
	// reconciliation-linked adjustments that back-date into a period.
	BalanceOverride  *decimal.Decimal
	ReconciliationID *string
	ExpenseID        *string
	Description      string
	Notes            string
	ReferenceNumber  string
}

// CreateTransaction persists a typed money movement. Transactions that do
// not require approval are applied to the account balance in the same
// database transaction as the insert.
func (uc *LedgerUseCase) CreateTransaction(ctx context.Context, principal domain.Principal, input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var txn *domain.Transaction
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

		txn, err = uc.createInTx(txCtx, tx, principal, account, input)
		if err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransaction(string(txn.Type), string(txn.ApprovalStatus))
	return txn, nil
}

// createInTx builds and persists the transaction under the caller's row
// lock, applying the balance change when no approval is needed. This is the
// single deterministic balance-update rule; approval-time application lives
// in ApprovalUseCase and reuses SignedDelta.
func (uc *LedgerUseCase) createInTx(
	ctx context.Context,
	tx Transaction,
	principal domain.Principal,
	account *domain.Account,
	input CreateTransactionInput,
) (*domain.Transaction, error) {
	now := time.Now().UTC()

	balanceBefore := account.CurrentBalance
	if input.BalanceOverride != nil {
		balanceBefore = *input.BalanceOverride
	}

	balanceAfter, err := domain.ComputeBalanceAfter(input.Type, balanceBefore, input.Amount, input.TargetBalance)
	if err != nil {
		return nil, err
	}

	status := domain.ApprovalApproved
	if input.RequiresApproval {
		status = domain.ApprovalPending
	}

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	txn := &domain.Transaction{
		ID:               uc.idGen.Generate(),
		AccountID:        account.ID,
		Type:             input.Type,
		OccurredAt:       occurredAt,
		Amount:           input.Amount,
		BalanceBefore:    balanceBefore,
		BalanceAfter:     balanceAfter,
		CategoryID:       input.CategoryID,
		SubcategoryID:    input.SubcategoryID,
		PaymentMethod:    input.PaymentMethod,
		TaxRate:          input.TaxRate,
		TaxAmount:        input.TaxAmount,
		RequiresApproval: input.RequiresApproval,
		ApprovalStatus:   status,
		ReconciliationID: input.ReconciliationID,
		ExpenseID:        input.ExpenseID,
		RecordedBy:       principal.ID,
		Description:      input.Description,
		Notes:            input.Notes,
		ReferenceNumber:  input.ReferenceNumber,
		AccountVersion:   account.Version + 1,
		CreatedAt:        now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if status == domain.ApprovalApproved && txn.Type != domain.TransactionReconciliation {
		newBalance := account.CurrentBalance.Add(txn.SignedDelta())
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version+1, now); err != nil {
			return nil, err
		}
		account.CurrentBalance = newBalance
		account.Version++
	}

	return txn, nil
}

// RecordExpenseInput represents input for recording an expense.
type RecordExpenseInput struct {
	AccountID     string
	Amount        decimal.Decimal
	CategoryID    string
	SubcategoryID *string
	PaymentMethod string
	TaxRate       decimal.Decimal
	Description   string
	Notes         string
	ReceiptNumber string
	OccurredAt    *time.Time
}

// RecordExpenseResult is the composed outcome of recording an expense.
type RecordExpenseResult struct {
	Expense          *domain.Expense
	Transaction      *domain.Transaction
	RequiresApproval bool
}

// RecordExpense validates an expense against the account state and limits,
// creates the collaborator expense record and the expense transaction. The
// limit check and the balance write share one row lock, so two concurrent
// calls can never both validate against a stale balance.
func (uc *LedgerUseCase) RecordExpense(ctx context.Context, principal domain.Principal, input RecordExpenseInput) (*RecordExpenseResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	category, err := uc.expenseRepo.GetCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, domain.ErrCategoryInactive
	}
	if input.SubcategoryID != nil {
		if _, err := uc.expenseRepo.GetSubcategory(ctx, *input.SubcategoryID); err != nil {
			return nil, err
		}
	}

	var result *RecordExpenseResult
	err = uc.retrier.Retry(ctx, func() error {
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

		now := time.Now().UTC()
		occurredAt := now
		if input.OccurredAt != nil {
			occurredAt = input.OccurredAt.UTC()
		}

		todayApproved, err := uc.transactionRepo.SumApprovedExpensesOn(txCtx, tx, account.ID, occurredAt)
		if err != nil {
			return err
		}
		if err := account.ValidateExpense(input.Amount, todayApproved); err != nil {
			return err
		}

		requiresApproval := account.NeedsApproval(input.Amount)

		taxAmount := decimal.Zero
		if input.TaxRate.IsPositive() {
			taxAmount = input.Amount.Mul(input.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
		}

		expense := &domain.Expense{
			ID:            uc.idGen.Generate(),
			AccountID:     account.ID,
			CategoryID:    input.CategoryID,
			SubcategoryID: input.SubcategoryID,
			Amount:        input.Amount,
			TaxRate:       input.TaxRate,
			TaxAmount:     taxAmount,
			PaymentMethod: input.PaymentMethod,
			Description:   input.Description,
			ReceiptNumber: input.ReceiptNumber,
			RecordedBy:    principal.ID,
			ExpenseDate:   occurredAt,
			CreatedAt:     now,
		}
		if err := uc.expenseRepo.Create(txCtx, tx, expense); err != nil {
			return err
		}

		categoryID := input.CategoryID
		txn, err := uc.createInTx(txCtx, tx, principal, account, CreateTransactionInput{
			AccountID:        account.ID,
			Type:             domain.TransactionExpense,
			Amount:           input.Amount,
			OccurredAt:       &occurredAt,
			CategoryID:       &categoryID,
			SubcategoryID:    input.SubcategoryID,
			PaymentMethod:    input.PaymentMethod,
			TaxRate:          input.TaxRate,
			TaxAmount:        taxAmount,
			RequiresApproval: requiresApproval,
			ExpenseID:        &expense.ID,
			Description:      input.Description,
			Notes:            input.Notes,
			ReferenceNumber:  input.ReceiptNumber,
		})
		if err != nil {
			return err
		}

		if err := uc.auditRepo.CreateTx(txCtx, tx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      principal.ID,
			Action:       domain.AuditActionExpenseRecord,
			ResourceType: "transaction",
			ResourceID:   txn.ID,
			Detail: map[string]any{
				"amount":            input.Amount.String(),
				"category_id":       input.CategoryID,
				"requires_approval": requiresApproval,
			},
			Status:    "success",
			CreatedAt: now,
		}); err != nil {
			return err
		}

		result = &RecordExpenseResult{
			Expense:          expense,
			Transaction:      txn,
			RequiresApproval: requiresApproval,
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransaction(string(domain.TransactionExpense), string(result.Transaction.ApprovalStatus))
	uc.metrics.ObserveExpense(input.Amount)
	return result, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// GetTransactions lists ledger transactions, newest first.
func (uc *LedgerUseCase) GetTransactions(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.transactionRepo.List(ctx, filter)
}
