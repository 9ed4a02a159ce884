package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, owner_id, assignee_user_id, assignee_cashier_id, name, code,
	opening_balance, current_balance, daily_limit, transaction_limit,
	approval_threshold, minimum_balance, status, is_active, version,
	created_by, closed_by, closed_at, notes, created_at, updated_at`

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		account.ID,
		account.OwnerID,
		account.AssigneeUserID,
		account.AssigneeCashierID,
		account.Name,
		account.Code,
		decimalToNumeric(account.OpeningBalance),
		decimalToNumeric(account.CurrentBalance),
		decimalPtrToNumeric(account.DailyLimit),
		decimalPtrToNumeric(account.TransactionLimit),
		decimalToNumeric(account.ApprovalThreshold),
		decimalToNumeric(account.MinimumBalance),
		string(account.Status),
		account.IsActive,
		account.Version,
		account.CreatedBy,
		account.ClosedBy,
		timePtrToPgTimestamptz(account.ClosedAt),
		account.Notes,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return scanAccount(txQuerier(tx).QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id))
}

// Update persists the mutable account fields.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE accounts SET
			name = $2, code = $3, daily_limit = $4, transaction_limit = $5,
			approval_threshold = $6, minimum_balance = $7, status = $8,
			is_active = $9, closed_by = $10, closed_at = $11, notes = $12,
			updated_at = $13
		WHERE id = $1`,
		account.ID,
		account.Name,
		account.Code,
		decimalPtrToNumeric(account.DailyLimit),
		decimalPtrToNumeric(account.TransactionLimit),
		decimalToNumeric(account.ApprovalThreshold),
		decimalToNumeric(account.MinimumBalance),
		string(account.Status),
		account.IsActive,
		account.ClosedBy,
		timePtrToPgTimestamptz(account.ClosedAt),
		account.Notes,
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// UpdateBalance writes the balance projection and bumps the version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE accounts SET current_balance = $2, version = $3, updated_at = $4
		WHERE id = $1`,
		id, decimalToNumeric(balance), version, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts matching the filter, newest first.
func (r *AccountRepository) List(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ActiveOnly {
		query += " AND is_active"
	}
	if filter.AssigneeUserID != nil {
		args = append(args, *filter.AssigneeUserID)
		query += fmt.Sprintf(" AND assignee_user_id = $%d", len(args))
	}
	if filter.AssigneeCashierID != nil {
		args = append(args, *filter.AssigneeCashierID)
		query += fmt.Sprintf(" AND assignee_cashier_id = $%d", len(args))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		query += fmt.Sprintf(" AND (assignee_user_id = $%d OR assignee_cashier_id = $%d)", len(args), len(args))
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account           domain.Account
		opening           pgtype.Numeric
		current           pgtype.Numeric
		dailyLimit        pgtype.Numeric
		transactionLimit  pgtype.Numeric
		approvalThreshold pgtype.Numeric
		minimumBalance    pgtype.Numeric
		status            string
		closedAt          pgtype.Timestamptz
		createdAt         pgtype.Timestamptz
		updatedAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.AssigneeUserID,
		&account.AssigneeCashierID,
		&account.Name,
		&account.Code,
		&opening,
		&current,
		&dailyLimit,
		&transactionLimit,
		&approvalThreshold,
		&minimumBalance,
		&status,
		&account.IsActive,
		&account.Version,
		&account.CreatedBy,
		&account.ClosedBy,
		&closedAt,
		&account.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.OpeningBalance = numericToDecimal(opening)
	account.CurrentBalance = numericToDecimal(current)
	account.DailyLimit = numericToDecimalPtr(dailyLimit)
	account.TransactionLimit = numericToDecimalPtr(transactionLimit)
	account.ApprovalThreshold = numericToDecimal(approvalThreshold)
	account.MinimumBalance = numericToDecimal(minimumBalance)
	account.Status = domain.AccountStatus(status)
	account.ClosedAt = pgTimestamptzToTimePtr(closedAt)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}
