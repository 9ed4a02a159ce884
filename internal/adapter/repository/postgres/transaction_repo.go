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

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, account_id, type, occurred_at, amount, balance_before, balance_after,
	category_id, subcategory_id, payment_method, tax_rate, tax_amount,
	requires_approval, approval_status, approved_by, approved_at, rejection_reason,
	reconciliation_id, expense_id, is_reconciled, recorded_by, description, notes,
	reference_number, account_version, created_at`

// Create inserts a ledger transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		txn.ID,
		txn.AccountID,
		string(txn.Type),
		timeToPgTimestamptz(txn.OccurredAt),
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.BalanceBefore),
		decimalToNumeric(txn.BalanceAfter),
		txn.CategoryID,
		txn.SubcategoryID,
		txn.PaymentMethod,
		decimalToNumeric(txn.TaxRate),
		decimalToNumeric(txn.TaxAmount),
		txn.RequiresApproval,
		string(txn.ApprovalStatus),
		txn.ApprovedBy,
		timePtrToPgTimestamptz(txn.ApprovedAt),
		txn.RejectionReason,
		txn.ReconciliationID,
		txn.ExpenseID,
		txn.IsReconciled,
		txn.RecordedBy,
		txn.Description,
		txn.Notes,
		txn.ReferenceNumber,
		txn.AccountVersion,
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return scanTransaction(txQuerier(tx).QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
}

// UpdateApproval persists the approval resolution fields.
func (r *TransactionRepository) UpdateApproval(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE transactions SET
			approval_status = $2, approved_by = $3, approved_at = $4,
			rejection_reason = $5, notes = $6, account_version = $7
		WHERE id = $1`,
		txn.ID,
		string(txn.ApprovalStatus),
		txn.ApprovedBy,
		timePtrToPgTimestamptz(txn.ApprovedAt),
		txn.RejectionReason,
		txn.Notes,
		txn.AccountVersion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// List lists transactions matching the filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}

	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.ApprovalStatus != nil {
		args = append(args, string(*filter.ApprovalStatus))
		query += fmt.Sprintf(" AND approval_status = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, timeToPgTimestamptz(*filter.DateFrom))
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, timeToPgTimestamptz(*filter.DateTo))
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}

	query += " ORDER BY occurred_at DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryTransactions(ctx, r.pool, query, args...)
}

// ListPending returns pending transactions, optionally scoped to accounts
// owned by ownerID.
func (r *TransactionRepository) ListPending(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + prefixColumns("t", transactionColumns) + `
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.requires_approval AND t.approval_status = 'pending'`
	args := []any{}

	if ownerID != "" {
		args = append(args, ownerID)
		query += fmt.Sprintf(" AND a.owner_id = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY t.created_at ASC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.queryTransactions(ctx, r.pool, query, args...)
}

// SumApprovedExpensesOn sums approved expense amounts for the calendar day of
// the given instant, under the caller's transaction.
func (r *TransactionRepository) SumApprovedExpensesOn(ctx context.Context, tx usecase.Transaction, accountID string, day time.Time) (decimal.Decimal, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)

	var sum pgtype.Numeric
	err := txQuerier(tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1
		  AND type = 'expense'
		  AND approval_status = 'approved'
		  AND occurred_at >= $2
		  AND occurred_at < $3`,
		accountID, timeToPgTimestamptz(dayStart), timeToPgTimestamptz(dayStart.Add(24*time.Hour)),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ListForPeriod lists all transactions that occurred within [from, to], under
// the caller's transaction.
func (r *TransactionRepository) ListForPeriod(ctx context.Context, tx usecase.Transaction, accountID string, from, to time.Time) ([]*domain.Transaction, error) {
	return r.queryTransactions(ctx, txQuerier(tx), `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at ASC`,
		accountID, timeToPgTimestamptz(from), timeToPgTimestamptz(to),
	)
}

// MarkReconciled stamps every transaction in the period with the
// reconciliation ID and returns the number of rows touched.
func (r *TransactionRepository) MarkReconciled(ctx context.Context, tx usecase.Transaction, accountID string, from, to time.Time, reconciliationID string) (int64, error) {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE transactions
		SET is_reconciled = TRUE, reconciliation_id = $4
		WHERE account_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		  AND reconciliation_id IS NULL`,
		accountID, timeToPgTimestamptz(from), timeToPgTimestamptz(to), reconciliationID,
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// SummarizeByType aggregates approved amounts per transaction type.
func (r *TransactionRepository) SummarizeByType(ctx context.Context, accountID string, from, to time.Time) ([]usecase.TypeTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1 AND approval_status = 'approved'
		  AND occurred_at >= $2 AND occurred_at <= $3
		GROUP BY type
		ORDER BY type`,
		accountID, timeToPgTimestamptz(from), timeToPgTimestamptz(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.TypeTotal
	for rows.Next() {
		var (
			typ   string
			count int64
			sum   pgtype.Numeric
		)
		if err := rows.Scan(&typ, &count, &sum); err != nil {
			return nil, err
		}
		totals = append(totals, usecase.TypeTotal{
			Type:  domain.TransactionType(typ),
			Count: count,
			Total: numericToDecimal(sum),
		})
	}

	return totals, rows.Err()
}

// CountPending counts transactions awaiting sign-off on the account.
func (r *TransactionRepository) CountPending(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM transactions
		WHERE account_id = $1 AND requires_approval AND approval_status = 'pending'`,
		accountID,
	).Scan(&count)

	return count, err
}

// CategoryBreakdown aggregates approved expense amounts per category.
func (r *TransactionRepository) CategoryBreakdown(ctx context.Context, accountID string, from, to time.Time) ([]usecase.CategoryTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.category_id, COALESCE(c.name, ''), COUNT(*), COALESCE(SUM(t.amount), 0)
		FROM transactions t
		LEFT JOIN expense_categories c ON c.id = t.category_id
		WHERE t.account_id = $1 AND t.type = 'expense' AND t.approval_status = 'approved'
		  AND t.category_id IS NOT NULL
		  AND t.occurred_at >= $2 AND t.occurred_at <= $3
		GROUP BY t.category_id, c.name
		ORDER BY SUM(t.amount) DESC`,
		accountID, timeToPgTimestamptz(from), timeToPgTimestamptz(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.CategoryTotal
	for rows.Next() {
		var (
			ct  usecase.CategoryTotal
			sum pgtype.Numeric
		)
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Count, &sum); err != nil {
			return nil, err
		}
		ct.Total = numericToDecimal(sum)
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}

// DailyTotals aggregates approved expense amounts per calendar day.
func (r *TransactionRepository) DailyTotals(ctx context.Context, accountID string, from, to time.Time) ([]usecase.DailyTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', occurred_at) AS day, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1 AND type = 'expense' AND approval_status = 'approved'
		  AND occurred_at >= $2 AND occurred_at <= $3
		GROUP BY day
		ORDER BY day`,
		accountID, timeToPgTimestamptz(from), timeToPgTimestamptz(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.DailyTotal
	for rows.Next() {
		var (
			day   pgtype.Timestamptz
			count int64
			sum   pgtype.Numeric
		)
		if err := rows.Scan(&day, &count, &sum); err != nil {
			return nil, err
		}
		totals = append(totals, usecase.DailyTotal{
			Day:   day.Time,
			Count: count,
			Total: numericToDecimal(sum),
		})
	}

	return totals, rows.Err()
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn           domain.Transaction
		typ           string
		occurredAt    pgtype.Timestamptz
		amount        pgtype.Numeric
		balanceBefore pgtype.Numeric
		balanceAfter  pgtype.Numeric
		taxRate       pgtype.Numeric
		taxAmount     pgtype.Numeric
		status        string
		approvedAt    pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&typ,
		&occurredAt,
		&amount,
		&balanceBefore,
		&balanceAfter,
		&txn.CategoryID,
		&txn.SubcategoryID,
		&txn.PaymentMethod,
		&taxRate,
		&taxAmount,
		&txn.RequiresApproval,
		&status,
		&txn.ApprovedBy,
		&approvedAt,
		&txn.RejectionReason,
		&txn.ReconciliationID,
		&txn.ExpenseID,
		&txn.IsReconciled,
		&txn.RecordedBy,
		&txn.Description,
		&txn.Notes,
		&txn.ReferenceNumber,
		&txn.AccountVersion,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Type = domain.TransactionType(typ)
	txn.OccurredAt = occurredAt.Time
	txn.Amount = numericToDecimal(amount)
	txn.BalanceBefore = numericToDecimal(balanceBefore)
	txn.BalanceAfter = numericToDecimal(balanceAfter)
	txn.TaxRate = numericToDecimal(taxRate)
	txn.TaxAmount = numericToDecimal(taxAmount)
	txn.ApprovalStatus = domain.ApprovalStatus(status)
	txn.ApprovedAt = pgTimestamptzToTimePtr(approvedAt)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
