package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// ReconciliationRepository implements usecase.ReconciliationRepository.
type ReconciliationRepository struct {
	pool *pgxpool.Pool
}

// NewReconciliationRepository creates a new ReconciliationRepository.
func NewReconciliationRepository(pool *pgxpool.Pool) *ReconciliationRepository {
	return &ReconciliationRepository{pool: pool}
}

const reconciliationColumns = `id, account_id, reconciliation_date, period_start, period_end,
	opening_balance, expected_balance, actual_balance, variance,
	total_receipts, total_payments, transaction_count, status,
	variance_reason, reconciled_by, approved_by, created_at, updated_at`

// Create inserts a reconciliation record.
func (r *ReconciliationRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.Reconciliation) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO reconciliations (`+reconciliationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		rec.ID,
		rec.AccountID,
		timeToPgTimestamptz(rec.ReconciliationDate),
		timeToPgTimestamptz(rec.PeriodStart),
		timeToPgTimestamptz(rec.PeriodEnd),
		decimalToNumeric(rec.OpeningBalance),
		decimalToNumeric(rec.ExpectedBalance),
		decimalToNumeric(rec.ActualBalance),
		decimalToNumeric(rec.Variance),
		decimalToNumeric(rec.TotalReceipts),
		decimalToNumeric(rec.TotalPayments),
		rec.TransactionCount,
		string(rec.Status),
		rec.VarianceReason,
		rec.ReconciledBy,
		rec.ApprovedBy,
		timeToPgTimestamptz(rec.CreatedAt),
		timeToPgTimestamptz(rec.UpdatedAt),
	)

	return err
}

// GetByID retrieves a reconciliation by ID.
func (r *ReconciliationRepository) GetByID(ctx context.Context, id string) (*domain.Reconciliation, error) {
	return scanReconciliation(r.pool.QueryRow(ctx, `
		SELECT `+reconciliationColumns+` FROM reconciliations WHERE id = $1`, id))
}

// UpdateStatus resolves a reconciliation.
func (r *ReconciliationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ReconciliationStatus, approvedBy *string, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE reconciliations SET status = $2, approved_by = $3, updated_at = $4
		WHERE id = $1`,
		id, string(status), approvedBy, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReconciliationNotFound
	}

	return nil
}

// ListByAccount lists reconciliations for an account, newest first.
func (r *ReconciliationRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Reconciliation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reconciliationColumns+`
		FROM reconciliations
		WHERE account_id = $1
		ORDER BY reconciliation_date DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*domain.Reconciliation
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// CountByAccount counts reconciliations recorded for an account.
func (r *ReconciliationRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM reconciliations WHERE account_id = $1`, accountID,
	).Scan(&count)

	return count, err
}

func scanReconciliation(row pgx.Row) (*domain.Reconciliation, error) {
	var (
		rec                domain.Reconciliation
		reconciliationDate pgtype.Timestamptz
		periodStart        pgtype.Timestamptz
		periodEnd          pgtype.Timestamptz
		opening            pgtype.Numeric
		expected           pgtype.Numeric
		actual             pgtype.Numeric
		variance           pgtype.Numeric
		receipts           pgtype.Numeric
		payments           pgtype.Numeric
		status             string
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&rec.ID,
		&rec.AccountID,
		&reconciliationDate,
		&periodStart,
		&periodEnd,
		&opening,
		&expected,
		&actual,
		&variance,
		&receipts,
		&payments,
		&rec.TransactionCount,
		&status,
		&rec.VarianceReason,
		&rec.ReconciledBy,
		&rec.ApprovedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReconciliationNotFound
		}

		return nil, err
	}

	rec.ReconciliationDate = reconciliationDate.Time
	rec.PeriodStart = periodStart.Time
	rec.PeriodEnd = periodEnd.Time
	rec.OpeningBalance = numericToDecimal(opening)
	rec.ExpectedBalance = numericToDecimal(expected)
	rec.ActualBalance = numericToDecimal(actual)
	rec.Variance = numericToDecimal(variance)
	rec.TotalReceipts = numericToDecimal(receipts)
	rec.TotalPayments = numericToDecimal(payments)
	rec.Status = domain.ReconciliationStatus(status)
	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return &rec, nil
}
