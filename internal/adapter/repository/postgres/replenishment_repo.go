package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// ReplenishmentRepository implements usecase.ReplenishmentRepository.
type ReplenishmentRepository struct {
	pool *pgxpool.Pool
}

// NewReplenishmentRepository creates a new ReplenishmentRepository.
func NewReplenishmentRepository(pool *pgxpool.Pool) *ReplenishmentRepository {
	return &ReplenishmentRepository{pool: pool}
}

const replenishmentColumns = `id, account_id, requested_amount, approved_amount, balance_at_request,
	justification, status, requested_by, approved_by, approved_at,
	disbursed_by, disbursed_at, disbursement_method, reference_number,
	transaction_id, notes, created_at, updated_at`

// Create inserts a replenishment request.
func (r *ReplenishmentRepository) Create(ctx context.Context, tx usecase.Transaction, repl *domain.Replenishment) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO replenishments (`+replenishmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		repl.ID,
		repl.AccountID,
		decimalToNumeric(repl.RequestedAmount),
		decimalPtrToNumeric(repl.ApprovedAmount),
		decimalToNumeric(repl.BalanceAtRequest),
		repl.Justification,
		string(repl.Status),
		repl.RequestedBy,
		repl.ApprovedBy,
		timePtrToPgTimestamptz(repl.ApprovedAt),
		repl.DisbursedBy,
		timePtrToPgTimestamptz(repl.DisbursedAt),
		repl.DisbursementMethod,
		repl.ReferenceNumber,
		repl.TransactionID,
		repl.Notes,
		timeToPgTimestamptz(repl.CreatedAt),
		timeToPgTimestamptz(repl.UpdatedAt),
	)

	return err
}

// GetByID retrieves a replenishment by ID.
func (r *ReplenishmentRepository) GetByID(ctx context.Context, id string) (*domain.Replenishment, error) {
	return scanReplenishment(r.pool.QueryRow(ctx, `
		SELECT `+replenishmentColumns+` FROM replenishments WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a replenishment by ID with a FOR UPDATE lock.
func (r *ReplenishmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Replenishment, error) {
	return scanReplenishment(txQuerier(tx).QueryRow(ctx, `
		SELECT `+replenishmentColumns+` FROM replenishments WHERE id = $1 FOR UPDATE`, id))
}

// Update persists the mutable replenishment fields.
func (r *ReplenishmentRepository) Update(ctx context.Context, tx usecase.Transaction, repl *domain.Replenishment) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE replenishments SET
			approved_amount = $2, status = $3, approved_by = $4, approved_at = $5,
			disbursed_by = $6, disbursed_at = $7, disbursement_method = $8,
			reference_number = $9, transaction_id = $10, notes = $11, updated_at = $12
		WHERE id = $1`,
		repl.ID,
		decimalPtrToNumeric(repl.ApprovedAmount),
		string(repl.Status),
		repl.ApprovedBy,
		timePtrToPgTimestamptz(repl.ApprovedAt),
		repl.DisbursedBy,
		timePtrToPgTimestamptz(repl.DisbursedAt),
		repl.DisbursementMethod,
		repl.ReferenceNumber,
		repl.TransactionID,
		repl.Notes,
		timeToPgTimestamptz(repl.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReplenishmentNotFound
	}

	return nil
}

// ListByAccount lists replenishments for an account, newest first.
func (r *ReplenishmentRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Replenishment, error) {
	return r.queryReplenishments(ctx, `
		SELECT `+replenishmentColumns+`
		FROM replenishments
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
}

// ListByStatus lists replenishments in one state, oldest first so approvers
// work the queue in order.
func (r *ReplenishmentRepository) ListByStatus(ctx context.Context, status domain.ReplenishmentStatus, limit, offset int) ([]*domain.Replenishment, error) {
	return r.queryReplenishments(ctx, `
		SELECT `+replenishmentColumns+`
		FROM replenishments
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`,
		string(status), limit, offset,
	)
}

func (r *ReplenishmentRepository) queryReplenishments(ctx context.Context, query string, args ...any) ([]*domain.Replenishment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repls []*domain.Replenishment
	for rows.Next() {
		repl, err := scanReplenishment(rows)
		if err != nil {
			return nil, err
		}
		repls = append(repls, repl)
	}

	return repls, rows.Err()
}

func scanReplenishment(row pgx.Row) (*domain.Replenishment, error) {
	var (
		repl        domain.Replenishment
		requested   pgtype.Numeric
		approved    pgtype.Numeric
		atRequest   pgtype.Numeric
		status      string
		approvedAt  pgtype.Timestamptz
		disbursedAt pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&repl.ID,
		&repl.AccountID,
		&requested,
		&approved,
		&atRequest,
		&repl.Justification,
		&status,
		&repl.RequestedBy,
		&repl.ApprovedBy,
		&approvedAt,
		&repl.DisbursedBy,
		&disbursedAt,
		&repl.DisbursementMethod,
		&repl.ReferenceNumber,
		&repl.TransactionID,
		&repl.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReplenishmentNotFound
		}

		return nil, err
	}

	repl.RequestedAmount = numericToDecimal(requested)
	repl.ApprovedAmount = numericToDecimalPtr(approved)
	repl.BalanceAtRequest = numericToDecimal(atRequest)
	repl.Status = domain.ReplenishmentStatus(status)
	repl.ApprovedAt = pgTimestamptzToTimePtr(approvedAt)
	repl.DisbursedAt = pgTimestamptzToTimePtr(disbursedAt)
	repl.CreatedAt = createdAt.Time
	repl.UpdatedAt = updatedAt.Time

	return &repl, nil
}
