package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository. Entries are insert-only.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts an audit log outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.insert(ctx, r.pool, log)
}

// CreateTx inserts an audit log inside the caller's transaction, so the trail
// entry commits or rolls back with the operation it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.insert(ctx, txQuerier(tx), log)
}

func (r *AuditRepository) insert(ctx context.Context, q querier, log *domain.AuditLog) error {
	detail, err := json.Marshal(log.Detail)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO audit_logs (
			id, actor_id, action, resource_type, resource_id, request_id,
			detail, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		log.ID,
		log.ActorID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		detail,
		log.Status,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// ListByResource lists the audit trail for one resource, oldest first.
func (r *AuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, actor_id, action, resource_type, resource_id, request_id,
			detail, status, created_at
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at ASC`,
		resourceType, resourceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log       domain.AuditLog
			detail    []byte
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&log.ID,
			&log.ActorID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&detail,
			&log.Status,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if len(detail) > 0 {
			_ = json.Unmarshal(detail, &log.Detail)
		}
		log.CreatedAt = createdAt.Time
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
