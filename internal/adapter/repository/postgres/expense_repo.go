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

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts an expense record.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO expenses (
			id, account_id, category_id, subcategory_id, amount, tax_rate,
			tax_amount, payment_method, description, receipt_number,
			recorded_by, expense_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		expense.ID,
		expense.AccountID,
		expense.CategoryID,
		expense.SubcategoryID,
		decimalToNumeric(expense.Amount),
		decimalToNumeric(expense.TaxRate),
		decimalToNumeric(expense.TaxAmount),
		expense.PaymentMethod,
		expense.Description,
		expense.ReceiptNumber,
		expense.RecordedBy,
		timeToPgTimestamptz(expense.ExpenseDate),
		timeToPgTimestamptz(expense.CreatedAt),
	)

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	var (
		expense     domain.Expense
		amount      pgtype.Numeric
		taxRate     pgtype.Numeric
		taxAmount   pgtype.Numeric
		expenseDate pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, account_id, category_id, subcategory_id, amount, tax_rate,
			tax_amount, payment_method, description, receipt_number,
			recorded_by, expense_date, created_at
		FROM expenses WHERE id = $1`, id,
	).Scan(
		&expense.ID,
		&expense.AccountID,
		&expense.CategoryID,
		&expense.SubcategoryID,
		&amount,
		&taxRate,
		&taxAmount,
		&expense.PaymentMethod,
		&expense.Description,
		&expense.ReceiptNumber,
		&expense.RecordedBy,
		&expenseDate,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}

		return nil, err
	}

	expense.Amount = numericToDecimal(amount)
	expense.TaxRate = numericToDecimal(taxRate)
	expense.TaxAmount = numericToDecimal(taxAmount)
	expense.ExpenseDate = expenseDate.Time
	expense.CreatedAt = createdAt.Time

	return &expense, nil
}

// GetCategory retrieves an expense category by ID.
func (r *ExpenseRepository) GetCategory(ctx context.Context, id string) (*domain.ExpenseCategory, error) {
	category, err := scanCategory(r.pool.QueryRow(ctx, `
		SELECT id, name, description, is_active, created_at
		FROM expense_categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	return category, nil
}

// GetSubcategory retrieves an expense subcategory by ID.
func (r *ExpenseRepository) GetSubcategory(ctx context.Context, id string) (*domain.ExpenseSubcategory, error) {
	var (
		sub       domain.ExpenseSubcategory
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, category_id, name, is_active, created_at
		FROM expense_subcategories WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	sub.CreatedAt = createdAt.Time

	return &sub, nil
}

// ListCategories lists expense categories.
func (r *ExpenseRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*domain.ExpenseCategory, error) {
	query := `SELECT id, name, description, is_active, created_at FROM expense_categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.ExpenseCategory
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.ExpenseCategory, error) {
	var (
		category  domain.ExpenseCategory
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&category.ID, &category.Name, &category.Description, &category.IsActive, &createdAt); err != nil {
		return nil, err
	}
	category.CreatedAt = createdAt.Time

	return &category, nil
}
