package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hmorten/spendtrack/spendtrack-backend/internal/domain"
)

const expenseColumns = "id, amount, description, expense_date, category, user_id, created_at, updated_at"

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// EnsureSchema creates the expenses table and its indexes if they do not
// exist. The indexes mirror the access paths: owner+date for listing,
// owner+category for filtering and grouping.
func EnsureSchema(pool *pgxpool.Pool) error {
	ctx := context.Background()
	statements := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			amount NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
			description VARCHAR(500) NOT NULL,
			expense_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			category TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT 'default_user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses (user_id, expense_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_category ON expenses (user_id, category)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new expense and returns the stored row
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (amount, description, expense_date, category, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+expenseColumns,
		amount, expense.Description, expense.Date, string(expense.Category), expense.UserID,
	)
	return scanExpense(row)
}

// GetByID retrieves an expense by its identifier
func (r *ExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true},
	)
	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// List retrieves the expenses matching the filter, newest first
func (r *ExpenseRepository) List(filter *domain.ExpenseFilter) ([]*domain.Expense, error) {
	ctx := context.Background()

	where, args := buildFilterClause(filter)
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses `+where+` ORDER BY expense_date DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update overwrites the mutable fields of an existing expense
func (r *ExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE expenses
		 SET amount = $2, description = $3, expense_date = $4, category = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+expenseColumns,
		pgtype.UUID{Bytes: expense.ID, Valid: true},
		amount, expense.Description, expense.Date, string(expense.Category),
	)
	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense by its identifier
func (r *ExpenseRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true},
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// CategoryTotals returns the sum and count of matching expenses grouped by
// category, ordered by descending total. Ties keep whatever order the store
// produces.
func (r *ExpenseRepository) CategoryTotals(filter *domain.ExpenseFilter) ([]*domain.CategoryTotal, error) {
	ctx := context.Background()

	where, args := buildFilterClause(filter)
	rows, err := r.pool.Query(ctx,
		`SELECT category, SUM(amount) AS total, COUNT(*) AS count
		 FROM expenses `+where+`
		 GROUP BY category
		 ORDER BY total DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]*domain.CategoryTotal, 0)
	for rows.Next() {
		var (
			category string
			total    pgtype.Numeric
			count    int64
		)
		if err := rows.Scan(&category, &total, &count); err != nil {
			return nil, err
		}
		totals = append(totals, &domain.CategoryTotal{
			Category: domain.Category(category),
			Total:    pgNumericToDecimal(total),
			Count:    count,
		})
	}
	return totals, rows.Err()
}

// OverallTotal returns the sum and count across all matching expenses.
// Zero matching rows yields a zero total, not an error.
func (r *ExpenseRepository) OverallTotal(filter *domain.ExpenseFilter) (*domain.SummaryTotal, error) {
	ctx := context.Background()

	where, args := buildFilterClause(filter)
	var (
		total pgtype.Numeric
		count int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses `+where,
		args...,
	).Scan(&total, &count)
	if err != nil {
		return nil, err
	}
	return &domain.SummaryTotal{
		Total: pgNumericToDecimal(total),
		Count: count,
	}, nil
}

// buildFilterClause translates an ExpenseFilter into a WHERE clause and its
// arguments. The owner is always constrained; category and the inclusive
// date range only when present.
func buildFilterClause(filter *domain.ExpenseFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}

	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("expense_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("expense_date <= $%d", len(args)))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Helper functions

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		id        pgtype.UUID
		amount    pgtype.Numeric
		category  string
		date      pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		expense   domain.Expense
	)
	err := row.Scan(&id, &amount, &expense.Description, &date, &category, &expense.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	expense.ID = uuid.UUID(id.Bytes)
	expense.Amount = pgNumericToDecimal(amount)
	expense.Category = domain.Category(category)
	expense.Date = date.Time
	expense.CreatedAt = createdAt.Time
	expense.UpdatedAt = updatedAt.Time
	return &expense, nil
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
