package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/query"
)

const expenseColumns = `id, user_id, amount, description, category, kind, occurred_on, created_at, updated_at`

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (
			id, user_id, amount, description, category, kind, occurred_on,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserID, e.Amount, e.Description, e.Category, e.Kind,
		e.OccurredOn, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return e, nil
}

// Search scans the owner's ledger with the filter and order described by the
// canonical descriptor.
func (r *ExpenseRepository) Search(ctx context.Context, userID uuid.UUID, d query.Descriptor) ([]domain.Expense, error) {
	stmt, args := searchQuery(userID, d)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("Search: scan: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Search: rows: %w", err)
	}
	return expenses, nil
}

// Update overwrites only the fields present in the patch; NULL arguments keep
// the stored value. The (id, user_id) scoping makes a record owned by someone
// else indistinguishable from a missing one.
func (r *ExpenseRepository) Update(ctx context.Context, id, userID uuid.UUID, p domain.ExpensePatch) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE expenses SET
			amount      = COALESCE($3, amount),
			description = COALESCE($4, description),
			category    = COALESCE($5, category),
			kind        = COALESCE($6, kind),
			occurred_on = COALESCE($7, occurred_on),
			updated_at  = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + expenseColumns,
		id, userID,
		nullDecimal(p.Amount), p.Description, p.Category, (*string)(p.Kind),
		p.OccurredOn,
	)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Update: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Update: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every record the user owns and reports how many went.
// Deleting an already-empty ledger is not an error.
func (r *ExpenseRepository) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE user_id = $1`, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: rows affected: %w", err)
	}
	return rows, nil
}

func scanExpense(s scanner) (*domain.Expense, error) {
	var e domain.Expense
	err := s.Scan(
		&e.ID, &e.UserID, &e.Amount, &e.Description, &e.Category, &e.Kind,
		&e.OccurredOn, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
