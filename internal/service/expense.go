package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/logging"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/query"
)

type expenseRepo interface {
	Create(ctx context.Context, e *domain.Expense) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Expense, error)
	Search(ctx context.Context, userID uuid.UUID, d query.Descriptor) ([]domain.Expense, error)
	Update(ctx context.Context, id, userID uuid.UUID, p domain.ExpensePatch) (*domain.Expense, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type userChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ExpenseService guards every mutation and owner-scoped read of the ledger.
// The clock is injected so month filters that default to the current year
// stay deterministic under test.
type ExpenseService struct {
	expenses expenseRepo
	users    userChecker
	now      func() time.Time
}

func NewExpenseService(expenses expenseRepo, users userChecker, now func() time.Time) *ExpenseService {
	if now == nil {
		now = time.Now
	}
	return &ExpenseService{expenses: expenses, users: users, now: now}
}

type CreateExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Kind        domain.Kind
	OccurredOn  time.Time
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID uuid.UUID, in CreateExpenseInput) (*domain.Expense, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("CreateExpense: %w", domain.ErrInvalidAmount)
	}
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("CreateExpense: %w", domain.ErrInvalidKind)
	}
	if strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("CreateExpense: %w", domain.ErrInvalidRequest)
	}
	if in.OccurredOn.IsZero() {
		return nil, fmt.Errorf("CreateExpense: %w", domain.ErrInvalidDate)
	}

	now := s.now().UTC()
	e := &domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Kind:        in.Kind,
		OccurredOn:  in.OccurredOn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("CreateExpense: %w", err)
	}

	logging.FromContext(ctx).Info("expense created",
		"expense_id", e.ID,
		"kind", e.Kind,
		"category", e.Category,
	)
	return e, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id, userID uuid.UUID) (*domain.Expense, error) {
	e, err := s.expenses.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("GetExpense: %w", err)
	}
	return e, nil
}

// ListExpenses runs a normalized query descriptor against the caller's
// ledger.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID uuid.UUID, d query.Descriptor) ([]domain.Expense, error) {
	expenses, err := s.expenses.Search(ctx, userID, d)
	if err != nil {
		return nil, fmt.Errorf("ListExpenses: %w", err)
	}
	return expenses, nil
}

// FilterExpenses normalizes raw category/month/year parameters and runs the
// resulting descriptor. A missing year defaults to the current year.
func (s *ExpenseService) FilterExpenses(ctx context.Context, userID uuid.UUID, category, month, year string) ([]domain.Expense, error) {
	d, err := query.Filter(category, month, year, s.now())
	if err != nil {
		return nil, fmt.Errorf("FilterExpenses: %w", err)
	}
	return s.ListExpenses(ctx, userID, d)
}

// UserLedger returns another user's full ledger. Callers must gate this
// behind an admin check; the service only verifies the target exists.
func (s *ExpenseService) UserLedger(ctx context.Context, targetUserID uuid.UUID) ([]domain.Expense, error) {
	if _, err := s.users.GetByID(ctx, targetUserID); err != nil {
		return nil, fmt.Errorf("UserLedger: %w", err)
	}
	expenses, err := s.expenses.Search(ctx, targetUserID, query.Unfiltered(query.SortDateDesc))
	if err != nil {
		return nil, fmt.Errorf("UserLedger: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, id, userID uuid.UUID, p domain.ExpensePatch) (*domain.Expense, error) {
	if err := validatePatch(p); err != nil {
		return nil, fmt.Errorf("UpdateExpense: %w", err)
	}

	// An empty patch changes nothing; just return the record.
	if p.IsZero() {
		return s.GetExpense(ctx, id, userID)
	}

	e, err := s.expenses.Update(ctx, id, userID, p)
	if err != nil {
		return nil, fmt.Errorf("UpdateExpense: %w", err)
	}
	return e, nil
}

func validatePatch(p domain.ExpensePatch) error {
	if p.Amount != nil && !p.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if p.Kind != nil && !p.Kind.IsValid() {
		return domain.ErrInvalidKind
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return domain.ErrInvalidRequest
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return domain.ErrInvalidRequest
	}
	if p.OccurredOn != nil && p.OccurredOn.IsZero() {
		return domain.ErrInvalidDate
	}
	return nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.expenses.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("DeleteExpense: %w", err)
	}
	logging.FromContext(ctx).Info("expense deleted", "expense_id", id)
	return nil
}

// DeleteAllExpenses clears the caller's ledger and reports how many records
// were removed. A second call removes zero and still succeeds.
func (s *ExpenseService) DeleteAllExpenses(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.expenses.DeleteAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("DeleteAllExpenses: %w", err)
	}
	logging.FromContext(ctx).Info("ledger cleared", "removed", count)
	return count, nil
}
