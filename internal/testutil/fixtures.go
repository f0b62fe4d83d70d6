package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
)

// SeedTestUser inserts a user with a known password ("password123") and
// returns it.
func SeedTestUser(t *testing.T, db *sql.DB, username, email string, role domain.Role) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

// SeedExpense inserts a ledger record directly, bypassing the service layer.
func SeedExpense(t *testing.T, db *sql.DB, userID uuid.UUID, amount, description, category string, kind domain.Kind, occurredOn time.Time) *domain.Expense {
	t.Helper()

	now := time.Now().UTC()
	e := &domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Category:    category,
		Kind:        kind,
		OccurredOn:  occurredOn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := db.Exec(
		`INSERT INTO expenses (id, user_id, amount, description, category, kind, occurred_on, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserID, e.Amount, e.Description, e.Category, e.Kind, e.OccurredOn, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed expense %s/%s: %v", description, category, err)
	}
	return e
}

// CountExpenses reports how many records a user owns.
func CountExpenses(t *testing.T, db *sql.DB, userID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM expenses WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		t.Fatalf("count expenses for %s: %v", userID, err)
	}
	return count
}
