package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/query"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/repository"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		u := testutil.SeedTestUser(t, db, "alice", "alice@test.com", domain.RoleUser)

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, got.Email)
		assert.Equal(t, domain.RoleUser, got.Role)

		byEmail, err := repo.GetByEmail(ctx, "alice@test.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		first := testutil.SeedTestUser(t, db, "bob", "bob@test.com", domain.RoleUser)

		clash := &domain.User{
			ID:           uuid.New(),
			Username:     "bobby",
			Email:        first.Email,
			PasswordHash: "x",
			Role:         domain.RoleUser,
			CreatedAt:    time.Now().UTC(),
		}
		err := repo.Create(ctx, clash)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})
}

func TestExpenseRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewExpenseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner", "owner@test.com", domain.RoleUser)
	other := testutil.SeedTestUser(t, db, "other", "other@test.com", domain.RoleUser)

	e := testutil.SeedExpense(t, db, owner.ID, "19.99", "weekly groceries", "Food", domain.KindExpense, date(2024, time.March, 5))

	got, err := repo.GetByID(ctx, e.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("19.99")), "amount survives the round trip exactly")
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, domain.KindExpense, got.Kind)
	assert.True(t, got.OccurredOn.Equal(date(2024, time.March, 5)))

	_, err = repo.GetByID(ctx, e.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "foreign records are invisible, not forbidden")
}

func TestExpenseRepository_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewExpenseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner", "owner@test.com", domain.RoleUser)
	intruder := testutil.SeedTestUser(t, db, "intruder", "intruder@test.com", domain.RoleUser)

	testutil.SeedExpense(t, db, owner.ID, "4.50", "Morning Coffee", "Drinks", domain.KindExpense, date(2024, time.March, 1))
	testutil.SeedExpense(t, db, owner.ID, "100.00", "groceries", "Food", domain.KindExpense, date(2024, time.March, 5))
	testutil.SeedExpense(t, db, owner.ID, "500.00", "march salary", "Salary", domain.KindIncome, date(2024, time.March, 20))
	testutil.SeedExpense(t, db, owner.ID, "25.00", "dinner", "food", domain.KindExpense, date(2024, time.April, 2))
	testutil.SeedExpense(t, db, intruder.ID, "9.99", "coffee beans", "Drinks", domain.KindExpense, date(2024, time.March, 1))

	t.Run("keyword is case-insensitive over description and category", func(t *testing.T) {
		got, err := repo.Search(ctx, owner.ID, query.Search("COFFEE"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Morning Coffee", got[0].Description)

		got, err = repo.Search(ctx, owner.ID, query.Search("sala"))
		require.NoError(t, err)
		require.Len(t, got, 1, "description and category match the same row once")
		assert.Equal(t, domain.KindIncome, got[0].Kind)
	})

	t.Run("keyword never leaks other ledgers", func(t *testing.T) {
		got, err := repo.Search(ctx, owner.ID, query.Search("coffee"))
		require.NoError(t, err)
		for _, e := range got {
			assert.Equal(t, owner.ID, e.UserID)
		}
	})

	t.Run("category filter ignores case", func(t *testing.T) {
		d, err := query.Filter("FOOD", "", "", time.Now())
		require.NoError(t, err)

		got, err := repo.Search(ctx, owner.ID, d)
		require.NoError(t, err)
		assert.Len(t, got, 2, "matches both Food and food")
	})

	t.Run("month window keeps only that month", func(t *testing.T) {
		d, err := query.Filter("", "march", "2024", time.Now())
		require.NoError(t, err)

		got, err := repo.Search(ctx, owner.ID, d)
		require.NoError(t, err)
		assert.Len(t, got, 3)
		for _, e := range got {
			assert.Equal(t, time.March, e.OccurredOn.Month())
		}
	})

	t.Run("category and month combine", func(t *testing.T) {
		d, err := query.Filter("food", "3", "2024", time.Now())
		require.NoError(t, err)

		got, err := repo.Search(ctx, owner.ID, d)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "groceries", got[0].Description)
	})

	t.Run("default order is newest first", func(t *testing.T) {
		got, err := repo.Search(ctx, owner.ID, query.Unfiltered(query.SortDateDesc))
		require.NoError(t, err)
		require.Len(t, got, 4)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i-1].OccurredOn.Before(got[i].OccurredOn))
		}
	})

	t.Run("amount sort is ascending", func(t *testing.T) {
		got, err := repo.Search(ctx, owner.ID, query.Unfiltered(query.SortAmountAsc))
		require.NoError(t, err)
		require.Len(t, got, 4)
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i-1].Amount.LessThanOrEqual(got[i].Amount))
		}
	})
}

func TestExpenseRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewExpenseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner", "owner@test.com", domain.RoleUser)
	other := testutil.SeedTestUser(t, db, "other", "other@test.com", domain.RoleUser)

	e := testutil.SeedExpense(t, db, owner.ID, "10.00", "lunch", "Food", domain.KindExpense, date(2024, time.March, 5))

	t.Run("partial patch leaves other columns alone", func(t *testing.T) {
		newCategory := "Restaurants"
		got, err := repo.Update(ctx, e.ID, owner.ID, domain.ExpensePatch{Category: &newCategory})
		require.NoError(t, err)

		assert.Equal(t, "Restaurants", got.Category)
		assert.Equal(t, "lunch", got.Description)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, got.UpdatedAt.After(e.UpdatedAt))
	})

	t.Run("amount patch applies exactly", func(t *testing.T) {
		amount := decimal.RequireFromString("12.34")
		got, err := repo.Update(ctx, e.ID, owner.ID, domain.ExpensePatch{Amount: &amount})
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(amount))
	})

	t.Run("foreign record is not found", func(t *testing.T) {
		desc := "hijack"
		_, err := repo.Update(ctx, e.ID, other.ID, domain.ExpensePatch{Description: &desc})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := repo.GetByID(ctx, e.ID, owner.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "hijack", got.Description)
	})
}

func TestExpenseRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewExpenseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner", "owner@test.com", domain.RoleUser)
	other := testutil.SeedTestUser(t, db, "other", "other@test.com", domain.RoleUser)

	e := testutil.SeedExpense(t, db, owner.ID, "10.00", "lunch", "Food", domain.KindExpense, date(2024, time.March, 5))
	testutil.SeedExpense(t, db, owner.ID, "20.00", "dinner", "Food", domain.KindExpense, date(2024, time.March, 6))
	testutil.SeedExpense(t, db, other.ID, "30.00", "taxi", "Transport", domain.KindExpense, date(2024, time.March, 7))

	t.Run("delete is owner-scoped", func(t *testing.T) {
		err := repo.Delete(ctx, e.ID, other.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 2, testutil.CountExpenses(t, db, owner.ID))

		require.NoError(t, repo.Delete(ctx, e.ID, owner.ID))
		assert.Equal(t, 1, testutil.CountExpenses(t, db, owner.ID))

		err = repo.Delete(ctx, e.ID, owner.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "second delete of the same id")
	})

	t.Run("delete all clears only the caller", func(t *testing.T) {
		count, err := repo.DeleteAll(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, 0, testutil.CountExpenses(t, db, owner.ID))
		assert.Equal(t, 1, testutil.CountExpenses(t, db, other.ID))

		count, err = repo.DeleteAll(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count, "clearing an empty ledger succeeds")
	})
}

func TestExpenseRepository_CascadeOnUserDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)

	owner := testutil.SeedTestUser(t, db, "owner", "owner@test.com", domain.RoleUser)
	testutil.SeedExpense(t, db, owner.ID, "10.00", "lunch", "Food", domain.KindExpense, date(2024, time.March, 5))

	_, err := db.Exec(`DELETE FROM users WHERE id = $1`, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, testutil.CountExpenses(t, db, owner.ID))
}

func TestExpenseRepository_RejectsBadRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.SeedTestUser(t, db, "owner", "owner@test.com", domain.RoleUser)

	_, err := db.Exec(
		`INSERT INTO expenses (id, user_id, amount, description, category, kind, occurred_on)
		 VALUES (gen_random_uuid(), $1, -5, 'bad', 'Food', 'expense', '2024-03-05')`,
		owner.ID,
	)
	require.Error(t, err, "schema rejects non-positive amounts")

	_, err = db.Exec(
		`INSERT INTO expenses (id, user_id, amount, description, category, kind, occurred_on)
		 VALUES (gen_random_uuid(), $1, 5, 'bad', 'Food', 'transfer', '2024-03-05')`,
		owner.ID,
	)
	require.Error(t, err, "schema rejects unknown kinds")
}
