package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
)

func TestFoldStatistics_EmptyLedger(t *testing.T) {
	stats := foldStatistics(nil)

	assert.Empty(t, stats.ByKind)
	assert.Empty(t, stats.ByCategory)
	assert.Nil(t, stats.GrandTotal, "no grand total record for an empty ledger")
}

func TestFoldStatistics_Scenario(t *testing.T) {
	expenses := []domain.Expense{
		{Amount: decimal.NewFromInt(100), Kind: domain.KindExpense, Category: "Food"},
		{Amount: decimal.NewFromInt(500), Kind: domain.KindIncome, Category: "Salary"},
	}

	stats := foldStatistics(expenses)

	require.Len(t, stats.ByKind, 2)
	assert.Equal(t, domain.KindExpense, stats.ByKind[0].Kind)
	assert.Equal(t, "100", stats.ByKind[0].Total.String())
	assert.Equal(t, domain.KindIncome, stats.ByKind[1].Kind)
	assert.Equal(t, "500", stats.ByKind[1].Total.String())

	require.NotNil(t, stats.GrandTotal)
	assert.Equal(t, "600", stats.GrandTotal.String())
}

func TestFoldStatistics_OnlyPresentKindsEmitted(t *testing.T) {
	expenses := []domain.Expense{
		{Amount: decimal.NewFromInt(10), Kind: domain.KindExpense, Category: "Food"},
		{Amount: decimal.NewFromInt(20), Kind: domain.KindExpense, Category: "Rent"},
	}

	stats := foldStatistics(expenses)

	require.Len(t, stats.ByKind, 1)
	assert.Equal(t, domain.KindExpense, stats.ByKind[0].Kind)
	assert.Equal(t, "30", stats.ByKind[0].Total.String())
}

func TestFoldStatistics_CategoryGroupingIsCaseSensitive(t *testing.T) {
	expenses := []domain.Expense{
		{Amount: decimal.NewFromInt(10), Kind: domain.KindExpense, Category: "food"},
		{Amount: decimal.NewFromInt(20), Kind: domain.KindExpense, Category: "Food"},
	}

	stats := foldStatistics(expenses)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Food", stats.ByCategory[0].Category)
	assert.Equal(t, "food", stats.ByCategory[1].Category)
}

func TestFoldStatistics_GroupingsReconcile(t *testing.T) {
	expenses := []domain.Expense{
		{Amount: decimal.RequireFromString("19.99"), Kind: domain.KindExpense, Category: "Food"},
		{Amount: decimal.RequireFromString("1200"), Kind: domain.KindIncome, Category: "Salary"},
		{Amount: decimal.RequireFromString("350.50"), Kind: domain.KindExpense, Category: "Rent"},
		{Amount: decimal.RequireFromString("42.01"), Kind: domain.KindExpense, Category: "Food"},
		{Amount: decimal.RequireFromString("75"), Kind: domain.KindIncome, Category: "Gifts"},
	}

	stats := foldStatistics(expenses)

	sumKinds := decimal.Zero
	for _, kt := range stats.ByKind {
		sumKinds = sumKinds.Add(kt.Total)
	}
	sumCategories := decimal.Zero
	for _, ct := range stats.ByCategory {
		sumCategories = sumCategories.Add(ct.Total)
	}

	require.NotNil(t, stats.GrandTotal)
	assert.True(t, sumKinds.Equal(*stats.GrandTotal),
		"by-kind sum %s != grand total %s", sumKinds, stats.GrandTotal)
	assert.True(t, sumCategories.Equal(*stats.GrandTotal),
		"by-category sum %s != grand total %s", sumCategories, stats.GrandTotal)
}

func TestStatistics_IgnoresActiveFilterAndOtherOwners(t *testing.T) {
	repo := &fakeExpenseRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	seedExpense(t, svc, owner, "100", "Food", "expense", "2024-03-05")
	seedExpense(t, svc, owner, "500", "Salary", "income", "2023-11-20")
	seedExpense(t, svc, other, "999", "Food", "expense", "2024-03-05")

	stats, err := svc.Statistics(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, stats.GrandTotal)
	assert.Equal(t, "600", stats.GrandTotal.String())

	summary, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "100", summary[0].Total.String())
	assert.Equal(t, "500", summary[1].Total.String())
}
