package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/query"
)

func TestSearchQuery_OwnershipAlwaysFirst(t *testing.T) {
	userID := uuid.New()

	descriptors := []query.Descriptor{
		query.Unfiltered(query.SortDateDesc),
		query.Search("coffee"),
		mustFilter(t, "Food", "3", "2024"),
	}

	for _, d := range descriptors {
		stmt, args := searchQuery(userID, d)
		assert.Contains(t, stmt, "WHERE user_id = $1")
		require.NotEmpty(t, args)
		assert.Equal(t, userID, args[0])
	}
}

func TestSearchQuery_Unfiltered(t *testing.T) {
	userID := uuid.New()
	stmt, args := searchQuery(userID, query.Unfiltered(query.SortDateDesc))

	assert.Equal(t,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY occurred_on DESC, created_at ASC, id ASC`,
		stmt,
	)
	assert.Equal(t, []any{userID}, args)
}

func TestSearchQuery_Keyword(t *testing.T) {
	userID := uuid.New()
	stmt, args := searchQuery(userID, query.Search("coffee"))

	assert.Contains(t, stmt, "(description ILIKE $2 OR category ILIKE $2)")
	require.Len(t, args, 2)
	assert.Equal(t, "%coffee%", args[1])
}

func TestSearchQuery_KeywordEscapesLikeMetacharacters(t *testing.T) {
	userID := uuid.New()
	_, args := searchQuery(userID, query.Search("50%_off"))

	require.Len(t, args, 2)
	assert.Equal(t, `%50\%\_off%`, args[1])
}

func TestSearchQuery_CategoryAndDates(t *testing.T) {
	userID := uuid.New()
	d := mustFilter(t, "Food", "3", "2024")

	stmt, args := searchQuery(userID, d)

	assert.Contains(t, stmt, "LOWER(category) = LOWER($2)")
	assert.Contains(t, stmt, "occurred_on BETWEEN $3 AND $4")
	require.Len(t, args, 4)
	assert.Equal(t, "Food", args[1])
	assert.Equal(t, "2024-03-01", args[2].(time.Time).Format("2006-01-02"))
	assert.Equal(t, "2024-03-31", args[3].(time.Time).Format("2006-01-02"))
}

func TestSearchQuery_DatesOnly(t *testing.T) {
	userID := uuid.New()
	d := mustFilter(t, "", "feb", "2023")

	stmt, args := searchQuery(userID, d)

	assert.NotContains(t, stmt, "LOWER(category)")
	assert.Contains(t, stmt, "occurred_on BETWEEN $2 AND $3")
	require.Len(t, args, 3)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "occurred_on DESC, created_at ASC, id ASC", orderClause(query.SortDateDesc))
	assert.Equal(t, "amount ASC, created_at ASC, id ASC", orderClause(query.SortAmountAsc))
}

func mustFilter(t *testing.T, category, month, year string) query.Descriptor {
	t.Helper()
	d, err := query.Filter(category, month, year, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return d
}
