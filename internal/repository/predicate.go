package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/query"
)

// searchQuery translates a canonical query descriptor into the SQL scan over
// the caller's ledger. The ownership conjunct always comes first and is never
// optional; the remaining conjuncts depend on the descriptor's mode.
func searchQuery(userID uuid.UUID, d query.Descriptor) (string, []any) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	switch d.Mode {
	case query.ModeSearch:
		args = append(args, "%"+escapeLike(d.Keyword)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(description ILIKE $%d OR category ILIKE $%d)", n, n))
	case query.ModeFilter:
		if d.Category != "" {
			args = append(args, d.Category)
			where = append(where, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)))
		}
		if d.Dates != nil {
			args = append(args, d.Dates.Start, d.Dates.End)
			where = append(where, fmt.Sprintf("occurred_on BETWEEN $%d AND $%d", len(args)-1, len(args)))
		}
	}

	return `SELECT ` + expenseColumns + ` FROM expenses WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + orderClause(d.Sort), args
}

// orderClause produces a total order: the requested sort key, with ties
// broken by creation order and finally by id so results are stable.
func orderClause(sort query.SortKey) string {
	if sort == query.SortAmountAsc {
		return "amount ASC, created_at ASC, id ASC"
	}
	return "occurred_on DESC, created_at ASC, id ASC"
}

// escapeLike neutralizes LIKE metacharacters so a keyword search is a plain
// substring match.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
