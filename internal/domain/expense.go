package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// Expense is a single dated transaction in a user's ledger. Amount is always
// positive; the direction of money flow is carried by Kind.
type Expense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Description string
	Category    string
	Kind        Kind
	OccurredOn  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpensePatch carries a partial update. Nil fields were not provided and
// leave the stored value untouched; a present field overwrites it. Wrapping
// every field in a pointer keeps "omitted" distinguishable from a zero value.
type ExpensePatch struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Kind        *Kind
	OccurredOn  *time.Time
}

// IsZero reports whether the patch carries no fields at all.
func (p ExpensePatch) IsZero() bool {
	return p.Amount == nil && p.Description == nil && p.Category == nil &&
		p.Kind == nil && p.OccurredOn == nil
}

// KindTotal is the sum of amounts across all of a user's records of one kind.
type KindTotal struct {
	Kind  Kind
	Total decimal.Decimal
}

// CategoryTotal is the sum of amounts per distinct category value. The
// grouping key is the stored category string, case preserved.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Statistics is the multi-facet aggregation over a user's full ledger:
// grouped sums by kind and by category, plus one grand total. GrandTotal is
// nil when the ledger is empty, mirroring the per-facet groupings which are
// simply absent rather than zero-filled.
type Statistics struct {
	ByKind     []KindTotal
	ByCategory []CategoryTotal
	GrandTotal *decimal.Decimal
}
