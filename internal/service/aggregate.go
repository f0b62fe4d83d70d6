package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/query"
)

// Summary sums the user's full ledger by kind, ignoring whatever filter the
// client is currently browsing with. Kinds with no records are not emitted.
func (s *ExpenseService) Summary(ctx context.Context, userID uuid.UUID) ([]domain.KindTotal, error) {
	expenses, err := s.expenses.Search(ctx, userID, query.Unfiltered(query.SortDateDesc))
	if err != nil {
		return nil, fmt.Errorf("Summary: %w", err)
	}
	stats := foldStatistics(expenses)
	return stats.ByKind, nil
}

// Statistics computes the three groupings over the user's full ledger.
func (s *ExpenseService) Statistics(ctx context.Context, userID uuid.UUID) (*domain.Statistics, error) {
	expenses, err := s.expenses.Search(ctx, userID, query.Unfiltered(query.SortDateDesc))
	if err != nil {
		return nil, fmt.Errorf("Statistics: %w", err)
	}
	stats := foldStatistics(expenses)
	return &stats, nil
}

// foldStatistics accumulates all three groupings in a single pass so the
// aggregation stays O(N) no matter how many facets are reported. Group keys
// are emitted in sorted order so output is deterministic. The grand total is
// absent, not zero, for an empty ledger.
func foldStatistics(expenses []domain.Expense) domain.Statistics {
	byKind := make(map[domain.Kind]decimal.Decimal)
	byCategory := make(map[string]decimal.Decimal)
	grand := decimal.Zero

	for i := range expenses {
		e := &expenses[i]
		byKind[e.Kind] = byKind[e.Kind].Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		grand = grand.Add(e.Amount)
	}

	stats := domain.Statistics{
		ByKind:     make([]domain.KindTotal, 0, len(byKind)),
		ByCategory: make([]domain.CategoryTotal, 0, len(byCategory)),
	}

	for kind, total := range byKind {
		stats.ByKind = append(stats.ByKind, domain.KindTotal{Kind: kind, Total: total})
	}
	sort.Slice(stats.ByKind, func(i, j int) bool {
		return stats.ByKind[i].Kind < stats.ByKind[j].Kind
	})

	for category, total := range byCategory {
		stats.ByCategory = append(stats.ByCategory, domain.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		return stats.ByCategory[i].Category < stats.ByCategory[j].Category
	})

	if len(expenses) > 0 {
		stats.GrandTotal = &grand
	}
	return stats
}
