// Package query normalizes raw expense query parameters into a canonical,
// validated descriptor that the repository layer turns into a ledger scan.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
)

type SortKey string

const (
	SortDateDesc  SortKey = "date-desc"
	SortAmountAsc SortKey = "amount-asc"
)

type Mode int

const (
	// ModeAll scans the owner's full ledger with no filter.
	ModeAll Mode = iota
	// ModeSearch matches keyword as a case-insensitive substring of
	// description or category.
	ModeSearch
	// ModeFilter narrows by exact category and/or a month date range.
	// Search and filter are mutually exclusive request modes.
	ModeFilter
)

// DateRange is a closed interval over calendar dates, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Descriptor is the canonical form of a caller's filter/sort request.
// Only the fields belonging to Mode are populated.
type Descriptor struct {
	Mode     Mode
	Keyword  string
	Category string
	Dates    *DateRange
	Sort     SortKey
}

// monthNames resolves English month names and abbreviations. Three-letter
// abbreviations and full names are accepted, plus "sept".
var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseMonth resolves a month token to 1-12. Tokens may be numeric strings
// or case-insensitive English month names.
func ParseMonth(token string) (time.Month, error) {
	token = strings.ToLower(strings.TrimSpace(token))

	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("ParseMonth: %q out of range: %w", token, domain.ErrInvalidMonth)
		}
		return time.Month(n), nil
	}

	if m, ok := monthNames[token]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("ParseMonth: unknown token %q: %w", token, domain.ErrInvalidMonth)
}

// MonthRange computes the closed interval covering every day of the given
// month: [first day, last day]. Both bounds are dates at midnight; the store
// column is a date, so an inclusive comparison against End covers the whole
// last day.
func MonthRange(year int, month time.Month) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return DateRange{Start: start, End: end}
}

// ParseSort maps the raw "by" parameter to a sort key. Unknown values fall
// back to the date-desc default rather than failing.
func ParseSort(by string) SortKey {
	if strings.EqualFold(strings.TrimSpace(by), "amount") {
		return SortAmountAsc
	}
	return SortDateDesc
}

// Unfiltered returns the ownership-only descriptor with the given sort.
func Unfiltered(sort SortKey) Descriptor {
	return Descriptor{Mode: ModeAll, Sort: sort}
}

// Search builds a keyword-search descriptor. An empty keyword degrades to an
// unfiltered scan, matching a search request with no term.
func Search(keyword string) Descriptor {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Unfiltered(SortDateDesc)
	}
	return Descriptor{Mode: ModeSearch, Keyword: keyword, Sort: SortDateDesc}
}

// Filter builds a category/month descriptor. The month token is resolved via
// ParseMonth; a missing year defaults to the current year at now. Both
// category and month are optional, and with neither the descriptor degrades
// to an unfiltered scan.
func Filter(category, month, year string, now time.Time) (Descriptor, error) {
	d := Descriptor{Mode: ModeFilter, Sort: SortDateDesc}

	if c := strings.TrimSpace(category); c != "" {
		d.Category = c
	}

	if m := strings.TrimSpace(month); m != "" {
		mo, err := ParseMonth(m)
		if err != nil {
			return Descriptor{}, fmt.Errorf("Filter: %w", err)
		}

		y := now.Year()
		if yr := strings.TrimSpace(year); yr != "" {
			parsed, err := strconv.Atoi(yr)
			if err != nil {
				return Descriptor{}, fmt.Errorf("Filter: year %q: %w", yr, domain.ErrInvalidDate)
			}
			y = parsed
		}

		r := MonthRange(y, mo)
		d.Dates = &r
	}

	if d.Category == "" && d.Dates == nil {
		return Unfiltered(SortDateDesc), nil
	}
	return d, nil
}
