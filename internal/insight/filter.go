// internal/insight/filter.go
package insight

import (
	"sort"
	"strings"
	"time"

	"expense-tracker/internal/domain"
)

// categoryVocabulary is scanned in order; the first term found in the query
// selects the category filter.
var categoryVocabulary = []string{
	"food", "grocery", "transport", "entertainment", "utilities", "shopping", "health",
}

// Relevant selects the bounded working set for a classified query.
// Expenses with unparseable dates never match a date window.
func Relevant(query string, all []domain.Expense, queryType QueryType, now time.Time) []domain.Expense {
	q := strings.ToLower(query)

	switch queryType {
	case RecentActivity:
		return recentExpenses(all, q, now)
	case CategoryAnalysis:
		return categoryExpenses(all, q)
	case SpendingTrends:
		return trendExpenses(all, now)
	case BudgetInsights:
		return budgetExpenses(all, now)
	default:
		return mostRecent(all, 50)
	}
}

func recentExpenses(all []domain.Expense, q string, now time.Time) []domain.Expense {
	var cutoff time.Time
	switch {
	case strings.Contains(q, "today"):
		cutoff = now
	case strings.Contains(q, "week"):
		cutoff = now.AddDate(0, 0, -7)
	case strings.Contains(q, "month"):
		cutoff = now.AddDate(0, -1, 0)
	default:
		cutoff = now.AddDate(0, 0, -14)
	}
	// Cutoffs compare against midnight of the calendar date.
	cutoff = truncateToDay(cutoff)

	var out []domain.Expense
	for _, e := range all {
		if d, ok := domain.ParseDate(e.Date); ok && !d.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

func categoryExpenses(all []domain.Expense, q string) []domain.Expense {
	for _, term := range categoryVocabulary {
		if !strings.Contains(q, term) {
			continue
		}
		var out []domain.Expense
		for _, e := range all {
			if strings.Contains(strings.ToLower(e.Category), term) {
				out = append(out, e)
			}
		}
		return out
	}
	// No vocabulary term in the query: fall back to the first 100 in store order.
	if len(all) > 100 {
		return all[:100]
	}
	return all
}

func trendExpenses(all []domain.Expense, now time.Time) []domain.Expense {
	threeMonthsAgo := truncateToDay(now).AddDate(0, -3, 0)
	var out []domain.Expense
	for _, e := range all {
		if d, ok := domain.ParseDate(e.Date); ok && d.After(threeMonthsAgo) {
			out = append(out, e)
		}
	}
	return out
}

// budgetExpenses unions last month's expenses with the 20 highest amounts
// overall, deduplicated by id.
func budgetExpenses(all []domain.Expense, now time.Time) []domain.Expense {
	oneMonthAgo := truncateToDay(now).AddDate(0, -1, 0)

	seen := make(map[int64]bool)
	var out []domain.Expense
	for _, e := range all {
		if d, ok := domain.ParseDate(e.Date); ok && d.After(oneMonthAgo) {
			seen[e.ID] = true
			out = append(out, e)
		}
	}

	top := make([]domain.Expense, len(all))
	copy(top, all)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
	for i := 0; i < len(top) && i < 20; i++ {
		if !seen[top[i].ID] {
			seen[top[i].ID] = true
			out = append(out, top[i])
		}
	}
	return out
}

// mostRecent sorts by date descending and keeps the first n. When a date in
// a pair fails to parse, the pair falls back to descending string order.
func mostRecent(all []domain.Expense, n int) []domain.Expense {
	out := make([]domain.Expense, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool {
		return dateLess(out[j], out[i])
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// dateLess orders a before b by calendar date, falling back to lexicographic
// comparison when either date is unparseable.
func dateLess(a, b domain.Expense) bool {
	da, oka := domain.ParseDate(a.Date)
	db, okb := domain.ParseDate(b.Date)
	if oka && okb {
		return da.Before(db)
	}
	return a.Date < b.Date
}

// truncateToDay normalizes to midnight UTC so comparisons against parsed
// ISO dates work at calendar-date granularity.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
