// internal/analytics/summary.go
package analytics

import (
	"expense-tracker/internal/domain"
	"time"
)

// Summarize aggregates the full expense set. It is a pure function; "now"
// anchors the recent-month window.
func Summarize(expenses []domain.Expense, now time.Time) domain.AnalyticsSummary {
	summary := domain.AnalyticsSummary{
		CategoryTotals: make(map[string]float64),
	}
	if len(expenses) == 0 {
		return summary
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
		summary.CategoryTotals[e.Category] += e.Amount
	}
	summary.TotalAmount = total
	summary.TotalCount = len(expenses)
	summary.AverageAmount = total / float64(len(expenses))

	// Unparseable dates never match the recent window. Comparison happens at
	// calendar-date granularity, like the stored date strings.
	oneMonthAgo := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	for _, e := range expenses {
		if d, ok := domain.ParseDate(e.Date); ok && d.After(oneMonthAgo) {
			summary.RecentMonthTotal += e.Amount
		}
	}

	return summary
}
