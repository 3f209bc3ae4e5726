// internal/domain/models.go
package domain

import "time"

// Expense is a single ledger record. Dates are kept as ISO-8601 strings;
// stored values may be malformed, so filters parse leniently.
type Expense struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AnalyticsSummary is derived from the full expense set, never stored.
type AnalyticsSummary struct {
	TotalAmount      float64            `json:"totalAmount"`
	TotalCount       int                `json:"totalCount"`
	AverageAmount    float64            `json:"averageAmount"`
	CategoryTotals   map[string]float64 `json:"categoryTotals"`
	RecentMonthTotal float64            `json:"recentMonthTotal"`
}

const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 date string. Malformed values report ok=false;
// date-range filters treat those records as unmatched rather than failing.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
