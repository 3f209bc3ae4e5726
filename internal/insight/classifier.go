// internal/insight/classifier.go
package insight

import "strings"

// QueryType buckets a free-text question so the filter can pick a bounded
// working set of expenses.
type QueryType int

const (
	SpendingTrends QueryType = iota
	CategoryAnalysis
	BudgetInsights
	RecentActivity
	General
)

func (t QueryType) String() string {
	switch t {
	case SpendingTrends:
		return "SPENDING_TRENDS"
	case CategoryAnalysis:
		return "CATEGORY_ANALYSIS"
	case BudgetInsights:
		return "BUDGET_INSIGHTS"
	case RecentActivity:
		return "RECENT_ACTIVITY"
	default:
		return "GENERAL"
	}
}

// Classify maps a question to a query type. Matching is case-insensitive
// substring, first match wins in this fixed priority order.
func Classify(query string) QueryType {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, "trend", "pattern", "over time"):
		return SpendingTrends
	case containsAny(q, "category", "type", "breakdown"):
		return CategoryAnalysis
	case containsAny(q, "budget", "saving", "reduce", "cut"):
		return BudgetInsights
	case containsAny(q, "recent", "today", "week", "month"):
		return RecentActivity
	default:
		return General
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
