// internal/insight/prompt.go
package insight

import (
	"fmt"
	"sort"
	"strings"

	"expense-tracker/internal/domain"
)

const (
	maxPromptChars      = 3000
	truncationMarker    = "... [truncated]"
	maxDescriptionChars = 30
)

// BuildPrompt renders the filtered expense set into the structured prompt
// sent to the completion API. Output never exceeds maxPromptChars.
func BuildPrompt(expenses []domain.Expense, query string, queryType QueryType) string {
	var b strings.Builder
	b.WriteString("Analyze my expense data and answer: ")
	b.WriteString(query)
	b.WriteString("\n\n")

	if len(expenses) == 0 {
		b.WriteString("No expense data available for the requested criteria.")
		return b.String()
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	avg := total / float64(len(expenses))

	b.WriteString("EXPENSE SUMMARY:\n")
	fmt.Fprintf(&b, "Total: $%.2f | Count: %d | Average: $%.2f\n", total, len(expenses), avg)

	b.WriteString("\nCATEGORY BREAKDOWN:\n")
	for _, ct := range categoryTotalsDesc(expenses, 10) {
		pct := 0.0
		if total != 0 {
			pct = ct.amount / total * 100
		}
		fmt.Fprintf(&b, "- %s: $%.2f (%.1f%%)\n", ct.name, ct.amount, pct)
	}

	if queryType == SpendingTrends || queryType == General {
		writeMonthlyTrends(&b, expenses)
	}

	if len(expenses) <= 20 {
		b.WriteString("\nRECENT TRANSACTIONS:\n")
		recent := mostRecent(expenses, 15)
		for _, e := range recent {
			writeTransaction(&b, e)
		}
	} else {
		b.WriteString("\nTOP EXPENSES:\n")
		top := make([]domain.Expense, len(expenses))
		copy(top, expenses)
		sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
		for i := 0; i < len(top) && i < 10; i++ {
			writeTransaction(&b, top[i])
		}
	}

	b.WriteString("\nPlease provide specific insights and actionable recommendations.")

	return capPrompt(b.String())
}

// BuildQuickPrompt renders only the cached aggregate summary, no
// per-transaction detail.
func BuildQuickPrompt(summary domain.AnalyticsSummary, query string) string {
	var b strings.Builder
	b.WriteString("Based on my expense summary, answer: ")
	b.WriteString(query)
	b.WriteString("\n\n")

	if summary.TotalCount == 0 {
		b.WriteString("No expense data available.")
		return b.String()
	}

	b.WriteString("EXPENSE OVERVIEW:\n")
	fmt.Fprintf(&b, "Total Spent: $%.2f\n", summary.TotalAmount)
	fmt.Fprintf(&b, "Total Transactions: %d\n", summary.TotalCount)
	fmt.Fprintf(&b, "Average per Transaction: $%.2f\n", summary.AverageAmount)
	fmt.Fprintf(&b, "Recent Month: $%.2f\n", summary.RecentMonthTotal)

	if len(summary.CategoryTotals) > 0 {
		b.WriteString("\nTOP SPENDING CATEGORIES:\n")
		totals := make([]categoryTotal, 0, len(summary.CategoryTotals))
		for name, amount := range summary.CategoryTotals {
			totals = append(totals, categoryTotal{name: name, amount: amount})
		}
		sortCategoryTotals(totals)
		for i := 0; i < len(totals) && i < 8; i++ {
			fmt.Fprintf(&b, "- %s: $%.2f\n", totals[i].name, totals[i].amount)
		}
	}

	b.WriteString("\nProvide concise insights and recommendations.")
	return capPrompt(b.String())
}

type categoryTotal struct {
	name   string
	amount float64
}

func categoryTotalsDesc(expenses []domain.Expense, limit int) []categoryTotal {
	byName := make(map[string]float64)
	for _, e := range expenses {
		byName[e.Category] += e.Amount
	}
	totals := make([]categoryTotal, 0, len(byName))
	for name, amount := range byName {
		totals = append(totals, categoryTotal{name: name, amount: amount})
	}
	sortCategoryTotals(totals)
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}

func sortCategoryTotals(totals []categoryTotal) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].amount != totals[j].amount {
			return totals[i].amount > totals[j].amount
		}
		return totals[i].name < totals[j].name
	})
}

// writeMonthlyTrends groups by the YYYY-MM prefix of the date and emits the
// block only when at least two distinct months are present.
func writeMonthlyTrends(b *strings.Builder, expenses []domain.Expense) {
	byMonth := make(map[string]float64)
	for _, e := range expenses {
		byMonth[monthKey(e.Date)] += e.Amount
	}
	if len(byMonth) < 2 {
		return
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	b.WriteString("\nMONTHLY TRENDS:\n")
	for _, m := range months {
		fmt.Fprintf(b, "- %s: $%.2f\n", m, byMonth[m])
	}
}

func monthKey(date string) string {
	if _, ok := domain.ParseDate(date); ok {
		return date[:7]
	}
	if len(date) >= 7 {
		return date[:7]
	}
	return "Unknown"
}

func writeTransaction(b *strings.Builder, e domain.Expense) {
	desc := e.Description
	if len([]rune(desc)) > maxDescriptionChars {
		desc = string([]rune(desc)[:maxDescriptionChars]) + "..."
	}
	fmt.Fprintf(b, "- %s: $%.2f (%s) [%s]\n", desc, e.Amount, e.Category, e.Date)
}

// capPrompt bounds the prompt at maxPromptChars, marker included.
func capPrompt(s string) string {
	runes := []rune(s)
	if len(runes) <= maxPromptChars {
		return s
	}
	keep := maxPromptChars - len(truncationMarker)
	return string(runes[:keep]) + truncationMarker
}
