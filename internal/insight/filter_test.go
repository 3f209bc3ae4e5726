package insight

import (
	"fmt"
	"testing"
	"time"

	"expense-tracker/internal/domain"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ids(expenses []domain.Expense) []int64 {
	out := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.ID)
	}
	return out
}

func TestRelevant_RecentActivity(t *testing.T) {
	now := mustDate("2025-06-15")
	all := []domain.Expense{
		{ID: 1, Amount: 5, Date: "2025-06-15"},
		{ID: 2, Amount: 5, Date: "2025-06-14"},
		{ID: 3, Amount: 5, Date: "2025-06-08"},
		{ID: 4, Amount: 5, Date: "2025-06-07"},
		{ID: 5, Amount: 5, Date: "2025-05-30"},
		{ID: 6, Amount: 5, Date: "not-a-date"},
	}

	tests := []struct {
		query string
		want  []int64
	}{
		{"what did I buy today", []int64{1}},
		{"spending this week", []int64{1, 2, 3}},
		// No time word in the query: 14-day window.
		{"recent activity", []int64{1, 2, 3, 4}},
		{"this month", []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		got := Relevant(tt.query, all, RecentActivity, now)
		if fmt.Sprint(ids(got)) != fmt.Sprint(tt.want) {
			t.Errorf("Relevant(%q) = %v, want %v", tt.query, ids(got), tt.want)
		}
	}
}

func TestRelevant_CategoryAnalysis(t *testing.T) {
	now := mustDate("2025-06-15")
	all := []domain.Expense{
		{ID: 1, Category: "Fast Food", Date: "2025-06-01"},
		{ID: 2, Category: "Transport", Date: "2025-06-02"},
		{ID: 3, Category: "food delivery", Date: "2025-06-03"},
	}

	got := Relevant("how much on FOOD by category", all, CategoryAnalysis, now)
	if fmt.Sprint(ids(got)) != fmt.Sprint([]int64{1, 3}) {
		t.Errorf("category match = %v, want [1 3]", ids(got))
	}

	// No vocabulary term: everything comes back in store order.
	got = Relevant("category breakdown please", all, CategoryAnalysis, now)
	if len(got) != 3 {
		t.Errorf("fallback = %v, want all 3", ids(got))
	}
}

func TestRelevant_CategoryFallbackCapped(t *testing.T) {
	now := mustDate("2025-06-15")
	all := make([]domain.Expense, 120)
	for i := range all {
		all[i] = domain.Expense{ID: int64(i + 1), Category: "misc", Date: "2025-06-01"}
	}
	got := Relevant("breakdown by category", all, CategoryAnalysis, now)
	if len(got) != 100 {
		t.Errorf("fallback cap = %d, want 100", len(got))
	}
}

func TestRelevant_SpendingTrends(t *testing.T) {
	now := mustDate("2025-06-15")
	all := []domain.Expense{
		{ID: 1, Date: "2025-06-01"},
		{ID: 2, Date: "2025-03-16"},
		// Exactly three months back sits on the boundary and is excluded.
		{ID: 3, Date: "2025-03-15"},
		{ID: 4, Date: "2024-01-01"},
		{ID: 5, Date: "bad"},
	}

	got := Relevant("spending trends", all, SpendingTrends, now)
	if fmt.Sprint(ids(got)) != fmt.Sprint([]int64{1, 2}) {
		t.Errorf("trend window = %v, want [1 2]", ids(got))
	}
}

func TestRelevant_BudgetInsights(t *testing.T) {
	now := mustDate("2025-06-15")
	all := []domain.Expense{
		// Inside the last month and also a top amount: must appear once.
		{ID: 1, Amount: 500, Date: "2025-06-01"},
		{ID: 2, Amount: 3, Date: "2025-06-10"},
		// Older but expensive: pulled in by the top-amount half.
		{ID: 3, Amount: 900, Date: "2024-12-25"},
		// Older and cheap with only three expenses, still in the top 20.
		{ID: 4, Amount: 1, Date: "2024-12-26"},
	}

	got := Relevant("help me cut costs", all, BudgetInsights, now)
	if fmt.Sprint(ids(got)) != fmt.Sprint([]int64{1, 2, 3, 4}) {
		t.Errorf("budget union = %v, want [1 2 3 4]", ids(got))
	}

	counts := make(map[int64]int)
	for _, e := range got {
		counts[e.ID]++
	}
	for id, n := range counts {
		if n > 1 {
			t.Errorf("expense %d duplicated %d times", id, n)
		}
	}
}

func TestRelevant_GeneralSortsAndLimits(t *testing.T) {
	now := mustDate("2025-06-15")

	all := []domain.Expense{
		{ID: 1, Date: "2025-01-05"},
		{ID: 2, Date: "2025-03-01"},
		{ID: 3, Date: "2025-02-10"},
	}
	got := Relevant("tell me anything", all, General, now)
	if fmt.Sprint(ids(got)) != fmt.Sprint([]int64{2, 3, 1}) {
		t.Errorf("general order = %v, want newest first [2 3 1]", ids(got))
	}

	// Unparseable dates fall back to descending string order.
	all = []domain.Expense{
		{ID: 1, Date: "aaa"},
		{ID: 2, Date: "zzz"},
	}
	got = Relevant("anything", all, General, now)
	if fmt.Sprint(ids(got)) != fmt.Sprint([]int64{2, 1}) {
		t.Errorf("lexicographic fallback = %v, want [2 1]", ids(got))
	}

	all = make([]domain.Expense, 60)
	for i := range all {
		all[i] = domain.Expense{ID: int64(i + 1), Date: "2025-06-01"}
	}
	got = Relevant("anything", all, General, now)
	if len(got) != 50 {
		t.Errorf("general limit = %d, want 50", len(got))
	}
}
