// internal/analytics/cache.go
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"
)

const cacheTTL = 10 * time.Minute

// Cache memoizes the analytics summary for up to ten minutes. Staleness is
// purely time based; writes to the ledger do not invalidate it. Concurrent
// readers past the deadline may each trigger a recompute; the duplicates are
// tolerated, the last write wins.
type Cache struct {
	store storage.ExpenseStorage
	now   func() time.Time

	mu          sync.Mutex
	summary     domain.AnalyticsSummary
	lastRefresh time.Time
	valid       bool
}

func NewCache(store storage.ExpenseStorage) *Cache {
	return &Cache{store: store, now: time.Now}
}

// WithClock overrides the cache clock for deterministic tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached summary, recomputing synchronously when the entry
// is missing or older than the TTL. A failed recompute degrades to an empty
// summary so the quick-insight path stays responsive.
func (c *Cache) Get(ctx context.Context) domain.AnalyticsSummary {
	c.mu.Lock()
	if c.valid && c.now().Sub(c.lastRefresh) < cacheTTL {
		summary := c.summary
		c.mu.Unlock()
		return summary
	}
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil {
		slog.Error("Failed to refresh analytics cache", "error", err)
		return domain.AnalyticsSummary{CategoryTotals: map[string]float64{}}
	}

	c.mu.Lock()
	summary := c.summary
	c.mu.Unlock()
	return summary
}

// Refresh recomputes the summary from the full ledger snapshot. Unlike Get,
// it propagates the failure to its caller.
func (c *Cache) Refresh(ctx context.Context) error {
	expenses, err := c.store.FindAll(ctx)
	if err != nil {
		return err
	}
	summary := Summarize(expenses, c.now())

	c.mu.Lock()
	c.summary = summary
	c.lastRefresh = c.now()
	c.valid = true
	c.mu.Unlock()

	slog.Info("Analytics cache refreshed", "expenses", summary.TotalCount)
	return nil
}
