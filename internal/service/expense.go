// internal/service/expense.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"
)

type ExpenseService struct {
	store storage.ExpenseStorage
	now   func() time.Time
}

func NewExpenseService(store storage.ExpenseStorage) *ExpenseService {
	return &ExpenseService{store: store, now: time.Now}
}

// WithClock overrides the service clock. Tests use it to pin "today".
func (s *ExpenseService) WithClock(now func() time.Time) *ExpenseService {
	s.now = now
	return s
}

// Now reports the service's current time; date-window filters anchor on it.
func (s *ExpenseService) Now() time.Time {
	return s.now()
}

func (s *ExpenseService) All(ctx context.Context) ([]domain.Expense, error) {
	return s.store.FindAll(ctx)
}

func (s *ExpenseService) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.store.FindByID(ctx, id)
}

// Create validates and persists a new expense. An empty date defaults to
// today so the record always carries an ISO-8601 date string.
func (s *ExpenseService) Create(ctx context.Context, e *domain.Expense) error {
	if e.Amount < 0 {
		return NewValidationError("amount cannot be negative")
	}
	if e.Date == "" {
		e.Date = s.now().Format(domain.DateLayout)
	}
	if err := s.store.Save(ctx, e); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	slog.Info("Expense created", "id", e.ID, "amount", e.Amount, "category", e.Category)
	return nil
}

// Update replaces description, amount, category and date in place; the id is
// immutable.
func (s *ExpenseService) Update(ctx context.Context, id int64, e domain.Expense) (*domain.Expense, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	existing.Description = e.Description
	existing.Amount = e.Amount
	existing.Category = e.Category
	existing.Date = e.Date

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	slog.Info("Expense updated", "id", id)
	return existing, nil
}

// Delete reports whether a record was removed. A missing id is not an error.
func (s *ExpenseService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.store.DeleteByID(ctx, id)
}

func (s *ExpenseService) TotalAll(ctx context.Context) (float64, error) {
	expenses, err := s.store.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("total expenses: %w", err)
	}
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total, nil
}

// TotalByCategory sums amounts whose category matches exactly (case-sensitive).
func (s *ExpenseService) TotalByCategory(ctx context.Context, category string) (float64, error) {
	expenses, err := s.store.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("total by category: %w", err)
	}
	var total float64
	for _, e := range expenses {
		if e.Category == category {
			total += e.Amount
		}
	}
	return total, nil
}
