// internal/storage/storage.go
package storage

import (
	"context"
	"expense-tracker/internal/domain"
)

type ExpenseStorage interface {
	FindAll(ctx context.Context) ([]domain.Expense, error)
	// FindByID returns (nil, nil) when no record exists.
	FindByID(ctx context.Context, id int64) (*domain.Expense, error)
	// Save persists a new expense and sets its ID.
	Save(ctx context.Context, e *domain.Expense) error
	Update(ctx context.Context, e *domain.Expense) error
	// DeleteByID reports whether a record was removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type UserStorage interface {
	// SaveUser persists a new user and sets its ID.
	SaveUser(ctx context.Context, u *domain.User) error
	FindAllUsers(ctx context.Context) ([]domain.User, error)
	// FindUserByEmail returns (nil, nil) when no user exists.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	DeleteUserByID(ctx context.Context, id int64) (bool, error)
}
