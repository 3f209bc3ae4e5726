// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"fmt"

	"expense-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// === ExpenseStorage ===

func (s *Storage) FindAll(ctx context.Context) ([]domain.Expense, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, description, amount, category, date
		FROM expenses
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("find all expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *Storage) FindByID(ctx context.Context, id int64) (*domain.Expense, error) {
	var e domain.Expense
	err := s.db.QueryRow(ctx, `
		SELECT id, description, amount, category, date
		FROM expenses
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.Date)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return &e, nil
}

func (s *Storage) Save(ctx context.Context, e *domain.Expense) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO expenses (description, amount, category, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, e.Description, e.Amount, e.Category, e.Date).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("save expense: %w", err)
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, e *domain.Expense) error {
	_, err := s.db.Exec(ctx, `
		UPDATE expenses
		SET description = $1, amount = $2, category = $3, date = $4
		WHERE id = $5
	`, e.Description, e.Amount, e.Category, e.Date, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (s *Storage) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// === UserStorage ===

func (s *Storage) SaveUser(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`, u.Name, u.Email, u.Password).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Storage) FindAllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, email, password FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, password FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (s *Storage) DeleteUserByID(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
