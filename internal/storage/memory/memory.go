// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sync"

	"expense-tracker/internal/domain"
)

// Store keeps everything in process memory. It backs the default dev mode
// and the service/handler tests.
type Store struct {
	mu         sync.Mutex
	expenses   []domain.Expense
	users      []domain.User
	nextExpID  int64
	nextUserID int64
}

func New() *Store {
	return &Store{nextExpID: 1, nextUserID: 1}
}

// === ExpenseStorage ===

func (s *Store) FindAll(_ context.Context) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) Save(_ context.Context, e *domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextExpID
	s.nextExpID++
	s.expenses = append(s.expenses, *e)
	return nil
}

func (s *Store) Update(_ context.Context, e *domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			s.expenses[i] = *e
			return nil
		}
	}
	return nil
}

func (s *Store) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// === UserStorage ===

func (s *Store) SaveUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextUserID
	s.nextUserID++
	s.users = append(s.users, *u)
	return nil
}

func (s *Store) FindAllUsers(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteUserByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
