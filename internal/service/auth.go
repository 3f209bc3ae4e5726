// internal/service/auth.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// Only Gmail addresses are accepted. The order of checks matters: format is
// validated before the store is consulted, so a malformed duplicate still
// gets the format error.
var gmailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@gmail\.com$`)

// ErrEmailTaken is the duplicate-specific registration failure, distinct
// from the format error.
var ErrEmailTaken = NewValidationError("email already exists")

var ErrBadCredentials = errors.New("invalid email or password")

type AuthService struct {
	store storage.UserStorage
}

func NewAuthService(store storage.UserStorage) *AuthService {
	return &AuthService{store: store}
}

// Register validates the email, rejects duplicates and persists the user.
// The password is bcrypt-hashed before it reaches the store; the stored
// password field carries the hash.
func (s *AuthService) Register(ctx context.Context, u *domain.User) error {
	if u.Email == "" {
		return NewValidationError("email cannot be empty")
	}
	if !gmailPattern.MatchString(u.Email) {
		return NewValidationError("only gmail addresses are accepted")
	}

	exists, err := s.store.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)

	if err := s.store.SaveUser(ctx, u); err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	slog.Info("User registered", "id", u.ID, "email", u.Email)
	return nil
}

// AllUsers returns every registered user, unfiltered. The password field
// carries bcrypt hashes, not plaintext.
func (s *AuthService) AllUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.FindAllUsers(ctx)
}

func (s *AuthService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.store.DeleteUserByID(ctx, id)
}

// Login verifies the credentials and returns the matching user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if u == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}
