package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/stockpile/backend/internal/apperr"
	"github.com/user/stockpile/backend/internal/database"
	"github.com/user/stockpile/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Messages returned to clients.
const (
	msgMissingCredentials = "Email and password are required"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid email or password"
)

// UserStore is the persistence the auth service needs.
// GetUserByEmail returns nil, nil when no user matches.
type UserStore interface {
	CreateUser(ctx context.Context, email string, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service registers and authenticates users.
type Service struct {
	users     UserStore
	cost      int
	dummyHash string
}

// NewService returns a Service hashing passwords at the given bcrypt cost.
func NewService(users UserStore, cost int) (*Service, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	// Compared against on unknown emails so both login failures cost one bcrypt run.
	dummy, err := HashPassword("stockpile-dummy-password", cost)
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}
	return &Service{users: users, cost: cost, dummyHash: dummy}, nil
}

// Register creates a user and returns it. The password hash is never returned
// in serialized form (see models.User).
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.NewValidation(msgMissingCredentials)
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email %s: %w", email, err)
	}
	if existing != nil {
		return nil, apperr.NewConflict(msgUserExists)
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		if apperr.Is(err, apperr.Validation) {
			return nil, err
		}
		return nil, fmt.Errorf("error hashing password for %s: %w", email, err)
	}

	user, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, apperr.NewConflict(msgUserExists)
		}
		return nil, err
	}
	return user, nil
}

// Login returns the user whose stored hash verifies against password.
// Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding user %s: %w", email, err)
	}

	if user == nil {
		_, _ = CheckPassword(password, s.dummyHash)
		return nil, apperr.NewAuth(msgInvalidCredentials)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, apperr.NewAuth(msgInvalidCredentials)
	}

	return user, nil
}
