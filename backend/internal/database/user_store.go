package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/user/stockpile/backend/internal/models"
)

// ErrDuplicateEmail is returned by CreateUser when the email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

// CreateUser inserts a new user into the database.
func (s *Store) CreateUser(ctx context.Context, email string, passwordHash string) (*models.User, error) {
	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
	}

	query := `INSERT INTO users (email, password_hash) VALUES ($1, $2)
			  RETURNING user_id, created_at`

	err := s.db.QueryRow(ctx, query, email, passwordHash).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		// The UNIQUE constraint catches registrations racing past the service's lookup
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user %s: %w", email, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email. The match is case-sensitive.
// Returns nil, nil if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT user_id, email, password_hash, created_at FROM users WHERE email = $1`

	err := s.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user by email %s: %w", email, err)
	}

	return user, nil
}
