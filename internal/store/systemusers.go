package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aicoconsole/pkg/models"
)

// SystemUserStore handles database operations for console operator accounts
type SystemUserStore struct {
	db *sql.DB
}

// NewSystemUserStore creates a new operator account repository
func NewSystemUserStore(db *sql.DB) *SystemUserStore {
	return &SystemUserStore{db: db}
}

// GetByUsername returns an operator account, or nil when none matches
func (s *SystemUserStore) GetByUsername(ctx context.Context, username string) (*models.SystemUser, error) {
	query := `SELECT id, username, password_hash, email, created_at FROM system_users WHERE username = $1`

	var u models.SystemUser
	err := s.db.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get system user: %w", err)
	}
	return &u, nil
}

// GetByID returns an operator account, or nil when none matches
func (s *SystemUserStore) GetByID(ctx context.Context, id string) (*models.SystemUser, error) {
	query := `SELECT id, username, password_hash, email, created_at FROM system_users WHERE id = $1`

	var u models.SystemUser
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get system user: %w", err)
	}
	return &u, nil
}

// Create registers an operator account
func (s *SystemUserStore) Create(ctx context.Context, username, passwordHash, email string) (*models.SystemUser, error) {
	query := `
		INSERT INTO system_users (id, username, password_hash, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, email, created_at
	`

	var u models.SystemUser
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), username, passwordHash, email).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create system user: %w", err)
	}
	return &u, nil
}
