package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aicoconsole/pkg/models"
)

// UserStore handles database operations for staff notification targets
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new staff user repository
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// UserParams holds the fields accepted when creating or updating a staff user.
// PasswordHash is optional on update; empty keeps the stored hash.
type UserParams struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        *string
	ChatworkID   *string
}

const userColumns = `id, username, password_hash, first_name, last_name, email, chatwork_id, created_at, updated_at`

// List returns all staff users ordered by username
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Email, &u.ChatworkID, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Create stores a new staff user
func (s *UserStore) Create(ctx context.Context, p UserParams) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, password_hash, first_name, last_name, email, chatwork_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns + `
	`

	var u models.User
	err := s.db.QueryRowContext(ctx, query,
		uuid.NewString(), p.Username, p.PasswordHash, p.FirstName, p.LastName, p.Email, p.ChatworkID,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Email, &u.ChatworkID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// Update edits a staff user. An empty PasswordHash keeps the current one.
// Returns nil when the user does not exist.
func (s *UserStore) Update(ctx context.Context, id string, p UserParams) (*models.User, error) {
	query := `
		UPDATE users
		SET username = $2,
		    password_hash = CASE WHEN $3 = '' THEN password_hash ELSE $3 END,
		    first_name = $4, last_name = $5, email = $6, chatwork_id = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	var u models.User
	err := s.db.QueryRowContext(ctx, query,
		id, p.Username, p.PasswordHash, p.FirstName, p.LastName, p.Email, p.ChatworkID,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Email, &u.ChatworkID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &u, nil
}

// Delete removes a staff user; rules referencing them keep a dangling target
// and dispatch treats those as missing destinations
func (s *UserStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
