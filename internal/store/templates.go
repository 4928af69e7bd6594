package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aicoconsole/pkg/models"
)

// TemplateStore handles database operations for notification templates
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new template repository
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// List returns all templates, newest first
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, content, created_at, updated_at FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	templates := make([]models.Template, 0)
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// Create stores a new template
func (s *TemplateStore) Create(ctx context.Context, name, content string) (*models.Template, error) {
	query := `
		INSERT INTO templates (id, name, content)
		VALUES ($1, $2, $3)
		RETURNING id, name, content, created_at, updated_at
	`

	var t models.Template
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), name, content).
		Scan(&t.ID, &t.Name, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return &t, nil
}

// Update edits a template. Returns nil when it does not exist.
func (s *TemplateStore) Update(ctx context.Context, id, name, content string) (*models.Template, error) {
	query := `
		UPDATE templates SET name = $2, content = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, name, content, created_at, updated_at
	`

	var t models.Template
	err := s.db.QueryRowContext(ctx, query, id, name, content).
		Scan(&t.ID, &t.Name, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return &t, nil
}

// Delete removes a template
func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
