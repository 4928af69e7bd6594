package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aicoconsole/pkg/models"
)

// FileStore handles database operations for media file metadata
type FileStore struct {
	db *sql.DB
}

// NewFileStore creates a new file metadata repository
func NewFileStore(db *sql.DB) *FileStore {
	return &FileStore{db: db}
}

// ListServerFiles returns operator-uploaded media metadata, newest first
func (s *FileStore) ListServerFiles(ctx context.Context) ([]models.ServerFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, url, mime_type, size, created_at FROM server_files ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query server files: %w", err)
	}
	defer rows.Close()

	files := make([]models.ServerFile, 0)
	for rows.Next() {
		var f models.ServerFile
		if err := rows.Scan(&f.ID, &f.Name, &f.URL, &f.MimeType, &f.Size, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan server file: %w", err)
		}
		files = append(files, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating server files: %w", err)
	}

	return files, nil
}

// CreateServerFile registers media metadata for use by MEDIA rules
func (s *FileStore) CreateServerFile(ctx context.Context, name, url, mimeType string, size int64) (*models.ServerFile, error) {
	query := `
		INSERT INTO server_files (id, name, url, mime_type, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, url, mime_type, size, created_at
	`

	var f models.ServerFile
	err := s.db.QueryRowContext(ctx, query, uuid.NewString(), name, url, mimeType, size).
		Scan(&f.ID, &f.Name, &f.URL, &f.MimeType, &f.Size, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create server file: %w", err)
	}
	return &f, nil
}

// DeleteServerFile removes media metadata; rules pointing at it become
// dangling and their MEDIA dispatch turns into a no-op
func (s *FileStore) DeleteServerFile(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM server_files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete server file: %w", err)
	}
	return nil
}
