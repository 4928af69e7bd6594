package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aicoconsole/pkg/models"
)

// ErrorLogStore handles database operations for terminal error events
type ErrorLogStore struct {
	db *sql.DB
}

// NewErrorLogStore creates a new error log repository
func NewErrorLogStore(db *sql.DB) *ErrorLogStore {
	return &ErrorLogStore{db: db}
}

// ListByTerminal returns a terminal's error events, newest first
func (s *ErrorLogStore) ListByTerminal(ctx context.Context, terminalID string) ([]models.TerminalErrorLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, terminal_id, type, message, created_at FROM terminal_error_logs
		 WHERE terminal_id = $1 ORDER BY created_at DESC`, terminalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query error logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.TerminalErrorLog, 0)
	for rows.Next() {
		var l models.TerminalErrorLog
		if err := rows.Scan(&l.ID, &l.TerminalID, &l.Type, &l.Message, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan error log: %w", err)
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating error logs: %w", err)
	}

	return logs, nil
}
