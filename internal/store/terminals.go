// Package store contains the relational data access layer. Each repository
// wraps *sql.DB with plain SQL; no ORM is used.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aicoconsole/pkg/models"
)

// TerminalStore handles database operations for terminals
type TerminalStore struct {
	db *sql.DB
}

// NewTerminalStore creates a new terminal repository
func NewTerminalStore(db *sql.DB) *TerminalStore {
	return &TerminalStore{db: db}
}

const terminalColumns = `id, aico_id, name, status, offline_count, downtime_minutes, last_polling, greeting, created_at, updated_at`

func scanTerminal(row interface{ Scan(...interface{}) error }, t *models.Terminal) error {
	return row.Scan(
		&t.ID,
		&t.AicoID,
		&t.Name,
		&t.Status,
		&t.OfflineCount,
		&t.DowntimeMinutes,
		&t.LastPolling,
		&t.Greeting,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

// List returns all terminals ordered by name, each with today's conversation
// count and its total error-log count for the console dashboard
func (s *TerminalStore) List(ctx context.Context) ([]models.TerminalSummary, error) {
	query := `
		SELECT ` + terminalColumns + `,
			(SELECT COUNT(*) FROM conversations c
				WHERE c.terminal_id = terminals.id AND c.created_at >= date_trunc('day', now())) AS today_conversations,
			(SELECT COUNT(*) FROM terminal_error_logs e
				WHERE e.terminal_id = terminals.id) AS error_logs
		FROM terminals
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query terminals: %w", err)
	}
	defer rows.Close()

	terminals := make([]models.TerminalSummary, 0)
	for rows.Next() {
		var t models.TerminalSummary
		err := rows.Scan(
			&t.ID,
			&t.AicoID,
			&t.Name,
			&t.Status,
			&t.OfflineCount,
			&t.DowntimeMinutes,
			&t.LastPolling,
			&t.Greeting,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.TodayConversationCount,
			&t.ErrorLogCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan terminal: %w", err)
		}
		terminals = append(terminals, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating terminals: %w", err)
	}

	return terminals, nil
}

// GetByID returns one terminal, or nil when it does not exist
func (s *TerminalStore) GetByID(ctx context.Context, id string) (*models.Terminal, error) {
	query := `SELECT ` + terminalColumns + ` FROM terminals WHERE id = $1`

	var t models.Terminal
	if err := scanTerminal(s.db.QueryRowContext(ctx, query, id), &t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get terminal: %w", err)
	}
	return &t, nil
}

// GetByAicoID returns the terminal registered under an external AICO id,
// or nil when none exists
func (s *TerminalStore) GetByAicoID(ctx context.Context, aicoID string) (*models.Terminal, error) {
	query := `SELECT ` + terminalColumns + ` FROM terminals WHERE aico_id = $1`

	var t models.Terminal
	if err := scanTerminal(s.db.QueryRowContext(ctx, query, aicoID), &t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get terminal by aico id: %w", err)
	}
	return &t, nil
}

// Create registers a new terminal. Terminals start OFFLINE until their first
// heartbeat arrives.
func (s *TerminalStore) Create(ctx context.Context, aicoID, name string, greeting *string) (*models.Terminal, error) {
	query := `
		INSERT INTO terminals (id, aico_id, name, status, greeting)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + terminalColumns + `
	`

	var t models.Terminal
	err := scanTerminal(s.db.QueryRowContext(ctx, query, uuid.NewString(), aicoID, name, models.TerminalOffline, greeting), &t)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal: %w", err)
	}
	return &t, nil
}

// UpdateTerminalParams holds the operator-editable terminal fields.
// Nil fields are left unchanged.
type UpdateTerminalParams struct {
	AicoID   *string
	Name     *string
	Greeting *string
}

// Update edits a terminal's operator-managed fields
func (s *TerminalStore) Update(ctx context.Context, id string, params UpdateTerminalParams) (*models.Terminal, error) {
	query := `
		UPDATE terminals
		SET aico_id = COALESCE($2, aico_id),
		    name = COALESCE($3, name),
		    greeting = COALESCE($4, greeting),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + terminalColumns + `
	`

	var t models.Terminal
	err := scanTerminal(s.db.QueryRowContext(ctx, query, id, params.AicoID, params.Name, params.Greeting), &t)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update terminal: %w", err)
	}
	return &t, nil
}

// UpdateGreeting replaces the greeting returned on heartbeat
func (s *TerminalStore) UpdateGreeting(ctx context.Context, id, greeting string) (*models.Terminal, error) {
	query := `
		UPDATE terminals SET greeting = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + terminalColumns + `
	`

	var t models.Terminal
	if err := scanTerminal(s.db.QueryRowContext(ctx, query, id, greeting), &t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update greeting: %w", err)
	}
	return &t, nil
}

// Delete removes a terminal; its rules, conversations and error logs cascade
func (s *TerminalStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM terminals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete terminal: %w", err)
	}
	return nil
}

// MarkOnline processes a heartbeat: the terminal becomes ONLINE, its missed
// count resets and last_polling advances, all in one statement so a racing
// monitor tick cannot observe a partial reset. Returns the configured
// greeting, or nil when the terminal has none or does not exist.
func (s *TerminalStore) MarkOnline(ctx context.Context, id string, now time.Time) (*string, error) {
	query := `
		UPDATE terminals
		SET status = $2, offline_count = 0, last_polling = $3, updated_at = now()
		WHERE id = $1
		RETURNING greeting
	`

	var greeting *string
	err := s.db.QueryRowContext(ctx, query, id, models.TerminalOnline, now).Scan(&greeting)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("terminal not found: %s", id)
		}
		return nil, fmt.Errorf("failed to process heartbeat: %w", err)
	}
	return greeting, nil
}
