package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aicoconsole/pkg/models"
)

// ConversationStore handles database operations for conversation records
type ConversationStore struct {
	db *sql.DB
}

// NewConversationStore creates a new conversation repository
func NewConversationStore(db *sql.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// InsertParams holds the fields of a new conversation record.
// Attachment, when present, is stored as a client_files row in the same
// transaction as the conversation itself.
type InsertParams struct {
	MessageID  string
	TerminalID string
	Speaker    string
	Message    string
	Attachment *AttachmentParams
}

// AttachmentParams describes a device-side file stored with a message
type AttachmentParams struct {
	Path     string
	MimeType string
	Size     int64
}

// Insert appends one conversation record. Records are immutable once written.
func (s *ConversationStore) Insert(ctx context.Context, p InsertParams) (*models.Conversation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var clientFileID *string
	if p.Attachment != nil {
		id := uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO client_files (id, path, mime_type, size) VALUES ($1, $2, $3, $4)`,
			id, p.Attachment.Path, p.Attachment.MimeType, p.Attachment.Size,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		clientFileID = &id
	}

	query := `
		INSERT INTO conversations (id, message_id, terminal_id, speaker, message, client_file_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, message_id, terminal_id, speaker, message, client_file_id, created_at
	`

	var c models.Conversation
	err = tx.QueryRowContext(ctx, query,
		uuid.NewString(), p.MessageID, p.TerminalID, p.Speaker, p.Message, clientFileID,
	).Scan(&c.ID, &c.MessageID, &c.TerminalID, &c.Speaker, &c.Message, &c.ClientFileID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit conversation: %w", err)
	}

	return &c, nil
}

// PreviousUserMessage returns the text of the most recent USER message in the
// same exchange group, strictly older than the given record. Empty when the
// current message opened the exchange.
func (s *ConversationStore) PreviousUserMessage(ctx context.Context, terminalID, messageID string, before time.Time, excludeID string) (string, error) {
	query := `
		SELECT message FROM conversations
		WHERE terminal_id = $1 AND message_id = $2 AND speaker = $3
		  AND created_at < $4 AND id <> $5
		ORDER BY created_at DESC
		LIMIT 1
	`

	var message string
	err := s.db.QueryRowContext(ctx, query, terminalID, messageID, models.SpeakerUser, before, excludeID).Scan(&message)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to query previous message: %w", err)
	}
	return message, nil
}

// ListFilter narrows the conversation listing. Zero values mean no filter.
type ListFilter struct {
	TerminalID string
	Start      *time.Time
	End        *time.Time
	Keyword    string
}

// List returns conversations joined with terminal names, newest exchange
// first and turns within an exchange in creation order
func (s *ConversationStore) List(ctx context.Context, f ListFilter) ([]models.ConversationWithTerminal, error) {
	query := `
		SELECT c.id, c.message_id, c.terminal_id, c.speaker, c.message, c.client_file_id, c.created_at,
			t.name AS terminal_name, cf.path AS client_file_path
		FROM conversations c
		JOIN terminals t ON t.id = c.terminal_id
		LEFT JOIN client_files cf ON cf.id = c.client_file_id
		WHERE 1=1
	`
	args := make([]interface{}, 0, 4)

	if f.TerminalID != "" {
		args = append(args, f.TerminalID)
		query += fmt.Sprintf(" AND c.terminal_id = $%d", len(args))
	}
	if f.Start != nil {
		args = append(args, *f.Start)
		query += fmt.Sprintf(" AND c.created_at >= $%d", len(args))
	}
	if f.End != nil {
		args = append(args, *f.End)
		query += fmt.Sprintf(" AND c.created_at <= $%d", len(args))
	}
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		query += fmt.Sprintf(" AND c.message ILIKE $%d", len(args))
	}

	query += " ORDER BY c.message_id DESC, c.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.ConversationWithTerminal, 0)
	for rows.Next() {
		var c models.ConversationWithTerminal
		err := rows.Scan(
			&c.ID, &c.MessageID, &c.TerminalID, &c.Speaker, &c.Message, &c.ClientFileID,
			&c.CreatedAt, &c.TerminalName, &c.ClientFilePath,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}
