package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aicoconsole/internal/action"
	"github.com/aicoconsole/pkg/models"
)

// ActionStore handles database operations for keyword action rules
type ActionStore struct {
	db *sql.DB
}

// NewActionStore creates a new action rule repository
func NewActionStore(db *sql.DB) *ActionStore {
	return &ActionStore{db: db}
}

// ActionRuleParams holds the fields accepted when creating or updating a rule
type ActionRuleParams struct {
	Name        string
	Description *string
	TerminalID  string
	Keywords    []string
	Condition   string
	Type        string
	MediaID     *string
	TemplateID  *string
	UserID      *string
}

func (p ActionRuleParams) validate() error {
	if action.JoinKeywords(p.Keywords) == "" {
		return fmt.Errorf("at least one non-empty keyword is required")
	}
	if p.Condition != models.ConditionAnd && p.Condition != models.ConditionOr {
		return fmt.Errorf("condition must be AND or OR")
	}
	switch p.Type {
	case models.ActionTypeMedia, models.ActionTypeChatwork, models.ActionTypeEmail:
	default:
		return fmt.Errorf("unknown action type: %s", p.Type)
	}
	return nil
}

const actionColumns = `a.id, a.name, a.description, a.terminal_id, a.keywords, a.condition, a.type, a.media_id, a.template_id, a.user_id, a.created_at, a.updated_at`

// List returns every rule joined with its terminal name, newest first
func (s *ActionStore) List(ctx context.Context) ([]models.ActionRuleWithTerminal, error) {
	query := `
		SELECT ` + actionColumns + `, t.name AS terminal_name
		FROM actions a
		JOIN terminals t ON t.id = a.terminal_id
		ORDER BY a.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	rules := make([]models.ActionRuleWithTerminal, 0)
	for rows.Next() {
		var r models.ActionRuleWithTerminal
		err := rows.Scan(
			&r.ID, &r.Name, &r.Description, &r.TerminalID, &r.Keywords, &r.Condition,
			&r.Type, &r.MediaID, &r.TemplateID, &r.UserID, &r.CreatedAt, &r.UpdatedAt,
			&r.TerminalName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		r.KeywordList = action.SplitKeywords(r.Keywords)
		rules = append(rules, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}

	return rules, nil
}

// Create stores a new rule. Keywords are trimmed and comma-joined.
func (s *ActionStore) Create(ctx context.Context, p ActionRuleParams) (*models.ActionRule, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO actions (id, name, description, terminal_id, keywords, condition, type, media_id, template_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, name, description, terminal_id, keywords, condition, type, media_id, template_id, user_id, created_at, updated_at
	`

	var r models.ActionRule
	err := s.db.QueryRowContext(ctx, query,
		uuid.NewString(), p.Name, p.Description, p.TerminalID,
		action.JoinKeywords(p.Keywords), p.Condition, p.Type,
		p.MediaID, p.TemplateID, p.UserID,
	).Scan(
		&r.ID, &r.Name, &r.Description, &r.TerminalID, &r.Keywords, &r.Condition,
		&r.Type, &r.MediaID, &r.TemplateID, &r.UserID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}
	r.KeywordList = action.SplitKeywords(r.Keywords)
	return &r, nil
}

// Update replaces a rule's fields. Returns nil when the rule does not exist.
func (s *ActionStore) Update(ctx context.Context, id string, p ActionRuleParams) (*models.ActionRule, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE actions
		SET name = $2, description = $3, terminal_id = $4, keywords = $5,
		    condition = $6, type = $7, media_id = $8, template_id = $9, user_id = $10,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, terminal_id, keywords, condition, type, media_id, template_id, user_id, created_at, updated_at
	`

	var r models.ActionRule
	err := s.db.QueryRowContext(ctx, query,
		id, p.Name, p.Description, p.TerminalID,
		action.JoinKeywords(p.Keywords), p.Condition, p.Type,
		p.MediaID, p.TemplateID, p.UserID,
	).Scan(
		&r.ID, &r.Name, &r.Description, &r.TerminalID, &r.Keywords, &r.Condition,
		&r.Type, &r.MediaID, &r.TemplateID, &r.UserID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update action: %w", err)
	}
	r.KeywordList = action.SplitKeywords(r.Keywords)
	return &r, nil
}

// Delete removes a rule
func (s *ActionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM actions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	return nil
}

// ListDispatchRules loads a terminal's rules in creation order together with
// everything the dispatcher needs resolved up front: media URL, template
// content and the target staff user. Satisfies action.RuleSource.
func (s *ActionStore) ListDispatchRules(ctx context.Context, terminalID string) ([]models.DispatchRule, error) {
	query := `
		SELECT ` + actionColumns + `,
			t.name AS terminal_name,
			sf.url AS media_url,
			tp.content AS template_content,
			u.id, u.first_name, u.last_name, u.email, u.chatwork_id
		FROM actions a
		JOIN terminals t ON t.id = a.terminal_id
		LEFT JOIN server_files sf ON sf.id = a.media_id
		LEFT JOIN templates tp ON tp.id = a.template_id
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.terminal_id = $1
		ORDER BY a.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, terminalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch rules: %w", err)
	}
	defer rows.Close()

	rules := make([]models.DispatchRule, 0)
	for rows.Next() {
		var r models.DispatchRule
		var userID, firstName, lastName *string
		var email, chatworkID *string
		err := rows.Scan(
			&r.ID, &r.Name, &r.Description, &r.TerminalID, &r.Keywords, &r.Condition,
			&r.Type, &r.MediaID, &r.TemplateID, &r.UserID, &r.CreatedAt, &r.UpdatedAt,
			&r.TerminalName, &r.MediaURL, &r.TemplateContent,
			&userID, &firstName, &lastName, &email, &chatworkID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispatch rule: %w", err)
		}
		r.KeywordList = action.SplitKeywords(r.Keywords)
		if userID != nil {
			r.User = &models.RuleTarget{
				ID:         *userID,
				FirstName:  deref(firstName),
				LastName:   deref(lastName),
				Email:      email,
				ChatworkID: chatworkID,
			}
		}
		rules = append(rules, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatch rules: %w", err)
	}

	return rules, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
