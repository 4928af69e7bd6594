package action

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aicoconsole/pkg/models"
)

// RuleSource loads the dispatch rules configured for one terminal,
// ordered by rule creation time
type RuleSource interface {
	ListDispatchRules(ctx context.Context, terminalID string) ([]models.DispatchRule, error)
}

// ChatSender delivers a rendered notification to a Chatwork room
type ChatSender interface {
	SendRoomMessage(ctx context.Context, roomID, body string) error
}

// MailSender delivers a rendered notification by email
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Result carries the inline response of a matched MEDIA rule
type Result struct {
	MediaURL string `json:"mediaUrl"`
}

// Dispatcher evaluates a terminal's action rules against incoming user
// messages and executes the side effect of the first matching rule.
type Dispatcher struct {
	rules RuleSource
	chat  ChatSender
	mail  MailSender
	now   func() time.Time
}

// NewDispatcher creates a dispatcher backed by the given rule source and
// delivery collaborators
func NewDispatcher(rules RuleSource, chat ChatSender, mail MailSender) *Dispatcher {
	return &Dispatcher{
		rules: rules,
		chat:  chat,
		mail:  mail,
		now:   time.Now,
	}
}

// ProcessMessage runs the terminal's rules against a user message.
// Rules are evaluated in creation order and only the first matching rule's
// side effect is executed; later rules are intentionally never evaluated.
// previousMessage is the most recent earlier user message in the same
// message-id group, or empty when none exists.
//
// The returned result is non-nil only when a MEDIA rule matched and carries a
// media URL. A matched CHATWORK/EMAIL rule with an unresolvable template or
// destination is a silent no-op, not an error. Delivery failures propagate.
func (d *Dispatcher) ProcessMessage(ctx context.Context, terminalID, message, messageID, previousMessage string) (*Result, error) {
	rules, err := d.rules.ListDispatchRules(ctx, terminalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load action rules: %w", err)
	}

	for _, rule := range rules {
		if !Matches(message, SplitKeywords(rule.Keywords), rule.Condition) {
			continue
		}

		log.Debug().
			Str("terminal_id", terminalID).
			Str("message_id", messageID).
			Str("rule_id", rule.ID).
			Str("type", rule.Type).
			Msg("Action rule matched")

		vars := Variables{
			Message:     message,
			PrevMessage: previousMessage,
			Terminal:    rule.TerminalName,
			Datetime:    d.now(),
		}

		switch rule.Type {
		case models.ActionTypeMedia:
			if rule.MediaURL != nil {
				return &Result{MediaURL: *rule.MediaURL}, nil
			}

		case models.ActionTypeChatwork:
			if rule.TemplateContent != nil && rule.User != nil && rule.User.ChatworkID != nil {
				content := Render(*rule.TemplateContent, vars)
				if err := d.chat.SendRoomMessage(ctx, *rule.User.ChatworkID, content); err != nil {
					log.Error().Err(err).
						Str("terminal_id", terminalID).
						Str("rule_id", rule.ID).
						Msg("Chatwork delivery failed")
					return nil, fmt.Errorf("failed to deliver chatwork notification for rule %s: %w", rule.ID, err)
				}
			}

		case models.ActionTypeEmail:
			if rule.TemplateContent != nil && rule.User != nil && rule.User.Email != nil {
				content := Render(*rule.TemplateContent, vars)
				subject := fmt.Sprintf("【AICO】お客さまから呼び出し（%s%s さん宛て）", rule.User.LastName, rule.User.FirstName)
				if err := d.mail.Send(ctx, *rule.User.Email, subject, content); err != nil {
					log.Error().Err(err).
						Str("terminal_id", terminalID).
						Str("rule_id", rule.ID).
						Msg("Email delivery failed")
					return nil, fmt.Errorf("failed to deliver email notification for rule %s: %w", rule.ID, err)
				}
			}
		}

		// First matching rule wins, even when missing destination or template
		// data made it a no-op.
		return nil, nil
	}

	return nil, nil
}
