package models

import (
	"time"
)

// Terminal status values
const (
	TerminalOnline  = "ONLINE"
	TerminalOffline = "OFFLINE"
)

// Action rule condition values
const (
	ConditionAnd = "AND"
	ConditionOr  = "OR"
)

// Action rule types
const (
	ActionTypeMedia    = "MEDIA"
	ActionTypeChatwork = "CHATWORK"
	ActionTypeEmail    = "EMAIL"
)

// Conversation speaker tags
const (
	SpeakerUser = "USER"
	SpeakerAico = "AICO"
)

// Terminal represents a networked AICO device
type Terminal struct {
	ID              string     `json:"id" db:"id"`
	AicoID          string     `json:"aicoId" db:"aico_id"`
	Name            string     `json:"name" db:"name"`
	Status          string     `json:"status" db:"status"`
	OfflineCount    int        `json:"offlineCount" db:"offline_count"`
	DowntimeMinutes int        `json:"downtimeMinutes" db:"downtime_minutes"`
	LastPolling     *time.Time `json:"lastPolling,omitempty" db:"last_polling"`
	Greeting        *string    `json:"greeting,omitempty" db:"greeting"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// TerminalSummary extends Terminal with per-terminal counters for the console list view
type TerminalSummary struct {
	Terminal
	TodayConversationCount int `json:"todayConversationCount"`
	ErrorLogCount          int `json:"errorLogCount"`
}

// ActionRule represents a keyword-triggered notification rule bound to one terminal.
// Keywords are stored comma-joined; the API layer splits/joins at the boundary.
type ActionRule struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	TerminalID  string    `json:"terminalId" db:"terminal_id"`
	Keywords    string    `json:"-" db:"keywords"`
	KeywordList []string  `json:"keywords" db:"-"`
	Condition   string    `json:"condition" db:"condition"`
	Type        string    `json:"type" db:"type"`
	MediaID     *string   `json:"mediaId,omitempty" db:"media_id"`
	TemplateID  *string   `json:"templateId,omitempty" db:"template_id"`
	UserID      *string   `json:"userId,omitempty" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ActionRuleWithTerminal joins the terminal display name for the console list view
type ActionRuleWithTerminal struct {
	ActionRule
	TerminalName string `json:"terminalName"`
}

// RuleTarget is the notification destination joined onto a rule at dispatch time
type RuleTarget struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      *string `json:"email,omitempty"`
	ChatworkID *string `json:"chatworkId,omitempty"`
}

// DispatchRule is an ActionRule with everything the dispatcher needs resolved:
// terminal display name, media URL, template content and the target user.
// Nil joined fields mean the reference is unset or dangling.
type DispatchRule struct {
	ActionRule
	TerminalName    string      `json:"terminalName"`
	MediaURL        *string     `json:"mediaUrl,omitempty"`
	TemplateContent *string     `json:"templateContent,omitempty"`
	User            *RuleTarget `json:"user,omitempty"`
}

// Conversation is one immutable message exchange record.
// MessageID groups the turns of a multi-turn exchange.
type Conversation struct {
	ID           string    `json:"id" db:"id"`
	MessageID    string    `json:"messageId" db:"message_id"`
	TerminalID   string    `json:"terminalId" db:"terminal_id"`
	Speaker      string    `json:"speaker" db:"speaker"`
	Message      string    `json:"message" db:"message"`
	ClientFileID *string   `json:"clientFileId,omitempty" db:"client_file_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// ConversationWithTerminal joins the terminal name and attachment path for list views
type ConversationWithTerminal struct {
	Conversation
	TerminalName   string  `json:"terminalName"`
	ClientFilePath *string `json:"clientFilePath,omitempty"`
}

// Template is reusable notification text with placeholder variables
// ({message}, {prevmessage}, {terminal}, {datetime})
type Template struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// User is a staff member who receives keyword-triggered notifications
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	ChatworkID   *string   `json:"chatworkId,omitempty" db:"chatwork_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SystemUser is a console operator account
type SystemUser struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// ServerFile is an operator-uploaded media file referenced by MEDIA rules
type ServerFile struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	MimeType  string    `json:"mimeType" db:"mime_type"`
	Size      int64     `json:"size" db:"size"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ClientFile is a device-side attachment stored alongside a conversation record
type ClientFile struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	MimeType  string    `json:"mimeType" db:"mime_type"`
	Size      int64     `json:"size" db:"size"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TerminalErrorLog records a liveness-loss or device error event
type TerminalErrorLog struct {
	ID         string    `json:"id" db:"id"`
	TerminalID string    `json:"terminalId" db:"terminal_id"`
	Type       string    `json:"type" db:"type"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
