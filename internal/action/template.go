package action

import (
	"strings"
	"time"
)

// NoPreviousConversation is rendered for {prevmessage} when the exchange
// has no earlier user message.
const NoPreviousConversation = "前回の会話はありません"

// datetimeLayout is the local-time format rendered for {datetime}
const datetimeLayout = "2006年01月02日 15:04"

// Variables holds the values substituted into a notification template
type Variables struct {
	Message     string
	PrevMessage string // empty when there is no previous conversation
	Terminal    string
	Datetime    time.Time
}

// Render substitutes the literal placeholder tokens {message}, {prevmessage},
// {terminal} and {datetime} into template. Tokens are case-sensitive and every
// occurrence is replaced.
func Render(template string, vars Variables) string {
	prev := vars.PrevMessage
	if prev == "" {
		prev = NoPreviousConversation
	}

	replacer := strings.NewReplacer(
		"{message}", vars.Message,
		"{prevmessage}", prev,
		"{terminal}", vars.Terminal,
		"{datetime}", vars.Datetime.Format(datetimeLayout),
	)
	return replacer.Replace(template)
}
