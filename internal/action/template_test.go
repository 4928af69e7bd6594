package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderSubstitutesAllTokens(t *testing.T) {
	vars := Variables{
		Message:     "トイレはどこですか",
		PrevMessage: "こんにちは",
		Terminal:    "受付端末",
		Datetime:    time.Date(2025, 4, 1, 9, 5, 0, 0, time.Local),
	}

	out := Render("端末「{terminal}」: {prevmessage} → {message} ({datetime})", vars)
	assert.Equal(t, "端末「受付端末」: こんにちは → トイレはどこですか (2025年04月01日 09:05)", out)
}

func TestRenderPrevMessageFallback(t *testing.T) {
	out := Render("前回: {prevmessage}", Variables{Message: "x"})
	assert.Equal(t, "前回: "+NoPreviousConversation, out)
}

func TestRenderReplacesEveryOccurrence(t *testing.T) {
	out := Render("{message} / {message}", Variables{Message: "呼出"})
	assert.Equal(t, "呼出 / 呼出", out)
}

func TestRenderLeavesUnknownTokensAlone(t *testing.T) {
	out := Render("{Message} {unknown}", Variables{Message: "x"})
	assert.Equal(t, "{Message} {unknown}", out)
}
