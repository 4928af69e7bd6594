package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicoconsole/pkg/models"
)

type fakeRuleSource struct {
	rules []models.DispatchRule
	err   error
}

func (f *fakeRuleSource) ListDispatchRules(ctx context.Context, terminalID string) ([]models.DispatchRule, error) {
	return f.rules, f.err
}

type fakeChatSender struct {
	roomID string
	body   string
	calls  int
	err    error
}

func (f *fakeChatSender) SendRoomMessage(ctx context.Context, roomID, body string) error {
	f.calls++
	f.roomID = roomID
	f.body = body
	return f.err
}

type fakeMailSender struct {
	to      string
	subject string
	body    string
	calls   int
	err     error
}

func (f *fakeMailSender) Send(ctx context.Context, to, subject, body string) error {
	f.calls++
	f.to = to
	f.subject = subject
	f.body = body
	return f.err
}

func strptr(s string) *string { return &s }

func mediaRule(id, keywords, url string) models.DispatchRule {
	r := models.DispatchRule{TerminalName: "テスト端末1"}
	r.ID = id
	r.Keywords = keywords
	r.Condition = models.ConditionOr
	r.Type = models.ActionTypeMedia
	if url != "" {
		r.MediaURL = strptr(url)
	}
	return r
}

func chatworkRule(id, keywords string, template, chatworkID *string) models.DispatchRule {
	r := models.DispatchRule{TerminalName: "テスト端末1"}
	r.ID = id
	r.Keywords = keywords
	r.Condition = models.ConditionOr
	r.Type = models.ActionTypeChatwork
	r.TemplateContent = template
	if chatworkID != nil {
		r.User = &models.RuleTarget{ID: "u1", FirstName: "Taro", LastName: "Yamada", ChatworkID: chatworkID}
	}
	return r
}

func newTestDispatcher(rules *fakeRuleSource, chat *fakeChatSender, mail *fakeMailSender) *Dispatcher {
	d := NewDispatcher(rules, chat, mail)
	d.now = func() time.Time { return time.Date(2025, 4, 1, 9, 5, 0, 0, time.Local) }
	return d
}

func TestProcessMessageFirstMatchWins(t *testing.T) {
	chat := &fakeChatSender{}
	mail := &fakeMailSender{}
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		mediaRule("rule-a", "hello", "https://cdn.example.com/x.mp4"),
		chatworkRule("rule-b", "hello", strptr("{message}"), strptr("room42")),
	}}

	result, err := newTestDispatcher(rules, chat, mail).ProcessMessage(
		context.Background(), "term-1", "hello there", "msg-1", "")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "https://cdn.example.com/x.mp4", result.MediaURL)
	assert.Zero(t, chat.calls, "later rules must never run once one matched")
	assert.Zero(t, mail.calls)
}

func TestProcessMessageSkipsNonMatchingRules(t *testing.T) {
	chat := &fakeChatSender{}
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		mediaRule("rule-a", "goodbye", "https://cdn.example.com/x.mp4"),
		chatworkRule("rule-b", "hello", strptr("呼出: {message}"), strptr("room42")),
	}}

	result, err := newTestDispatcher(rules, chat, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "hello", "msg-1", "")

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, chat.calls)
	assert.Equal(t, "room42", chat.roomID)
	assert.Equal(t, "呼出: hello", chat.body)
}

func TestProcessMessageNoRuleMatches(t *testing.T) {
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		mediaRule("rule-a", "hello", "https://cdn.example.com/x.mp4"),
	}}

	result, err := newTestDispatcher(rules, &fakeChatSender{}, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "unrelated", "msg-1", "")

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestProcessMessageMissingDestinationIsSilentNoOp(t *testing.T) {
	chat := &fakeChatSender{}
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		// Matches but has no chatwork destination
		chatworkRule("rule-a", "hello", strptr("{message}"), nil),
		// Would match, but the first matched rule already stopped dispatch
		chatworkRule("rule-b", "hello", strptr("{message}"), strptr("room42")),
	}}

	result, err := newTestDispatcher(rules, chat, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "hello", "msg-1", "")

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Zero(t, chat.calls)
}

func TestProcessMessageMissingTemplateIsSilentNoOp(t *testing.T) {
	chat := &fakeChatSender{}
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		chatworkRule("rule-a", "hello", nil, strptr("room42")),
	}}

	result, err := newTestDispatcher(rules, chat, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "hello", "msg-1", "")

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Zero(t, chat.calls)
}

func TestProcessMessageMediaWithoutURLStops(t *testing.T) {
	chat := &fakeChatSender{}
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		mediaRule("rule-a", "hello", ""),
		chatworkRule("rule-b", "hello", strptr("{message}"), strptr("room42")),
	}}

	result, err := newTestDispatcher(rules, chat, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "hello", "msg-1", "")

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Zero(t, chat.calls)
}

func TestProcessMessageChatworkDeliveryErrorPropagates(t *testing.T) {
	chat := &fakeChatSender{err: errors.New("room gone")}
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		chatworkRule("rule-a", "hello", strptr("{message}"), strptr("room42")),
	}}

	_, err := newTestDispatcher(rules, chat, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "hello", "msg-1", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule-a")
}

func TestProcessMessageEmailSubjectAndTemplate(t *testing.T) {
	mail := &fakeMailSender{}
	r := models.DispatchRule{TerminalName: "テスト端末1"}
	r.ID = "rule-a"
	r.Keywords = "呼び出し"
	r.Condition = models.ConditionOr
	r.Type = models.ActionTypeEmail
	r.TemplateContent = strptr("{terminal}: {prevmessage} / {message}")
	r.User = &models.RuleTarget{
		ID:        "u1",
		FirstName: "太郎",
		LastName:  "山田",
		Email:     strptr("taro@example.com"),
	}
	rules := &fakeRuleSource{rules: []models.DispatchRule{r}}

	result, err := newTestDispatcher(rules, &fakeChatSender{}, mail).ProcessMessage(
		context.Background(), "term-1", "呼び出しお願いします", "msg-1", "")

	require.NoError(t, err)
	assert.Nil(t, result)
	require.Equal(t, 1, mail.calls)
	assert.Equal(t, "taro@example.com", mail.to)
	assert.Equal(t, "【AICO】お客さまから呼び出し（山田太郎 さん宛て）", mail.subject)
	assert.Equal(t, "テスト端末1: 前回の会話はありません / 呼び出しお願いします", mail.body)
}

func TestProcessMessagePreviousMessageRendered(t *testing.T) {
	chat := &fakeChatSender{}
	rules := &fakeRuleSource{rules: []models.DispatchRule{
		chatworkRule("rule-a", "相談", strptr("前回: {prevmessage}"), strptr("room42")),
	}}

	_, err := newTestDispatcher(rules, chat, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "相談があります", "msg-1", "こんにちは")

	require.NoError(t, err)
	assert.Equal(t, "前回: こんにちは", chat.body)
}

func TestProcessMessageRuleSourceError(t *testing.T) {
	rules := &fakeRuleSource{err: errors.New("db down")}

	_, err := newTestDispatcher(rules, &fakeChatSender{}, &fakeMailSender{}).ProcessMessage(
		context.Background(), "term-1", "hello", "msg-1", "")

	require.Error(t, err)
}
