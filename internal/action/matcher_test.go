package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aicoconsole/pkg/models"
)

func TestMatchesOr(t *testing.T) {
	keywords := []string{"問い合わせ", "相談", "連絡"}

	assert.True(t, Matches("至急ご相談があります", keywords, models.ConditionOr))
	assert.True(t, Matches("問い合わせです", keywords, models.ConditionOr))
	assert.False(t, Matches("こんにちは", keywords, models.ConditionOr))
}

func TestMatchesAnd(t *testing.T) {
	keywords := []string{"予約", "変更"}

	assert.True(t, Matches("予約の変更をお願いします", keywords, models.ConditionAnd))
	assert.False(t, Matches("予約をお願いします", keywords, models.ConditionAnd))
	assert.False(t, Matches("変更してください", keywords, models.ConditionAnd))
}

func TestMatchesIsCaseSensitive(t *testing.T) {
	assert.True(t, Matches("please HELP me", []string{"HELP"}, models.ConditionOr))
	assert.False(t, Matches("please help me", []string{"HELP"}, models.ConditionOr))
}

func TestMatchesSubstringNotToken(t *testing.T) {
	// Containment matches inside larger words too
	assert.True(t, Matches("ご連絡先を教えて", []string{"連絡"}, models.ConditionOr))
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"問い合わせ", "相談", "連絡"}, SplitKeywords("問い合わせ,相談,連絡"))
	assert.Equal(t, []string{"a", "b"}, SplitKeywords(" a , ,b, "))
	assert.Empty(t, SplitKeywords(""))
	assert.Empty(t, SplitKeywords(" , ,"))
}

func TestJoinKeywords(t *testing.T) {
	assert.Equal(t, "予約,変更", JoinKeywords([]string{" 予約 ", "", "変更"}))
	assert.Equal(t, "", JoinKeywords([]string{"  ", ""}))
}

func TestSplitJoinRoundTrip(t *testing.T) {
	stored := JoinKeywords([]string{"問い合わせ", " 相談"})
	assert.Equal(t, []string{"問い合わせ", "相談"}, SplitKeywords(stored))
}
