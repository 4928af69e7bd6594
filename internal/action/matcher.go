package action

import (
	"strings"

	"github.com/aicoconsole/pkg/models"
)

// Matches reports whether message satisfies a rule's keyword condition.
// Matching is plain case-sensitive substring containment with no tokenization:
// AND requires every keyword to appear in the message, OR requires at least one.
func Matches(message string, keywords []string, condition string) bool {
	if condition == models.ConditionAnd {
		for _, keyword := range keywords {
			if !strings.Contains(message, keyword) {
				return false
			}
		}
		return true
	}

	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

// SplitKeywords splits the comma-joined stored form into trimmed keywords,
// dropping empty entries. Rules are never persisted with an empty keyword set;
// that is enforced at rule creation time, not here.
func SplitKeywords(stored string) []string {
	parts := strings.Split(stored, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

// JoinKeywords normalizes a keyword list into the comma-joined stored form.
// Entries are trimmed and empties dropped; an empty result means the input
// held no usable keywords and the rule must be rejected.
func JoinKeywords(keywords []string) string {
	cleaned := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}
