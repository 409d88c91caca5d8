package brain

import (
	"regexp"
	"strings"
)

var trailingBlankPattern = regexp.MustCompile(`[ \t]+\n`)

// SanitizeDraft removes spaces and tabs that end a line and trims the result.
func SanitizeDraft(draft string) string {
	return strings.TrimSpace(trailingBlankPattern.ReplaceAllString(draft, "\n"))
}

// isPlaceholder reports values models emit instead of leaving a list empty.
func isPlaceholder(s string) bool {
	return strings.EqualFold(s, "unknown") || strings.EqualFold(s, "[unknown]")
}
