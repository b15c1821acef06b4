package relay

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPostMaxChars is the longest primary post text kept before truncation.
	DefaultPostMaxChars = 197
	ellipsis            = "..."
)

// ComposeText joins title and description with a newline and truncates the result
// to limit runes, appending an ellipsis only when something was cut.
func ComposeText(title, description string, limit int) string {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	text := title
	if description != "" {
		text = title + "\n" + description
	}
	return Truncate(text, limit)
}

// Truncate cuts s to limit runes plus an ellipsis when it is longer than limit.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + ellipsis
}
