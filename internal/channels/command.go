package channels

import (
	"strings"
	"unicode"
)

// ParseCommand splits "<prefix><name>[@bot] <args>" into a lowercase command
// name and its trimmed arguments. ok is false when text is not a command.
func ParseCommand(text, prefix string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", "", false
	}
	rest := text[len(prefix):]
	head, tail := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		head, tail = rest[:i], rest[i:]
	}
	// Telegram appends "@botname" in groups.
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(tail), true
}
