package assistant

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// startsWithPhrase reports whether text begins with one of phrases followed by
// a word boundary, so "hi there" matches "hi" but "history" does not.
func startsWithPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if !strings.HasPrefix(text, p) {
			continue
		}
		if boundaryAfter(text, len(p)) {
			return true
		}
	}
	return false
}

// containsWord reports whether one of phrases occurs in text as whole words,
// so "other" matches "any other place" but not "my brother".
func containsWord(text string, phrases []string) bool {
	for _, p := range phrases {
		for from := 0; from < len(text); {
			i := strings.Index(text[from:], p)
			if i < 0 {
				break
			}
			start := from + i
			if boundaryBefore(text, start) && boundaryAfter(text, start+len(p)) {
				return true
			}
			_, size := utf8.DecodeRuneInString(text[start:])
			from = start + size
		}
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
