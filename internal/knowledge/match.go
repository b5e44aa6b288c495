package knowledge

import (
	"slices"
	"strings"
)

// FindTopic resolves free text to the first topic it mentions.
//
// A topic matches when its key appears as a whole token of the lowercased
// query, or when the key with underscores read as spaces appears anywhere in
// it. Topics are tried in declaration order and the first match wins.
func (kb *KnowledgeBase) FindTopic(query string) (key, category string, ok bool) {
	normalized := strings.ToLower(query)
	tokens := strings.Fields(normalized)
	for _, e := range kb.entries {
		if slices.Contains(tokens, e.Key) || strings.Contains(normalized, SpacedKey(e.Key)) {
			return e.Key, e.Category, true
		}
	}
	return "", "", false
}

// SpacedKey renders a topic key the way users type it ("dragon bridge").
func SpacedKey(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
