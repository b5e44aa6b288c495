// Package knowledge holds the bilingual Da Nang knowledge base: ordered topic
// records grouped by category, plus the UI message table.
package knowledge

import (
	"errors"
	"fmt"
	"strings"
)

// Category names, in match order.
const (
	CategoryOverview     = "overview"
	CategoryPlaces       = "places"
	CategoryTraditions   = "traditions"
	CategorySurroundings = "surroundings"
	CategoryVisitingInfo = "visiting_info"

	// CategoryMessages addresses the UI message table through Text.
	CategoryMessages = "messages"
)

// DefaultLanguage is the language every entry must carry.
const DefaultLanguage = "en"

// ErrInvalid is returned when a knowledge base fails validation.
var ErrInvalid = errors.New("invalid knowledge base")

// Translations maps a language code to text in that language.
type Translations map[string]string

// Entry is one topic of the knowledge base.
type Entry struct {
	Category string
	Key      string
	Title    Translations
	Text     Translations
	Tagline  Translations // optional, shown in menus
}

// KnowledgeBase is immutable after construction and safe for concurrent reads.
type KnowledgeBase struct {
	entries    []Entry
	index      map[string]int // category + "/" + key
	categories []string
	messages   map[string]Translations
}

// New validates entries and messages and builds a knowledge base.
// Entry order is preserved; it defines topic match priority.
func New(entries []Entry, messages map[string]Translations) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		entries:  make([]Entry, 0, len(entries)),
		index:    make(map[string]int, len(entries)),
		messages: make(map[string]Translations, len(messages)),
	}

	seenCategory := make(map[string]bool)
	for _, e := range entries {
		if e.Category == "" || e.Key == "" {
			return nil, fmt.Errorf("%w: entry with empty category or key", ErrInvalid)
		}
		if e.Key != strings.ToLower(e.Key) || strings.ContainsAny(e.Key, " \t\n") {
			return nil, fmt.Errorf("%w: key %q must be lowercase without spaces", ErrInvalid, e.Key)
		}
		if e.Category == CategoryMessages {
			return nil, fmt.Errorf("%w: %q is reserved", ErrInvalid, CategoryMessages)
		}
		if e.Text[DefaultLanguage] == "" {
			return nil, fmt.Errorf("%w: %s/%s has no %s text", ErrInvalid, e.Category, e.Key, DefaultLanguage)
		}
		if e.Title[DefaultLanguage] == "" {
			return nil, fmt.Errorf("%w: %s/%s has no %s title", ErrInvalid, e.Category, e.Key, DefaultLanguage)
		}
		id := e.Category + "/" + e.Key
		if _, dup := kb.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate topic %s", ErrInvalid, id)
		}
		if !seenCategory[e.Category] {
			seenCategory[e.Category] = true
			kb.categories = append(kb.categories, e.Category)
		}
		kb.index[id] = len(kb.entries)
		kb.entries = append(kb.entries, e)
	}
	if len(kb.entries) == 0 {
		return nil, fmt.Errorf("%w: no topics", ErrInvalid)
	}

	for key, t := range messages {
		if t[DefaultLanguage] == "" {
			return nil, fmt.Errorf("%w: message %q has no %s text", ErrInvalid, key, DefaultLanguage)
		}
		kb.messages[key] = t
	}
	return kb, nil
}

// Entries returns all topics in match order.
func (kb *KnowledgeBase) Entries() []Entry {
	out := make([]Entry, len(kb.entries))
	copy(out, kb.entries)
	return out
}

// Categories returns category names in declaration order.
func (kb *KnowledgeBase) Categories() []string {
	out := make([]string, len(kb.categories))
	copy(out, kb.categories)
	return out
}

// Topics returns the topics of one category in declaration order.
func (kb *KnowledgeBase) Topics(category string) []Entry {
	var out []Entry
	for _, e := range kb.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds a topic. An empty category addresses top-level topics,
// which are the entries of the overview category.
func (kb *KnowledgeBase) Lookup(category, key string) (Entry, bool) {
	if category == "" {
		category = CategoryOverview
	}
	i, ok := kb.index[category+"/"+key]
	if !ok {
		return Entry{}, false
	}
	return kb.entries[i], true
}

// Message returns a UI message by key.
func (kb *KnowledgeBase) Message(key string) (Translations, bool) {
	t, ok := kb.messages[key]
	return t, ok
}

// Text returns the translations addressed by (category, key): topic text for
// topic categories, the message table for CategoryMessages.
func (kb *KnowledgeBase) Text(category, key string) (Translations, bool) {
	if category == CategoryMessages {
		return kb.Message(key)
	}
	e, ok := kb.Lookup(category, key)
	if !ok {
		return nil, false
	}
	return e.Text, true
}
