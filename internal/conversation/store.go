// Package conversation tracks per-user conversational state: the last topic
// discussed and the preferred language. State lives in memory only.
package conversation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
	"github.com/nextlevelbuilder/danangbot/internal/locale"
)

// ErrUnsupportedLanguage is returned by SetLanguage for unknown codes.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// State is the conversational context of one user. Empty fields mean none.
type State struct {
	LastTopic    string `json:"last_topic,omitempty"`
	LastCategory string `json:"last_category,omitempty"`
}

// HasTopic reports whether a topic was resolved for the user.
func (s State) HasTopic() bool { return s.LastCategory != "" }

// Store holds conversation state and language preferences per user.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(userID string) State
	SetTopic(userID, key, category string)
	ClearTopic(userID string)
	Language(userID string) string
	SetLanguage(userID, code string) error
}

// MemoryStore is an in-memory Store. Last writer wins.
type MemoryStore struct {
	mu          sync.RWMutex
	states      map[string]State
	langs       map[string]string
	defaultLang string
}

// NewMemoryStore creates a store. An unsupported defaultLang falls back to en.
func NewMemoryStore(defaultLang string) *MemoryStore {
	if !locale.IsSupported(defaultLang) {
		defaultLang = knowledge.DefaultLanguage
	}
	return &MemoryStore{
		states:      make(map[string]State),
		langs:       make(map[string]string),
		defaultLang: defaultLang,
	}
}

func (s *MemoryStore) Get(userID string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[userID]
}

func (s *MemoryStore) SetTopic(userID, key, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = State{LastTopic: key, LastCategory: category}
}

func (s *MemoryStore) ClearTopic(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// Language returns the user's language, or the store default when unset.
func (s *MemoryStore) Language(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.langs[userID]; ok {
		return l
	}
	return s.defaultLang
}

// SetLanguage records the preference. On error the preference is unchanged.
func (s *MemoryStore) SetLanguage(userID, code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !locale.IsSupported(code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.langs[userID] = code
	return nil
}

// Users returns the number of users with a stored topic or preference.
func (s *MemoryStore) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(s.states)+len(s.langs))
	for k := range s.states {
		seen[k] = struct{}{}
	}
	for k := range s.langs {
		seen[k] = struct{}{}
	}
	return len(seen)
}
