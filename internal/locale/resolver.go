// Package locale resolves knowledge base text in a user's language.
package locale

import (
	"slices"
	"strings"

	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
)

// DefaultNotAvailable is returned when a key cannot be resolved.
const DefaultNotAvailable = "Information not available."

// Supported language codes, in display order.
var Supported = []string{"en", "vi"}

var names = map[string]string{
	"en": "English",
	"vi": "Tiếng Việt",
}

// IsSupported reports whether code is a supported language.
func IsSupported(code string) bool {
	return slices.Contains(Supported, code)
}

// Name returns the display name of a language code.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// LanguageSource reports a user's preferred language.
type LanguageSource interface {
	Language(userID string) string
}

// Resolver resolves localized text for users. It has no side effects.
type Resolver struct {
	kb           *knowledge.KnowledgeBase
	langs        LanguageSource
	notAvailable string
}

// NewResolver creates a Resolver. An empty notAvailable uses DefaultNotAvailable.
func NewResolver(kb *knowledge.KnowledgeBase, langs LanguageSource, notAvailable string) *Resolver {
	if notAvailable == "" {
		notAvailable = DefaultNotAvailable
	}
	return &Resolver{kb: kb, langs: langs, notAvailable: notAvailable}
}

// Chain returns the lookup order for a preferred language.
func Chain(preferred string) []string {
	if preferred == "" || preferred == knowledge.DefaultLanguage {
		return []string{knowledge.DefaultLanguage}
	}
	return []string{preferred, knowledge.DefaultLanguage}
}

// Pick returns the first non-empty translation in chain order.
func Pick(t knowledge.Translations, chain []string) (string, bool) {
	for _, lang := range chain {
		if s := t[lang]; s != "" {
			return s, true
		}
	}
	return "", false
}

// Lang returns the user's preferred language.
func (r *Resolver) Lang(userID string) string {
	return r.langs.Language(userID)
}

// Resolve returns the text for (category, key) in the user's language.
// An empty category addresses top-level topics.
func (r *Resolver) Resolve(userID, key, category string) string {
	t, ok := r.kb.Text(category, key)
	if !ok {
		return r.notAvailable
	}
	return r.pick(userID, t)
}

// ResolveTitle returns a topic title in the user's language.
func (r *Resolver) ResolveTitle(userID string, e knowledge.Entry) string {
	return r.pick(userID, e.Title)
}

// ResolveTagline returns a topic tagline, or "" when the topic has none.
func (r *Resolver) ResolveTagline(userID string, e knowledge.Entry) string {
	s, _ := Pick(e.Tagline, Chain(r.Lang(userID)))
	return s
}

// Message resolves a UI message and substitutes {name} placeholders.
func (r *Resolver) Message(userID, key string, vars map[string]string) string {
	return Format(r.Resolve(userID, key, knowledge.CategoryMessages), vars)
}

func (r *Resolver) pick(userID string, t knowledge.Translations) string {
	if s, ok := Pick(t, Chain(r.Lang(userID))); ok {
		return s
	}
	return r.notAvailable
}

// Format replaces {name} placeholders with vars. Unknown placeholders are kept.
func Format(s string, vars map[string]string) string {
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
