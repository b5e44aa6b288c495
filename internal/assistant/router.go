// Package assistant routes user text and commands to knowledge base answers,
// follow-up suggestions and canned replies.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/conversation"
	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
	"github.com/nextlevelbuilder/danangbot/internal/locale"
	"github.com/nextlevelbuilder/danangbot/internal/places"
)

const defaultEnrichTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/nextlevelbuilder/danangbot/internal/assistant")

var thanksReplies = []string{knowledge.MsgThanks1, knowledge.MsgThanks2, knowledge.MsgThanks3}

// Request is one user turn.
type Request struct {
	UserID  string // channel-scoped user key
	Text    string // message text, or command arguments
	Mention string // how to address the user; localized default when empty
	Prefix  string // command prefix as seen by the user; router default when empty
}

// Reply is the assistant's response. Text is always set for non-empty
// replies so plain-text transports can ignore Answer and Menu.
type Reply struct {
	Text   string      `json:"text"`
	Answer *bus.Answer `json:"answer,omitempty"`
	Menu   *bus.Menu   `json:"menu,omitempty"`
	React  bool        `json:"react,omitempty"`
}

// IsEmpty reports whether the reply should be sent at all.
func (r Reply) IsEmpty() bool {
	return r.Text == "" && r.Answer == nil && r.Menu == nil
}

// Config holds Router dependencies. KB and Store are required.
type Config struct {
	KB            *knowledge.KnowledgeBase
	Store         conversation.Store
	Enricher      places.Enricher // nil disables enrichment
	EnrichTimeout time.Duration
	CommandPrefix string
	NotAvailable  string
	Intn          func(n int) int // picks thanks replies; math/rand when nil
}

// Router answers user turns. All state access for one user is serialized.
type Router struct {
	kb            *knowledge.KnowledgeBase
	store         conversation.Store
	res           *locale.Resolver
	followUp      *conversation.FollowUpResponder
	locks         *conversation.KeyedMutex
	enricher      places.Enricher
	enrichTimeout time.Duration
	prefix        string
	keywords      []string
	intn          func(n int) int
}

// New creates a Router.
func New(cfg Config) *Router {
	res := locale.NewResolver(cfg.KB, cfg.Store, cfg.NotAvailable)
	r := &Router{
		kb:            cfg.KB,
		store:         cfg.Store,
		res:           res,
		followUp:      conversation.NewFollowUpResponder(cfg.KB, res, cfg.Store),
		locks:         conversation.NewKeyedMutex(),
		enricher:      cfg.Enricher,
		enrichTimeout: cfg.EnrichTimeout,
		prefix:        cfg.CommandPrefix,
		intn:          cfg.Intn,
	}
	if r.enrichTimeout <= 0 {
		r.enrichTimeout = defaultEnrichTimeout
	}
	if r.prefix == "" {
		r.prefix = "!"
	}
	if r.intn == nil {
		r.intn = rand.IntN
	}

	r.keywords = append(r.keywords, domainKeywords...)
	for _, e := range cfg.KB.Entries() {
		r.keywords = append(r.keywords, knowledge.SpacedKey(e.Key))
	}
	return r
}

// KB returns the knowledge base the router answers from.
func (r *Router) KB() *knowledge.KnowledgeBase { return r.kb }

// HandleMessage classifies ambient text. ok is false when the bot should stay silent.
func (r *Router) HandleMessage(ctx context.Context, req Request) (reply Reply, ok bool) {
	ctx, span := r.startSpan(ctx, "assistant.message", req)
	defer span.End()

	unlock := r.locks.Lock(req.UserID)
	defer unlock()

	text := normalize(req.Text)
	if text == "" {
		return Reply{}, false
	}

	switch {
	case startsWithPhrase(text, greetingPhrases):
		span.SetAttributes(attribute.String("assistant.intent", "greeting"))
		return Reply{Text: r.greeting(req)}, true

	case containsAny(text, thanksPhrases):
		span.SetAttributes(attribute.String("assistant.intent", "thanks"))
		key := thanksReplies[r.intn(len(thanksReplies))]
		return Reply{Text: r.res.Message(req.UserID, key, nil)}, true
	}

	isFollowUp := containsWord(text, followUpPhrases)
	if isFollowUp && r.store.Get(req.UserID).HasTopic() {
		span.SetAttributes(attribute.String("assistant.intent", "follow_up"))
		return Reply{Text: r.buildFollowUp(req.UserID)}, true
	}

	if !containsAny(text, r.keywords) {
		return Reply{}, false
	}

	span.SetAttributes(attribute.String("assistant.intent", "topic"))
	if key, category, found := r.kb.FindTopic(text); found {
		if e, ok := r.kb.Lookup(category, key); ok {
			return r.answerTopic(ctx, req.UserID, e), true
		}
	}
	if isFollowUp {
		r.store.ClearTopic(req.UserID)
		return Reply{Text: r.res.Message(req.UserID, knowledge.MsgNoLastTopic, nil)}, true
	}
	return Reply{Text: r.hint(req)}, true
}

// Ask answers an explicit question: only topic matching runs.
func (r *Router) Ask(ctx context.Context, req Request) Reply {
	ctx, span := r.startSpan(ctx, "assistant.ask", req)
	defer span.End()

	unlock := r.locks.Lock(req.UserID)
	defer unlock()

	if strings.TrimSpace(req.Text) == "" {
		return Reply{Text: r.res.Message(req.UserID, knowledge.MsgAskNoQuery, nil)}
	}
	if key, category, found := r.kb.FindTopic(req.Text); found {
		if e, ok := r.kb.Lookup(category, key); ok {
			return r.answerTopic(ctx, req.UserID, e)
		}
	}
	return Reply{Text: r.res.Message(req.UserID, knowledge.MsgAskNoInfo, map[string]string{
		"command": r.command(req, CommandMenu),
	})}
}

// Select answers a topic chosen from the menu; req.Text is the topic key.
func (r *Router) Select(ctx context.Context, req Request) Reply {
	ctx, span := r.startSpan(ctx, "assistant.select", req)
	defer span.End()

	unlock := r.locks.Lock(req.UserID)
	defer unlock()

	key := normalize(req.Text)
	if e, ok := r.kb.Lookup(knowledge.CategoryPlaces, key); ok {
		return r.answerTopic(ctx, req.UserID, e)
	}
	for _, e := range r.kb.Entries() {
		if e.Key == key {
			return r.answerTopic(ctx, req.UserID, e)
		}
	}
	return Reply{Text: r.res.Message(req.UserID, knowledge.MsgAskNoInfo, map[string]string{
		"command": r.command(req, CommandMenu),
	})}
}

// Menu lists the places as selectable options.
func (r *Router) Menu(req Request) Reply {
	unlock := r.locks.Lock(req.UserID)
	defer unlock()

	menu := &bus.Menu{
		Prompt:      r.res.Message(req.UserID, knowledge.MsgSelectPlacePrompt, nil),
		Placeholder: r.res.Message(req.UserID, knowledge.MsgSelectPlacePlaceholder, nil),
	}
	var sb strings.Builder
	sb.WriteString(menu.Prompt)
	for _, e := range r.kb.Topics(knowledge.CategoryPlaces) {
		opt := bus.MenuOption{
			Label:       r.res.ResolveTitle(req.UserID, e),
			Value:       e.Key,
			Description: r.res.ResolveTagline(req.UserID, e),
		}
		menu.Options = append(menu.Options, opt)

		sb.WriteString("\n• ")
		sb.WriteString(opt.Label)
		if opt.Description != "" {
			sb.WriteString(" - ")
			sb.WriteString(opt.Description)
		}
	}
	return Reply{Text: sb.String(), Menu: menu}
}

// Language shows (empty req.Text) or sets the user's language.
func (r *Router) Language(req Request) Reply {
	unlock := r.locks.Lock(req.UserID)
	defer unlock()

	code := normalize(req.Text)
	if code == "" {
		current := r.res.Lang(req.UserID)
		return Reply{Text: r.res.Message(req.UserID, knowledge.MsgLanguageCurrent, map[string]string{
			"language": locale.Name(current),
			"command":  r.command(req, CommandLanguage),
		})}
	}

	if err := r.store.SetLanguage(req.UserID, code); err != nil {
		if !errors.Is(err, conversation.ErrUnsupportedLanguage) {
			slog.Warn("set language failed", "user", req.UserID, "error", err)
		}
		return Reply{Text: r.res.Message(req.UserID, knowledge.MsgLanguageUnsupported, map[string]string{
			"code":  code,
			"codes": strings.Join(locale.Supported, ", "),
		})}
	}
	return Reply{Text: r.res.Message(req.UserID, knowledge.MsgLanguageSet, map[string]string{
		"language": locale.Name(code),
	})}
}

// Help lists the commands with the user's prefix.
func (r *Router) Help(req Request) Reply {
	unlock := r.locks.Lock(req.UserID)
	defer unlock()

	return Reply{Text: r.res.Message(req.UserID, knowledge.MsgHelp, map[string]string{
		"command_danang":    r.command(req, CommandMenu),
		"command_askdanang": r.command(req, CommandAsk) + " <question>",
		"command_language":  r.command(req, CommandLanguage) + " <en|vi>",
	})}
}

// ErrorReply is the localized generic failure message.
func (r *Router) ErrorReply(userID string) Reply {
	return Reply{Text: r.res.Message(userID, knowledge.MsgGenericError, nil)}
}

func (r *Router) answerTopic(ctx context.Context, userID string, e knowledge.Entry) Reply {
	a := r.buildAnswer(ctx, userID, e)
	r.store.SetTopic(userID, e.Key, e.Category)
	return Reply{
		Text:   a.Title + "\n\n" + a.Body,
		Answer: &a,
		React:  e.Category == knowledge.CategoryPlaces,
	}
}

func (r *Router) buildFollowUp(userID string) string {
	text, err := r.followUp.Build(userID)
	if err == nil {
		return text
	}
	r.store.ClearTopic(userID)
	if errors.Is(err, conversation.ErrNoLastTopic) {
		return r.res.Message(userID, knowledge.MsgNoLastTopic, nil)
	}
	return r.res.Message(userID, knowledge.MsgFollowUpFail, nil)
}

func (r *Router) greeting(req Request) string {
	mention := req.Mention
	if mention == "" {
		mention = r.res.Message(req.UserID, knowledge.MsgDefaultMention, nil)
	}
	return strings.Join([]string{
		r.res.Message(req.UserID, knowledge.MsgGeneralIntro, map[string]string{"mention": mention}),
		r.res.Message(req.UserID, knowledge.MsgGeneralTopics, nil),
		r.res.Message(req.UserID, knowledge.MsgUseMenuHint, map[string]string{"command": r.command(req, CommandMenu)}),
	}, "\n\n")
}

func (r *Router) hint(req Request) string {
	return r.res.Message(req.UserID, knowledge.MsgGeneralTopics, nil) + "\n\n" +
		r.res.Message(req.UserID, knowledge.MsgUseMenuHint, map[string]string{"command": r.command(req, CommandMenu)})
}

func (r *Router) command(req Request, name string) string {
	prefix := req.Prefix
	if prefix == "" {
		prefix = r.prefix
	}
	return prefix + name
}

func (r *Router) startSpan(ctx context.Context, name string, req Request) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("user.id", req.UserID)))
}
