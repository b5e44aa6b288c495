package conversation

import (
	"errors"
	"strings"

	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
	"github.com/nextlevelbuilder/danangbot/internal/locale"
)

var (
	// ErrNoLastTopic means the user has not asked about anything yet.
	ErrNoLastTopic = errors.New("no last topic")
	// ErrFollowUpUnavailable means nothing could be suggested for the last topic.
	ErrFollowUpUnavailable = errors.New("follow-up unavailable")
)

// StateReader is the read side of Store.
type StateReader interface {
	Get(userID string) State
}

// FollowUpResponder suggests what to ask next based on the last topic.
type FollowUpResponder struct {
	kb     *knowledge.KnowledgeBase
	res    *locale.Resolver
	states StateReader
}

// NewFollowUpResponder creates a FollowUpResponder.
func NewFollowUpResponder(kb *knowledge.KnowledgeBase, res *locale.Resolver, states StateReader) *FollowUpResponder {
	return &FollowUpResponder{kb: kb, res: res, states: states}
}

// Build assembles the follow-up text for userID. It never mutates state.
func (f *FollowUpResponder) Build(userID string) (string, error) {
	st := f.states.Get(userID)
	if !st.HasTopic() {
		return "", ErrNoLastTopic
	}

	var parts []string
	switch st.LastCategory {
	case knowledge.CategoryPlaces, knowledge.CategorySurroundings:
		if items := f.otherTitles(userID, st); len(items) > 0 {
			parts = append(parts,
				f.res.Message(userID, knowledge.MsgOtherPlaces, map[string]string{"items": strings.Join(items, ", ")}),
				f.res.Message(userID, knowledge.MsgAskTraditionsVisiting, nil),
			)
		}
	case knowledge.CategoryTraditions:
		if items := f.otherTitles(userID, st); len(items) > 0 {
			parts = append(parts,
				f.res.Message(userID, knowledge.MsgOtherTraditions, map[string]string{"items": strings.Join(items, ", ")}),
				f.res.Message(userID, knowledge.MsgAskPlacesVisiting, nil),
			)
		}
	case knowledge.CategoryVisitingInfo:
		parts = append(parts, f.res.Message(userID, knowledge.MsgAskAfterVisiting, nil))
	case knowledge.CategoryOverview:
		parts = append(parts, f.res.Message(userID, knowledge.MsgAskAfterOverview, nil))
	}

	if len(parts) == 0 {
		return "", ErrFollowUpUnavailable
	}
	return strings.Join(parts, "\n\n"), nil
}

func (f *FollowUpResponder) otherTitles(userID string, st State) []string {
	var items []string
	for _, e := range f.kb.Topics(st.LastCategory) {
		if e.Key == st.LastTopic {
			continue
		}
		items = append(items, f.res.ResolveTitle(userID, e))
	}
	return items
}
