package assistant

import (
	"context"
	"log/slog"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
	"github.com/nextlevelbuilder/danangbot/internal/places"
)

func (r *Router) buildAnswer(ctx context.Context, userID string, e knowledge.Entry) bus.Answer {
	a := bus.Answer{
		Title:    r.res.ResolveTitle(userID, e),
		Body:     r.res.Resolve(userID, e.Key, e.Category),
		Category: e.Category,
		TopicKey: e.Key,
		Labels: bus.Labels{
			Location:  r.res.Message(userID, knowledge.MsgLocationField, nil),
			Rating:    r.res.Message(userID, knowledge.MsgRatingField, nil),
			Reviews:   r.res.Message(userID, knowledge.MsgReviewsText, nil),
			ViewOnMap: r.res.Message(userID, knowledge.MsgViewOnMaps, nil),
		},
	}
	r.enrich(ctx, e, &a)
	return a
}

// enrich adds place details to a. The body stays the knowledge base text;
// any failure leaves a unchanged.
func (r *Router) enrich(ctx context.Context, e knowledge.Entry, a *bus.Answer) {
	if r.enricher == nil || !enrichable(e.Category) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.enrichTimeout)
	defer cancel()

	p, err := r.enricher.Lookup(ctx, e.Key, places.SearchQuery(e.Title[knowledge.DefaultLanguage]))
	if err != nil {
		slog.Warn("place enrichment unavailable, using static text", "topic", e.Key, "error", err)
		return
	}
	a.ImageURL = p.PhotoURL
	a.MapURL = p.MapURL
	a.Address = p.Address
	a.Rating = p.Rating
	a.ReviewCount = p.ReviewCount
}

func enrichable(category string) bool {
	return category == knowledge.CategoryPlaces || category == knowledge.CategorySurroundings
}
