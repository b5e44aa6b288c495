// Package places enriches topic answers with Google Places details:
// address, rating, photo and map link.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultTextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultPhotoURL      = "https://maps.googleapis.com/maps/api/place/photo"
	mapsPlaceURL         = "https://www.google.com/maps/place/?q=place_id:"
	photoMaxWidth        = 400
	defaultCacheSize     = 100
	defaultCacheTTL      = time.Hour
	defaultFetchTimeout  = 10 * time.Second
)

// ErrUnavailable wraps every lookup failure. Callers fall back to static text.
var ErrUnavailable = errors.New("place enrichment unavailable")

var tracer = otel.Tracer("github.com/nextlevelbuilder/danangbot/internal/places")

// Place is the enrichment data for one topic. Zero values mean unknown.
type Place struct {
	Name        string  `json:"name"`
	Address     string  `json:"address,omitempty"`
	MapURL      string  `json:"map_url,omitempty"`
	PhotoURL    string  `json:"photo_url,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
}

// Enricher looks up place details for a topic. query is the search text.
type Enricher interface {
	Lookup(ctx context.Context, topicKey, query string) (*Place, error)
}

// Client is a cached Google Places text-search Enricher. Concurrent lookups
// for the same topic share one request.
type Client struct {
	apiKey        string
	textSearchURL string
	photoURL      string
	client        *http.Client
	limiter       *rate.Limiter
	cache         *expirable.LRU[string, *Place]
	group         singleflight.Group
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	textSearchURL string
	photoURL      string
	httpClient    *http.Client
	cacheSize     int
	cacheTTL      time.Duration
	rps           float64
}

func WithTextSearchURL(u string) Option {
	return func(o *clientOptions) {
		if u != "" {
			o.textSearchURL = u
		}
	}
}

func WithPhotoURL(u string) Option {
	return func(o *clientOptions) {
		if u != "" {
			o.photoURL = u
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithCache sets the cache capacity and entry lifetime. Zero keeps the default.
func WithCache(size int, ttl time.Duration) Option {
	return func(o *clientOptions) {
		if size > 0 {
			o.cacheSize = size
		}
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero disables the cap.
func WithRateLimit(rps float64) Option {
	return func(o *clientOptions) { o.rps = rps }
}

// NewClient creates a Places client.
func NewClient(apiKey string, opts ...Option) *Client {
	o := clientOptions{
		textSearchURL: defaultTextSearchURL,
		photoURL:      defaultPhotoURL,
		httpClient:    &http.Client{Timeout: defaultFetchTimeout},
		cacheSize:     defaultCacheSize,
		cacheTTL:      defaultCacheTTL,
	}
	for _, fn := range opts {
		fn(&o)
	}

	limit := rate.Inf
	if o.rps > 0 {
		limit = rate.Limit(o.rps)
	}
	return &Client{
		apiKey:        apiKey,
		textSearchURL: o.textSearchURL,
		photoURL:      o.photoURL,
		client:        o.httpClient,
		limiter:       rate.NewLimiter(limit, 1),
		cache:         expirable.NewLRU[string, *Place](o.cacheSize, nil, o.cacheTTL),
	}
}

// Lookup returns place details for topicKey, searching for query on a miss.
func (c *Client) Lookup(ctx context.Context, topicKey, query string) (*Place, error) {
	if p, ok := c.cache.Get(topicKey); ok {
		slog.Debug("places: cache hit", "topic", topicKey)
		return p, nil
	}

	ch := c.group.DoChan(topicKey, func() (any, error) {
		// The shared fetch outlives any single caller's deadline.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout())
		defer cancel()
		p, err := c.fetch(fetchCtx, topicKey, query)
		if err != nil {
			return nil, err
		}
		c.cache.Add(topicKey, p)
		return p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Place), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

// fetchTimeout bounds a shared fetch. Clients without a timeout get the default.
func (c *Client) fetchTimeout() time.Duration {
	if c.client.Timeout <= 0 {
		return defaultFetchTimeout + time.Second
	}
	return c.client.Timeout + time.Second
}

type textSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		PlaceID          string  `json:"place_id"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Photos           []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

func (c *Client) fetch(ctx context.Context, topicKey, query string) (*Place, error) {
	ctx, span := tracer.Start(ctx, "places.text_search")
	defer span.End()
	span.SetAttributes(attribute.String("places.topic", topicKey))

	p, err := c.doSearch(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	slog.Info("places: fetched", "topic", topicKey, "place", p.Name)
	return p, nil
}

func (c *Client) doSearch(ctx context.Context, query string) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %w", ErrUnavailable, err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.textSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var body textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		msg := body.Status
		if body.ErrorMessage != "" {
			msg += ": " + body.ErrorMessage
		}
		return nil, fmt.Errorf("%w: status %s", ErrUnavailable, msg)
	}

	r := body.Results[0]
	p := &Place{
		Name:        r.Name,
		Address:     r.FormattedAddress,
		Rating:      r.Rating,
		ReviewCount: r.UserRatingsTotal,
	}
	if r.PlaceID != "" {
		p.MapURL = mapsPlaceURL + r.PlaceID
	}
	if len(r.Photos) > 0 && r.Photos[0].PhotoReference != "" {
		p.PhotoURL = c.buildPhotoURL(r.Photos[0].PhotoReference)
	}
	return p, nil
}

func (c *Client) buildPhotoURL(ref string) string {
	params := url.Values{}
	params.Set("maxwidth", fmt.Sprint(photoMaxWidth))
	params.Set("photoreference", ref)
	params.Set("key", c.apiKey)
	return c.photoURL + "?" + params.Encode()
}

// SearchQuery builds the text-search query for a place title.
func SearchQuery(title string) string {
	return strings.TrimSpace(title) + " Da Nang Vietnam"
}
