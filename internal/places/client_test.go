package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const okBody = `{
  "status": "OK",
  "results": [{
    "name": "Dragon Bridge",
    "formatted_address": "Nguyen Van Linh, Da Nang",
    "place_id": "ChIJ123",
    "rating": 4.6,
    "user_ratings_total": 1234,
    "photos": [{"photo_reference": "ref-abc"}]
  }]
}`

func newServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if got := r.URL.Query().Get("query"); got != "Dragon Bridge Da Nang Vietnam" {
			t.Errorf("query = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup(t *testing.T) {
	srv := newServer(t, http.StatusOK, okBody, nil)
	c := NewClient("test-key", WithTextSearchURL(srv.URL), WithPhotoURL("https://photos.test/photo"))

	p, err := c.Lookup(context.Background(), "dragon_bridge", SearchQuery("Dragon Bridge"))
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if p.Name != "Dragon Bridge" || p.Address != "Nguyen Van Linh, Da Nang" {
		t.Errorf("Lookup() = %+v", p)
	}
	if p.Rating != 4.6 || p.ReviewCount != 1234 {
		t.Errorf("rating = %v (%d), want 4.6 (1234)", p.Rating, p.ReviewCount)
	}
	if want := "https://www.google.com/maps/place/?q=place_id:ChIJ123"; p.MapURL != want {
		t.Errorf("MapURL = %q, want %q", p.MapURL, want)
	}
	if !strings.HasPrefix(p.PhotoURL, "https://photos.test/photo?") ||
		!strings.Contains(p.PhotoURL, "maxwidth=400") ||
		!strings.Contains(p.PhotoURL, "photoreference=ref-abc") {
		t.Errorf("PhotoURL = %q", p.PhotoURL)
	}
}

func TestLookupCached(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, okBody, &hits)
	c := NewClient("test-key", WithTextSearchURL(srv.URL))

	for i := 0; i < 3; i++ {
		if _, err := c.Lookup(context.Background(), "dragon_bridge", SearchQuery("Dragon Bridge")); err != nil {
			t.Fatal(err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestLookupCoalesced(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		_, _ = w.Write([]byte(okBody))
	}))
	t.Cleanup(srv.Close)
	c := NewClient("test-key", WithTextSearchURL(srv.URL))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Lookup(context.Background(), "dragon_bridge", "q"); err != nil {
				t.Errorf("Lookup() error = %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestLookupFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusInternalServerError, `{}`},
		{"zero results", http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`},
		{"denied", http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"bad key"}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			c := NewClient("test-key", WithTextSearchURL(srv.URL))
			p, err := c.Lookup(context.Background(), "dragon_bridge", SearchQuery("Dragon Bridge"))
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("Lookup() = (%+v, %v), want ErrUnavailable", p, err)
			}
		})
	}
}

func TestLookupFailureNotCached(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusBadGateway, `{}`, &hits)
	c := NewClient("test-key", WithTextSearchURL(srv.URL))
	for i := 0; i < 2; i++ {
		_, _ = c.Lookup(context.Background(), "dragon_bridge", SearchQuery("Dragon Bridge"))
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("server hits = %d, want 2", n)
	}
}

func TestLookupCallerTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	c := NewClient("test-key", WithTextSearchURL(srv.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.Lookup(ctx, "dragon_bridge", "q")
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Lookup() error = %v, want ErrUnavailable wrapping deadline", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Lookup() did not honor caller deadline")
	}
}

func TestLookupClientWithoutTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
		_, _ = w.Write([]byte(okBody))
	}))
	t.Cleanup(srv.Close)
	c := NewClient("test-key", WithTextSearchURL(srv.URL), WithHTTPClient(&http.Client{}))

	if got := c.fetchTimeout(); got != defaultFetchTimeout+time.Second {
		t.Errorf("fetchTimeout() = %v", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p, err := c.Lookup(ctx, "dragon_bridge", "q")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if p.Name != "Dragon Bridge" {
		t.Errorf("Lookup() = %+v", p)
	}
}
