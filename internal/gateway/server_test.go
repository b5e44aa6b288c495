package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/config"
)

type fakeAsker struct {
	mu   sync.Mutex
	reqs []assistant.Request
}

func (f *fakeAsker) Ask(_ context.Context, req assistant.Request) assistant.Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return assistant.Reply{Text: "answer to " + req.Text}
}

func newTestServer(cfg config.GatewayConfig, opts ...Option) (*httptest.Server, *fakeAsker) {
	asker := &fakeAsker{}
	s := NewServer(cfg, asker, opts...)
	return httptest.NewServer(s.BuildMux()), asker
}

func postAsk(t *testing.T, srv *httptest.Server, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/ask", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(config.GatewayConfig{}, WithChannelStatus(func() map[string]interface{} {
		return map[string]interface{}{"web": map[string]interface{}{"running": true}}
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" || body["channels"] == nil {
		t.Errorf("health = %d %v", resp.StatusCode, body)
	}
}

func TestAsk(t *testing.T) {
	srv, asker := newTestServer(config.GatewayConfig{RateLimitRPM: 60, RateLimitBurst: 5})
	defer srv.Close()

	resp := postAsk(t, srv, "", `{"user_id":"u1","text":"dragon bridge"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id")
	}
	var reply assistant.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Text != "answer to dragon bridge" {
		t.Errorf("reply = %+v", reply)
	}
	if len(asker.reqs) != 1 || asker.reqs[0].UserID != "api:u1" {
		t.Errorf("asker saw %+v", asker.reqs)
	}
}

func TestAskValidation(t *testing.T) {
	srv, asker := newTestServer(config.GatewayConfig{MaxMessageChars: 10})
	defer srv.Close()

	tests := []struct {
		name, body string
		want       int
	}{
		{"malformed", `{"user_id":`, http.StatusBadRequest},
		{"missing user", `{"text":"hi"}`, http.StatusBadRequest},
		{"too long", `{"user_id":"u","text":"` + strings.Repeat("x", 11) + `"}`, http.StatusBadRequest},
		{"empty text is answered", `{"user_id":"u","text":""}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postAsk(t, srv, "", tt.body).StatusCode; got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
	if len(asker.reqs) != 1 {
		t.Errorf("asker called %d times, want 1", len(asker.reqs))
	}
}

func TestAskAuth(t *testing.T) {
	srv, _ := newTestServer(config.GatewayConfig{Token: "s3cret"})
	defer srv.Close()

	body := `{"user_id":"u","text":"hi"}`
	if got := postAsk(t, srv, "", body).StatusCode; got != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", got)
	}
	if got := postAsk(t, srv, "wrong", body).StatusCode; got != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d", got)
	}
	if got := postAsk(t, srv, "s3cret", body).StatusCode; got != http.StatusOK {
		t.Errorf("valid token: status = %d", got)
	}
}

func TestAskRateLimit(t *testing.T) {
	srv, _ := newTestServer(config.GatewayConfig{RateLimitRPM: 1, RateLimitBurst: 2})
	defer srv.Close()

	body := `{"user_id":"u","text":"hi"}`
	for i := 0; i < 2; i++ {
		if got := postAsk(t, srv, "", body).StatusCode; got != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, got)
		}
	}
	resp := postAsk(t, srv, "", body)
	if resp.StatusCode != http.StatusTooManyRequests || resp.Header.Get("Retry-After") == "" {
		t.Errorf("over limit: status = %d", resp.StatusCode)
	}
	if got := postAsk(t, srv, "", `{"user_id":"other","text":"hi"}`).StatusCode; got != http.StatusOK {
		t.Errorf("other user: status = %d", got)
	}
}

func TestWebChatMount(t *testing.T) {
	srv, _ := newTestServer(config.GatewayConfig{})
	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	srv.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("/ws without web chat: status = %d", resp.StatusCode)
	}

	srv, _ = newTestServer(config.GatewayConfig{}, WithWebChat(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	defer srv.Close()
	resp, err = http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("/ws with web chat: status = %d", resp.StatusCode)
	}
}

func TestWebChatAuth(t *testing.T) {
	webChat := WithWebChat(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	srv, _ := newTestServer(config.GatewayConfig{Token: "s3cret"}, webChat)
	defer srv.Close()

	tests := []struct {
		name, query, header string
		want                int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"wrong query token", "?token=nope", "", http.StatusUnauthorized},
		{"query token", "?token=s3cret", "", http.StatusTeapot},
		{"bearer header", "", "Bearer s3cret", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/ws"+tt.query, nil)
			if err != nil {
				t.Fatal(err)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
