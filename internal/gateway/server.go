// Package gateway serves the HTTP surface: health, the ask API and web chat.
package gateway

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
	"github.com/nextlevelbuilder/danangbot/internal/config"
	"github.com/nextlevelbuilder/danangbot/internal/sessions"
)

// apiChannel scopes users of the ask API in the conversation store.
const apiChannel = "api"

// Asker answers explicit questions.
type Asker interface {
	Ask(ctx context.Context, req assistant.Request) assistant.Reply
}

// AskRequest is the POST /v1/ask body.
type AskRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Server is the gateway HTTP server.
type Server struct {
	cfg         config.GatewayConfig
	asker       Asker
	rateLimiter *channels.UserRateLimiter
	webChat     http.Handler
	status      func() map[string]interface{}

	httpServer *http.Server
	mux        *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithWebChat mounts the WebSocket chat handler at /ws.
func WithWebChat(h http.Handler) Option {
	return func(s *Server) { s.webChat = h }
}

// WithChannelStatus reports channel state on /health.
func WithChannelStatus(fn func() map[string]interface{}) Option {
	return func(s *Server) { s.status = fn }
}

// NewServer creates a new gateway server.
func NewServer(cfg config.GatewayConfig, asker Asker, opts ...Option) *Server {
	s := &Server{
		cfg:         cfg,
		asker:       asker,
		rateLimiter: channels.NewUserRateLimiter(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildMux creates and caches the HTTP mux with all routes registered.
func (s *Server) BuildMux() *http.ServeMux {
	if s.mux != nil {
		return s.mux
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v1/ask", s.authMiddleware(s.handleAsk))
	if s.webChat != nil {
		mux.HandleFunc("GET /ws", s.requireToken(extractWebSocketToken, s.webChat.ServeHTTP))
	}

	s.mux = mux
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.BuildMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("gateway starting", "addr", addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("gateway server: %w", err)
	}
	return nil
}

func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return s.requireToken(extractBearerToken, next)
}

// requireToken rejects requests whose token does not match gateway.token.
// No token configured means the gateway is open.
func (s *Server) requireToken(extract func(*http.Request) string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token != "" {
			token := extract(r)
			if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]interface{}{"status": "ok"}
	if s.status != nil {
		body["channels"] = s.status()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	maxChars := s.cfg.MaxMessageChars
	if maxChars <= 0 {
		maxChars = 2000
	}
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxChars)*4+1024)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}
	if len([]rune(req.Text)) > maxChars {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("text exceeds %d characters", maxChars)})
		return
	}

	userKey := sessions.UserKey(apiChannel, req.UserID)
	if !s.rateLimiter.Allow(userKey) {
		w.Header().Set("Retry-After", "60")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	slog.Debug("ask request", "request_id", requestID, "user", userKey, "preview", channels.Truncate(req.Text, 50))

	reply := s.asker.Ask(r.Context(), assistant.Request{UserID: userKey, Text: req.Text})
	writeJSON(w, http.StatusOK, reply)
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// extractWebSocketToken accepts a bearer header or a token query parameter.
// Browsers cannot set headers on a WebSocket upgrade.
func extractWebSocketToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
