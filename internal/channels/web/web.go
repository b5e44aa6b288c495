// Package web serves the browser chat channel over WebSocket.
//
// Client frames:
//
//	{"type":"message","text":"!askdanang dragon bridge"}
//	{"type":"select","value":"dragon_bridge"}
//
// Server frames:
//
//	{"type":"ready","user_id":"..."}
//	{"type":"reply","text":"...","answer":{...},"menu":{...}}
//
// user_id is chosen by the client, so the allow list only narrows which ids
// may connect. Set gateway.token to require ?token= on the upgrade.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
	"github.com/nextlevelbuilder/danangbot/internal/config"
)

// Frame types.
const (
	FrameMessage = "message"
	FrameSelect  = "select"
	FrameReady   = "ready"
	FrameReply   = "reply"
	FrameError   = "error"
)

const writeTimeout = 10 * time.Second

// Frame is one JSON WebSocket message in either direction.
type Frame struct {
	Type   string      `json:"type"`
	Text   string      `json:"text,omitempty"`
	Value  string      `json:"value,omitempty"`
	UserID string      `json:"user_id,omitempty"`
	Answer *bus.Answer `json:"answer,omitempty"`
	Menu   *bus.Menu   `json:"menu,omitempty"`
}

// Channel accepts browser chat sessions. Each connection is its own chat.
type Channel struct {
	*channels.BaseChannel
	prefix   string
	maxChars int
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*conn // chat id → connection
}

type conn struct {
	ws  *websocket.Conn
	wmu sync.Mutex
	seq atomic.Int64
}

func (c *conn) writeFrame(f Frame) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(f)
}

// New creates the web channel. origins restricts browser Origin headers;
// empty allows all.
func New(cfg config.WebConfig, msgBus bus.MessageRouter, prefix string, origins []string, maxChars int) *Channel {
	if prefix == "" {
		prefix = "!"
	}
	c := &Channel{
		BaseChannel: channels.NewBaseChannel("web", msgBus, cfg.AllowFrom),
		prefix:      prefix,
		maxChars:    maxChars,
		conns:       make(map[string]*conn),
	}
	c.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(origins),
	}
	return c
}

// checkOrigin validates browser origins against the allowed list.
// Empty Origin header (non-browser clients) is always allowed.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if origin == a || a == "*" {
				return true
			}
		}
		slog.Warn("security.cors_rejected", "origin", origin)
		return false
	}
}

// Start marks the channel ready; connections arrive through Handler.
func (c *Channel) Start(_ context.Context) error {
	c.SetRunning(true)
	slog.Info("web chat channel ready")
	return nil
}

// Stop closes all open connections.
func (c *Channel) Stop(_ context.Context) error {
	c.SetRunning(false)
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cn := range c.conns {
		cn.ws.Close()
		delete(c.conns, id)
	}
	return nil
}

// Send writes a reply frame to the connection identified by msg.ChatID.
func (c *Channel) Send(_ context.Context, msg bus.OutboundMessage) error {
	c.mu.RLock()
	cn, ok := c.conns[msg.ChatID]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("web chat %s not connected", msg.ChatID)
	}
	return cn.writeFrame(Frame{
		Type:   FrameReply,
		Text:   msg.Content,
		Answer: msg.Answer,
		Menu:   msg.Menu,
	})
}

// Handler upgrades requests to WebSocket chats. The optional user_id query
// parameter keeps conversation state across reconnects.
func (c *Channel) Handler() http.Handler {
	return http.HandlerFunc(c.handleWebSocket)
}

func (c *Channel) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !c.IsRunning() {
		http.Error(w, "web chat disabled", http.StatusServiceUnavailable)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = uuid.NewString()
	}
	if !c.IsAllowed(userID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	if c.maxChars > 0 {
		// Frames carry JSON escaping; allow headroom over the text limit.
		ws.SetReadLimit(int64(c.maxChars)*4 + 256)
	}

	chatID := uuid.NewString()
	cn := &conn{ws: ws}

	c.mu.Lock()
	c.conns[chatID] = cn
	c.mu.Unlock()
	slog.Info("web chat connected", "chat_id", chatID, "user_id", userID)

	defer func() {
		c.mu.Lock()
		delete(c.conns, chatID)
		c.mu.Unlock()
		ws.Close()
		slog.Info("web chat disconnected", "chat_id", chatID)
	}()

	if err := cn.writeFrame(Frame{Type: FrameReady, UserID: userID}); err != nil {
		return
	}

	for {
		var f Frame
		if err := ws.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("web chat read failed", "chat_id", chatID, "error", err)
			}
			return
		}
		c.handleFrame(cn, chatID, userID, f)
	}
}

func (c *Channel) handleFrame(cn *conn, chatID, userID string, f Frame) {
	metadata := map[string]string{
		bus.MetaMessageID: chatID + ":" + strconv.FormatInt(cn.seq.Add(1), 10),
		bus.MetaPrefix:    c.prefix,
	}

	var content string
	switch f.Type {
	case FrameMessage, "":
		content = f.Text
		if c.maxChars > 0 && len([]rune(content)) > c.maxChars {
			_ = cn.writeFrame(Frame{Type: FrameError, Text: fmt.Sprintf("message exceeds %d characters", c.maxChars)})
			return
		}
		if name, args, ok := channels.ParseCommand(content, c.prefix); ok {
			metadata[bus.MetaCommand] = name
			content = args
		}
	case FrameSelect:
		metadata[bus.MetaCommand] = assistant.CommandSelect
		content = f.Value
	default:
		_ = cn.writeFrame(Frame{Type: FrameError, Text: "unknown frame type " + strconv.Quote(f.Type)})
		return
	}

	c.HandleMessage(userID, chatID, content, metadata, channels.PeerDirect)
}
