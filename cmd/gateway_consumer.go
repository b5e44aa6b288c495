package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
)

// dispatcher is the part of the assistant the consumer drives.
type dispatcher interface {
	Dispatch(ctx context.Context, command string, req assistant.Request) (assistant.Reply, bool)
	ErrorReply(userID string) assistant.Reply
}

// consumeInboundMessages reads inbound messages from channels, answers them
// and publishes each reply back to the originating chat. Messages from one
// user are answered in order. Returns when ctx is done, after queued messages
// finish.
func consumeInboundMessages(ctx context.Context, msgBus bus.MessageRouter, router dispatcher, limiter *channels.UserRateLimiter) {
	slog.Info("inbound message consumer started")
	defer slog.Info("inbound message consumer stopped")

	// Platform retries and double-taps redeliver the same message id.
	dedupe := bus.NewDedupeCache(20*time.Minute, 5000)

	lanes := newUserLanes()
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		msg, ok := msgBus.ConsumeInbound(ctx)
		if !ok {
			return
		}

		if msgID := msg.Metadata[bus.MetaMessageID]; msgID != "" {
			dedupeKey := fmt.Sprintf("%s|%s|%s|%s", msg.Channel, msg.SenderID, msg.ChatID, msgID)
			if dedupe.IsDuplicate(dedupeKey) {
				slog.Debug("dedup: skipping duplicate message", "key", dedupeKey)
				continue
			}
		}

		if limiter != nil && !limiter.Allow(msg.UserID) {
			slog.Warn("inbound: rate limited", "channel", msg.Channel, "user", msg.UserID)
			continue
		}

		key := laneKey(msg)
		if !lanes.push(key, msg) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				next, ok := lanes.next(key)
				if !ok {
					return
				}
				handleInbound(ctx, msgBus, router, next)
			}
		}()
	}
}

// laneKey groups messages that must be answered in arrival order.
func laneKey(msg bus.InboundMessage) string {
	if msg.UserID != "" {
		return msg.UserID
	}
	return msg.Channel + ":" + msg.SenderID
}

// userLanes queues messages per user. Users are answered concurrently, while
// one user's messages are answered one at a time in arrival order.
type userLanes struct {
	mu     sync.Mutex
	queues map[string][]bus.InboundMessage // present while a worker runs
}

func newUserLanes() *userLanes {
	return &userLanes{queues: make(map[string][]bus.InboundMessage)}
}

// push queues msg and reports whether the caller must start a worker for key.
func (l *userLanes) push(key string, msg bus.InboundMessage) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	q, running := l.queues[key]
	l.queues[key] = append(q, msg)
	return !running
}

// next pops the oldest message for key. When the queue is empty the lane is
// released and ok is false.
func (l *userLanes) next(key string) (bus.InboundMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	q := l.queues[key]
	if len(q) == 0 {
		delete(l.queues, key)
		return bus.InboundMessage{}, false
	}
	l.queues[key] = q[1:]
	return q[0], true
}

// handleInbound answers one message. A panic becomes the generic error reply.
func handleInbound(ctx context.Context, msgBus bus.MessageRouter, router dispatcher, msg bus.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("inbound: handler panic",
				"channel", msg.Channel,
				"user", msg.UserID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			publishReply(ctx, msgBus, msg, router.ErrorReply(msg.UserID))
		}
	}()

	command := msg.Metadata[bus.MetaCommand]
	req := assistant.Request{
		UserID:  msg.UserID,
		Text:    msg.Content,
		Mention: msg.Metadata[bus.MetaMention],
		Prefix:  msg.Metadata[bus.MetaPrefix],
	}

	reply, ok := router.Dispatch(ctx, command, req)
	if !ok || reply.IsEmpty() {
		slog.Debug("inbound: no reply", "channel", msg.Channel, "user", msg.UserID, "command", command)
		return
	}

	slog.Info("inbound: replying",
		"channel", msg.Channel,
		"chat_id", msg.ChatID,
		"user", msg.UserID,
		"command", command,
		"answer", reply.Answer != nil,
	)
	publishReply(ctx, msgBus, msg, reply)
}

// publishReply queues the reply. Replies still pending at shutdown are dropped.
func publishReply(ctx context.Context, msgBus bus.MessageRouter, msg bus.InboundMessage, reply assistant.Reply) {
	queued := msgBus.PublishOutboundContext(ctx, bus.OutboundMessage{
		Channel:  msg.Channel,
		ChatID:   msg.ChatID,
		Content:  reply.Text,
		Answer:   reply.Answer,
		Menu:     reply.Menu,
		React:    reply.React,
		Metadata: msg.Metadata,
	})
	if !queued {
		slog.Warn("inbound: reply dropped", "channel", msg.Channel, "chat_id", msg.ChatID, "user", msg.UserID)
	}
}
