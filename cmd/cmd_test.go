package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
	"github.com/nextlevelbuilder/danangbot/internal/config"
	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []assistant.Request
}

func (f *fakeDispatcher) Dispatch(_ context.Context, command string, req assistant.Request) (assistant.Reply, bool) {
	if command == "slow" {
		time.Sleep(50 * time.Millisecond)
	}
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	switch command {
	case "boom":
		panic("handler exploded")
	case "quiet":
		return assistant.Reply{}, false
	}
	return assistant.Reply{Text: "re: " + req.Text}, true
}

func (f *fakeDispatcher) ErrorReply(string) assistant.Reply {
	return assistant.Reply{Text: "something went wrong"}
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// runConsumer starts the consumer; cleanup cancels it and waits for it to drain.
func runConsumer(t *testing.T, mb *bus.MessageBus, d dispatcher, limiter *channels.UserRateLimiter) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumeInboundMessages(ctx, mb, d, limiter)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		mb.Close()
	})
}

// collect reads outbound messages until want arrive, then checks no extra follow.
func collect(t *testing.T, mb *bus.MessageBus, want int) []bus.OutboundMessage {
	t.Helper()
	var out []bus.OutboundMessage
	for len(out) < want {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		msg, ok := mb.SubscribeOutbound(ctx)
		cancel()
		if !ok {
			t.Fatalf("got %d outbound messages, want %d", len(out), want)
		}
		out = append(out, msg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if msg, ok := mb.SubscribeOutbound(ctx); ok {
		t.Fatalf("unexpected extra outbound message: %+v", msg)
	}
	return out
}

func inbound(user, content, command, msgID string) bus.InboundMessage {
	return bus.InboundMessage{
		Channel:  "discord",
		SenderID: user,
		ChatID:   "chat-1",
		UserID:   "discord:" + user,
		Content:  content,
		Metadata: map[string]string{
			bus.MetaCommand:   command,
			bus.MetaPrefix:    "!",
			bus.MetaMention:   "<@" + user + ">",
			bus.MetaMessageID: msgID,
		},
	}
}

func TestConsumerRepliesToOriginatingChat(t *testing.T) {
	mb := bus.New()
	d := &fakeDispatcher{}
	runConsumer(t, mb, d, nil)

	mb.PublishInbound(inbound("42", "dragon bridge", "", "m1"))
	out := collect(t, mb, 1)

	if out[0].Channel != "discord" || out[0].ChatID != "chat-1" || out[0].Content != "re: dragon bridge" {
		t.Errorf("outbound = %+v", out[0])
	}
	if out[0].Metadata[bus.MetaMessageID] != "m1" {
		t.Errorf("metadata not carried: %v", out[0].Metadata)
	}

	d.mu.Lock()
	req := d.calls[0]
	d.mu.Unlock()
	if req.UserID != "discord:42" || req.Mention != "<@42>" || req.Prefix != "!" {
		t.Errorf("request = %+v", req)
	}
}

func TestConsumerDropsDuplicates(t *testing.T) {
	mb := bus.New()
	d := &fakeDispatcher{}
	runConsumer(t, mb, d, nil)

	mb.PublishInbound(inbound("42", "hello", "", "m1"))
	mb.PublishInbound(inbound("42", "hello", "", "m1"))
	mb.PublishInbound(inbound("42", "hello", "", "m2"))
	collect(t, mb, 2)

	if got := d.callCount(); got != 2 {
		t.Errorf("dispatch calls = %d, want 2", got)
	}
}

func TestConsumerPanicSendsErrorReply(t *testing.T) {
	mb := bus.New()
	runConsumer(t, mb, &fakeDispatcher{}, nil)

	mb.PublishInbound(inbound("42", "", "boom", "m1"))
	out := collect(t, mb, 1)
	if out[0].Content != "something went wrong" {
		t.Errorf("content = %q", out[0].Content)
	}
}

func TestConsumerSkipsSilentReplies(t *testing.T) {
	mb := bus.New()
	d := &fakeDispatcher{}
	runConsumer(t, mb, d, nil)

	mb.PublishInbound(inbound("42", "", "quiet", "m1"))
	mb.PublishInbound(inbound("42", "beaches", "", "m2"))
	out := collect(t, mb, 1)
	if out[0].Content != "re: beaches" {
		t.Errorf("content = %q", out[0].Content)
	}
}

func TestConsumerRateLimitsPerUser(t *testing.T) {
	mb := bus.New()
	d := &fakeDispatcher{}
	runConsumer(t, mb, d, channels.NewUserRateLimiter(1, 1))

	mb.PublishInbound(inbound("42", "one", "", "m1"))
	mb.PublishInbound(inbound("42", "two", "", "m2"))
	mb.PublishInbound(inbound("7", "three", "", "m3"))
	collect(t, mb, 2)

	if got := d.callCount(); got != 2 {
		t.Errorf("dispatch calls = %d, want 2", got)
	}
}

func TestConsumerKeepsPerUserOrder(t *testing.T) {
	mb := bus.New()
	d := &fakeDispatcher{}
	runConsumer(t, mb, d, nil)

	mb.PublishInbound(inbound("42", "dragon bridge", "slow", "m1"))
	mb.PublishInbound(inbound("42", "tell me more", "", "m2"))
	out := collect(t, mb, 2)

	if out[0].Content != "re: dragon bridge" || out[1].Content != "re: tell me more" {
		t.Errorf("replies out of order: %q, %q", out[0].Content, out[1].Content)
	}
}

func TestConsumerAnswersUsersConcurrently(t *testing.T) {
	mb := bus.New()
	d := &fakeDispatcher{}
	runConsumer(t, mb, d, nil)

	mb.PublishInbound(inbound("42", "slow one", "slow", "m1"))
	mb.PublishInbound(inbound("7", "fast one", "", "m2"))
	out := collect(t, mb, 2)

	if out[0].Content != "re: fast one" {
		t.Errorf("first reply = %q, want the other user's fast reply", out[0].Content)
	}
}

func TestConsumerStopsWithFullOutbound(t *testing.T) {
	mb := bus.NewWithBuffer(1)
	defer mb.Close()
	d := &fakeDispatcher{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumeInboundMessages(ctx, mb, d, nil)
	}()

	for i, user := range []string{"1", "2", "3"} {
		mb.PublishInbound(inbound(user, "hello", "", fmt.Sprintf("m%d", i)))
	}
	deadline := time.Now().Add(2 * time.Second)
	for d.callCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop while replies were blocked on a full outbound queue")
	}
}

func TestUserLanes(t *testing.T) {
	l := newUserLanes()
	if !l.push("a", bus.InboundMessage{Content: "1"}) {
		t.Fatal("first push should start a worker")
	}
	if l.push("a", bus.InboundMessage{Content: "2"}) {
		t.Error("second push started another worker")
	}
	for _, want := range []string{"1", "2"} {
		msg, ok := l.next("a")
		if !ok || msg.Content != want {
			t.Fatalf("next() = (%q, %v), want %q", msg.Content, ok, want)
		}
	}
	if _, ok := l.next("a"); ok {
		t.Error("next() on drained lane = ok")
	}
	if !l.push("a", bus.InboundMessage{Content: "3"}) {
		t.Error("push after release should start a worker")
	}
}

func TestRenderReply(t *testing.T) {
	tests := []struct {
		name  string
		reply assistant.Reply
		want  []string
		skip  []string
	}{
		{
			name:  "text only",
			reply: assistant.Reply{Text: "Xin chào!"},
			want:  []string{"Xin chào!"},
			skip:  []string{"⭐"},
		},
		{
			name: "enriched place",
			reply: assistant.Reply{
				Text: "Dragon Bridge",
				Answer: &bus.Answer{
					Title:       "Dragon Bridge",
					Address:     "Nguyen Van Linh, Da Nang",
					Rating:      4.6,
					ReviewCount: 120,
					MapURL:      "https://maps.example/dragon",
					Labels:      bus.Labels{Location: "Location", Rating: "Rating", Reviews: "reviews", ViewOnMap: "View on map"},
				},
			},
			want: []string{
				"Location: Nguyen Van Linh, Da Nang",
				"Rating: ⭐ 4.6 (120 reviews)",
				"View on map: https://maps.example/dragon",
			},
		},
		{
			name:  "static answer has no details",
			reply: assistant.Reply{Text: "Beaches", Answer: &bus.Answer{Title: "Beaches"}},
			want:  []string{"Beaches"},
			skip:  []string{"Location", "⭐"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderReply(&buf, tt.reply)
			got := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("output missing %q:\n%s", s, got)
				}
			}
			for _, s := range tt.skip {
				if strings.Contains(got, s) {
					t.Errorf("output has %q:\n%s", s, got)
				}
			}
		})
	}
}

func TestPrintTopics(t *testing.T) {
	kb, err := knowledge.New([]knowledge.Entry{
		{Category: "places", Key: "dragon_bridge", Title: knowledge.Translations{"en": "Dragon Bridge", "vi": "Cầu Rồng"}, Text: knowledge.Translations{"en": "A bridge."}},
		{Category: "food", Key: "mi_quang", Title: knowledge.Translations{"en": "Mi Quang", "vi": "Mì Quảng"}, Text: knowledge.Translations{"en": "Noodles."}},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printTopics(&buf, kb)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "CATEGORY") || !strings.Contains(lines[1], "Cầu Rồng") {
		t.Errorf("table:\n%s", buf.String())
	}
	// The VI column starts at the same display cell on every row.
	col := strings.Index(lines[0], "TITLE (VI)")
	if idx := strings.Index(lines[2], "Mì Quảng"); idx < 0 || len([]rune(lines[2][:idx])) != col {
		t.Errorf("vi column misaligned:\n%s", buf.String())
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "(not configured)"},
		{"short", "*****"},
		{"AIzaSyExample1234", "AIza*********1234"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOnboardSecretsAndAnswers(t *testing.T) {
	ans := onboardAnswers{TelegramToken: "tg", Prefix: "?", Language: "vi", Port: "9000"}
	secrets := onboardSecrets(ans)
	if len(secrets) != 1 || secrets["DANANG_TELEGRAM_TOKEN"] != "tg" {
		t.Errorf("secrets = %v", secrets)
	}
	if err := validatePort("70000"); err == nil {
		t.Error("validatePort accepted 70000")
	}

	cfg := config.Default()
	applyOnboardAnswers(cfg, ans)
	if !cfg.Channels.Telegram.Enabled || cfg.Channels.Discord.Enabled || cfg.Places.Enabled {
		t.Errorf("channels = %+v, places enabled = %v", cfg.Channels, cfg.Places.Enabled)
	}
	if cfg.Bot.CommandPrefix != "?" || cfg.Bot.DefaultLanguage != "vi" || cfg.Gateway.Port != 9000 {
		t.Errorf("bot = %+v, port = %d", cfg.Bot, cfg.Gateway.Port)
	}
}
