package bus

import (
	"context"
	"testing"
	"time"
)

func TestInboundRoundTrip(t *testing.T) {
	mb := New()
	defer mb.Close()

	mb.PublishInbound(InboundMessage{Channel: "web", Content: "hello"})
	msg, ok := mb.ConsumeInbound(context.Background())
	if !ok || msg.Content != "hello" {
		t.Errorf("ConsumeInbound() = (%+v, %v), want hello", msg, ok)
	}
}

func TestOutboundRoundTrip(t *testing.T) {
	mb := New()
	defer mb.Close()

	mb.PublishOutbound(OutboundMessage{Channel: "web", Answer: &Answer{TopicKey: "hue"}})
	msg, ok := mb.SubscribeOutbound(context.Background())
	if !ok || msg.Answer == nil || msg.Answer.TopicKey != "hue" {
		t.Errorf("SubscribeOutbound() = (%+v, %v)", msg, ok)
	}
}

func TestConsumeStopsOnContext(t *testing.T) {
	mb := New()
	defer mb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := mb.ConsumeInbound(ctx); ok {
		t.Error("ConsumeInbound() ok = true after context timeout")
	}
}

func TestCloseReleasesPublisher(t *testing.T) {
	mb := NewWithBuffer(0)
	done := make(chan struct{})
	go func() {
		mb.PublishInbound(InboundMessage{Content: "blocked"})
		close(done)
	}()
	mb.Close()
	mb.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishInbound still blocked after Close")
	}
	if _, ok := mb.SubscribeOutbound(context.Background()); ok {
		t.Error("SubscribeOutbound() ok = true on closed bus")
	}
}

func TestDedupeCache(t *testing.T) {
	d := NewDedupeCache(time.Minute, 10)
	if d.IsDuplicate("m1") {
		t.Error("first m1 reported duplicate")
	}
	if !d.IsDuplicate("m1") {
		t.Error("second m1 not reported duplicate")
	}
	if d.IsDuplicate("") || d.IsDuplicate("") {
		t.Error("empty key reported duplicate")
	}
}

func TestDedupeCacheExpiry(t *testing.T) {
	d := NewDedupeCache(20*time.Millisecond, 10)
	d.IsDuplicate("m1")
	time.Sleep(60 * time.Millisecond)
	if d.IsDuplicate("m1") {
		t.Error("m1 still duplicate after ttl")
	}
}

func TestPublishOutboundContext(t *testing.T) {
	mb := NewWithBuffer(1)
	defer mb.Close()

	if !mb.PublishOutboundContext(context.Background(), OutboundMessage{Content: "first"}) {
		t.Fatal("PublishOutboundContext() = false with buffer space")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if mb.PublishOutboundContext(ctx, OutboundMessage{Content: "second"}) {
		t.Error("PublishOutboundContext() = true on a full buffer")
	}

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	msg, _ := mb.SubscribeOutbound(context.Background())
	if msg.Content != "first" {
		t.Errorf("SubscribeOutbound() = %q, want first", msg.Content)
	}
	if !mb.PublishOutboundContext(cancelled, OutboundMessage{Content: "third"}) {
		t.Error("PublishOutboundContext() = false with space on a cancelled context")
	}
}
