// Package bus carries messages between channels and the assistant.
package bus

import (
	"context"
	"sync"
)

const defaultBufferSize = 100

// MessageBus is a buffered in-process MessageRouter.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a MessageBus with the default buffer size.
func New() *MessageBus {
	return NewWithBuffer(defaultBufferSize)
}

// NewWithBuffer creates a MessageBus with the given queue capacity.
func NewWithBuffer(size int) *MessageBus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, size),
		outbound: make(chan OutboundMessage, size),
		done:     make(chan struct{}),
	}
}

// PublishInbound queues a message for the assistant. Blocks while the queue
// is full; messages published after Close are dropped.
func (mb *MessageBus) PublishInbound(msg InboundMessage) {
	select {
	case mb.inbound <- msg:
	case <-mb.done:
	}
}

// ConsumeInbound waits for the next inbound message.
// Returns false when ctx is done or the bus is closed.
func (mb *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	select {
	case msg := <-mb.inbound:
		return msg, true
	case <-ctx.Done():
		return InboundMessage{}, false
	case <-mb.done:
		return InboundMessage{}, false
	}
}

// PublishOutbound queues a reply for channel dispatch.
func (mb *MessageBus) PublishOutbound(msg OutboundMessage) {
	select {
	case mb.outbound <- msg:
	case <-mb.done:
	}
}

// PublishOutboundContext queues a reply, giving up when ctx is done or the
// bus is closed. Reports whether the reply was queued.
func (mb *MessageBus) PublishOutboundContext(ctx context.Context, msg OutboundMessage) bool {
	select {
	case mb.outbound <- msg:
		return true
	default:
	}
	select {
	case mb.outbound <- msg:
		return true
	case <-ctx.Done():
		return false
	case <-mb.done:
		return false
	}
}

// SubscribeOutbound waits for the next outbound message.
func (mb *MessageBus) SubscribeOutbound(ctx context.Context) (OutboundMessage, bool) {
	select {
	case msg := <-mb.outbound:
		return msg, true
	case <-ctx.Done():
		return OutboundMessage{}, false
	case <-mb.done:
		return OutboundMessage{}, false
	}
}

// Close releases blocked publishers and consumers. Safe to call twice.
func (mb *MessageBus) Close() {
	mb.closeOnce.Do(func() { close(mb.done) })
}
