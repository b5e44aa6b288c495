package bus

import "context"

// Metadata keys set by channels on inbound messages.
const (
	MetaCommand   = "command"        // command name without prefix; empty for ambient text
	MetaPrefix    = "command_prefix" // prefix the user typed, echoed in help text
	MetaMention   = "mention"        // platform mention string for the sender
	MetaMessageID = "message_id"     // platform message id, used for dedupe
)

// InboundMessage represents a message received from a channel (Telegram, Discord, web).
type InboundMessage struct {
	Channel  string            `json:"channel"`
	SenderID string            `json:"sender_id"`
	ChatID   string            `json:"chat_id"`
	Content  string            `json:"content"`
	PeerKind string            `json:"peer_kind,omitempty"` // "direct" or "group"
	UserID   string            `json:"user_id,omitempty"`   // channel-scoped user key for conversation state
	Metadata map[string]string `json:"metadata,omitempty"`
}

// OutboundMessage represents a reply to be sent to a channel.
// Channels render Answer and Menu natively; Content is the plain-text form.
type OutboundMessage struct {
	Channel  string            `json:"channel"`
	ChatID   string            `json:"chat_id"`
	Content  string            `json:"content,omitempty"`
	Answer   *Answer           `json:"answer,omitempty"`
	Menu     *Menu             `json:"menu,omitempty"`
	React    bool              `json:"react,omitempty"` // add place reactions after sending
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Answer is a resolved topic, optionally enriched with place details.
type Answer struct {
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	Category    string  `json:"category"`
	TopicKey    string  `json:"topic_key"`
	ImageURL    string  `json:"image_url,omitempty"`
	MapURL      string  `json:"map_url,omitempty"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
	Labels      Labels  `json:"labels"`
}

// Labels are the localized field names used when rendering an Answer.
type Labels struct {
	Location  string `json:"location"`
	Rating    string `json:"rating"`
	Reviews   string `json:"reviews"`
	ViewOnMap string `json:"view_on_map"`
}

// Menu is a selectable list of topics.
type Menu struct {
	Prompt      string       `json:"prompt"`
	Placeholder string       `json:"placeholder"`
	Options     []MenuOption `json:"options"`
}

// MenuOption is one selectable topic. Value is the topic key.
type MenuOption struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// MessageRouter abstracts inbound/outbound message routing between channels and the assistant.
type MessageRouter interface {
	PublishInbound(msg InboundMessage)
	ConsumeInbound(ctx context.Context) (InboundMessage, bool)
	PublishOutbound(msg OutboundMessage)
	PublishOutboundContext(ctx context.Context, msg OutboundMessage) bool
	SubscribeOutbound(ctx context.Context) (OutboundMessage, bool)
}
