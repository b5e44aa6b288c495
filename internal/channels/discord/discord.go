package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
	"github.com/nextlevelbuilder/danangbot/internal/config"
)

const (
	maxMessageLen = 2000

	// placeSelectID identifies the place menu in component interactions.
	placeSelectID = "danang_place_select"

	metaInteraction = "interaction_id"

	// Interaction tokens accept follow-ups for 15 minutes.
	pendingTTL  = 15 * time.Minute
	pendingSize = 1024
)

// placeReactions are added to place answers.
var placeReactions = []string{"🔥", "❤️", "😋"}

// Channel connects to Discord via the Bot API using gateway events.
type Channel struct {
	*channels.BaseChannel
	session   *discordgo.Session
	config    config.DiscordConfig
	prefix    string
	botUserID string // populated on start

	// pending holds deferred menu interactions awaiting a follow-up, by interaction id.
	pending *expirable.LRU[string, *discordgo.Interaction]
}

func newPending() *expirable.LRU[string, *discordgo.Interaction] {
	return expirable.NewLRU[string, *discordgo.Interaction](pendingSize, nil, pendingTTL)
}

// New creates a new Discord channel from config. prefix is the text command prefix.
func New(cfg config.DiscordConfig, msgBus bus.MessageRouter, prefix string) (*Channel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	if prefix == "" {
		prefix = "!"
	}

	return &Channel{
		BaseChannel: channels.NewBaseChannel("discord", msgBus, cfg.AllowFrom),
		session:     session,
		config:      cfg,
		prefix:      prefix,
		pending:     newPending(),
	}, nil
}

// Start opens the Discord gateway connection and begins receiving events.
func (c *Channel) Start(_ context.Context) error {
	slog.Info("starting discord bot")

	c.session.AddHandler(c.handleMessage)
	c.session.AddHandler(c.handleInteraction)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	user, err := c.session.User("@me")
	if err != nil {
		c.session.Close()
		return fmt.Errorf("fetch discord bot identity: %w", err)
	}
	c.botUserID = user.ID

	c.SetRunning(true)
	slog.Info("discord bot connected", "username", user.Username, "id", user.ID)
	return nil
}

// Stop closes the Discord gateway connection.
func (c *Channel) Stop(_ context.Context) error {
	slog.Info("stopping discord bot")
	c.SetRunning(false)
	return c.session.Close()
}

// Send delivers an outbound message to a Discord channel. Answers become
// embeds, menus become a select component, anything else is chunked text.
func (c *Channel) Send(_ context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("discord bot not running")
	}
	if msg.ChatID == "" {
		return fmt.Errorf("empty chat ID for discord send")
	}

	var interaction *discordgo.Interaction
	if id := msg.Metadata[metaInteraction]; id != "" {
		if v, ok := c.pending.Get(id); ok {
			c.pending.Remove(id)
			interaction = v
		}
	}

	switch {
	case msg.Answer != nil:
		sent, err := c.sendComplex(msg.ChatID, interaction, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{buildEmbed(msg.Answer)},
		})
		if err != nil {
			return err
		}
		if msg.React && c.config.ReactionsEnabled() {
			c.addReactions(msg.ChatID, sent.ID)
		}
		return nil

	case msg.Menu != nil:
		_, err := c.sendComplex(msg.ChatID, interaction, &discordgo.MessageSend{
			Content:    msg.Menu.Prompt,
			Components: buildMenu(msg.Menu),
		})
		return err

	case msg.Content == "":
		return nil
	}

	for i, chunk := range channels.SplitMessage(msg.Content, maxMessageLen) {
		target := interaction
		if i > 0 {
			target = nil
		}
		if _, err := c.sendComplex(msg.ChatID, target, &discordgo.MessageSend{Content: chunk}); err != nil {
			return err
		}
	}
	return nil
}

// sendComplex posts to the channel, or as an interaction follow-up when one is pending.
func (c *Channel) sendComplex(channelID string, interaction *discordgo.Interaction, data *discordgo.MessageSend) (*discordgo.Message, error) {
	if interaction != nil {
		m, err := c.session.FollowupMessageCreate(interaction, true, &discordgo.WebhookParams{
			Content:    data.Content,
			Embeds:     data.Embeds,
			Components: data.Components,
		})
		if err == nil {
			return m, nil
		}
		slog.Warn("discord: interaction follow-up failed, sending to channel", "channel_id", channelID, "error", err)
	}
	m, err := c.session.ChannelMessageSendComplex(channelID, data)
	if err != nil {
		return nil, fmt.Errorf("send discord message: %w", err)
	}
	return m, nil
}

func (c *Channel) addReactions(channelID, messageID string) {
	for _, emoji := range placeReactions {
		if err := c.session.MessageReactionAdd(channelID, messageID, emoji); err != nil {
			slog.Debug("discord: add reaction failed", "message_id", messageID, "emoji", emoji, "error", err)
		}
	}
}

// handleMessage processes incoming Discord messages.
func (c *Channel) handleMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == c.botUserID || m.Author.Bot {
		return
	}

	senderID := m.Author.ID
	peerKind := peerKindOf(m.GuildID)
	if !c.CheckPolicy(peerKind, c.config.DMPolicy, c.config.GroupPolicy, senderID) {
		slog.Debug("discord message rejected by policy", "user_id", senderID, "peer_kind", peerKind)
		return
	}

	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	metadata := map[string]string{
		bus.MetaMessageID: m.ID,
		bus.MetaMention:   m.Author.Mention(),
		bus.MetaPrefix:    c.prefix,
		"guild_id":        m.GuildID,
		"display_name":    resolveDisplayName(m),
	}
	if name, args, ok := channels.ParseCommand(content, c.prefix); ok {
		metadata[bus.MetaCommand] = name
		content = args
	}

	slog.Debug("discord message received",
		"sender_id", senderID,
		"channel_id", m.ChannelID,
		"command", metadata[bus.MetaCommand],
		"preview", channels.Truncate(content, 50),
	)

	c.HandleMessage(senderID, m.ChannelID, content, metadata, peerKind)
}

// handleInteraction acknowledges place menu choices and forwards them as select commands.
func (c *Channel) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	data := i.MessageComponentData()
	if data.CustomID != placeSelectID || len(data.Values) == 0 {
		return
	}

	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user == nil {
		return
	}

	peerKind := peerKindOf(i.GuildID)
	if !c.acceptInteraction(user.ID, peerKind) {
		slog.Debug("discord interaction rejected by policy", "user_id", user.ID, "peer_kind", peerKind)
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		slog.Warn("discord: defer interaction failed", "interaction_id", i.ID, "error", err)
	} else {
		c.pending.Add(i.ID, i.Interaction)
	}

	c.HandleMessage(user.ID, i.ChannelID, data.Values[0], map[string]string{
		bus.MetaCommand:   assistant.CommandSelect,
		bus.MetaMessageID: i.ID,
		bus.MetaMention:   user.Mention(),
		bus.MetaPrefix:    c.prefix,
		metaInteraction:   i.ID,
	}, peerKind)
}

// acceptInteraction applies the same DM/group policy and allow list as messages.
func (c *Channel) acceptInteraction(senderID, peerKind string) bool {
	return c.CheckPolicy(peerKind, c.config.DMPolicy, c.config.GroupPolicy, senderID) && c.IsAllowed(senderID)
}

func peerKindOf(guildID string) string {
	if guildID == "" {
		return channels.PeerDirect
	}
	return channels.PeerGroup
}

// resolveDisplayName returns the best available display name for a Discord message author.
// Priority: server nickname > global display name > username.
func resolveDisplayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
