package discord

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
	"github.com/nextlevelbuilder/danangbot/internal/config"
)

func newTestChannel(cfg config.DiscordConfig, mb bus.MessageRouter) *Channel {
	return &Channel{
		BaseChannel: channels.NewBaseChannel("discord", mb, cfg.AllowFrom),
		config:      cfg,
		prefix:      "!",
		pending:     newPending(),
	}
}

func placeClick(guildID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "interaction-1",
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   guildID,
		ChannelID: "chan-1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data: discordgo.MessageComponentInteractionData{
			CustomID: placeSelectID,
			Values:   []string{"dragon_bridge"},
		},
	}}
}

func TestAcceptInteraction(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DiscordConfig
		sender   string
		peerKind string
		want     bool
	}{
		{"open dm", config.DiscordConfig{}, "u1", channels.PeerDirect, true},
		{"group disabled", config.DiscordConfig{GroupPolicy: "disabled"}, "u1", channels.PeerGroup, false},
		{"dm disabled", config.DiscordConfig{DMPolicy: "disabled"}, "u1", channels.PeerDirect, false},
		{"allowlist member", config.DiscordConfig{GroupPolicy: "allowlist", AllowFrom: []string{"u1"}}, "u1", channels.PeerGroup, true},
		{"allowlist stranger", config.DiscordConfig{GroupPolicy: "allowlist", AllowFrom: []string{"u1"}}, "u2", channels.PeerGroup, false},
		{"open policy still honors allow list", config.DiscordConfig{AllowFrom: []string{"u1"}}, "u2", channels.PeerDirect, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChannel(tt.cfg, bus.New())
			if got := c.acceptInteraction(tt.sender, tt.peerKind); got != tt.want {
				t.Errorf("acceptInteraction(%q, %q) = %v, want %v", tt.sender, tt.peerKind, got, tt.want)
			}
		})
	}
}

func TestRejectedInteractionIsDropped(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DiscordConfig
		guildID string
	}{
		{"group disabled", config.DiscordConfig{GroupPolicy: "disabled"}, "guild-1"},
		{"dm allowlist stranger", config.DiscordConfig{DMPolicy: "allowlist", AllowFrom: []string{"someone-else"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mb := bus.New()
			defer mb.Close()
			c := newTestChannel(tt.cfg, mb)

			// A rejected click returns before touching the session.
			c.handleInteraction(nil, placeClick(tt.guildID, "u1"))

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			if msg, ok := mb.ConsumeInbound(ctx); ok {
				t.Errorf("rejected interaction published %+v", msg)
			}
			if n := c.pending.Len(); n != 0 {
				t.Errorf("pending = %d, want 0", n)
			}
		})
	}
}

func TestPendingIsBounded(t *testing.T) {
	c := newTestChannel(config.DiscordConfig{}, bus.New())
	c.pending.Add("interaction-1", &discordgo.Interaction{ID: "interaction-1"})
	if _, ok := c.pending.Get("interaction-1"); !ok {
		t.Fatal("pending interaction missing right after Add")
	}
	for i := 0; i < pendingSize+10; i++ {
		c.pending.Add(fmt.Sprintf("i-%d", i), &discordgo.Interaction{})
	}
	if n := c.pending.Len(); n > pendingSize {
		t.Errorf("pending = %d, want at most %d", n, pendingSize)
	}
}
