package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
)

// handleMessage processes an incoming Telegram message.
func (c *Channel) handleMessage(_ context.Context, message *telego.Message) {
	user := message.From
	if user == nil || user.IsBot {
		return
	}

	content := message.Text
	if content == "" {
		content = message.Caption
	}
	content = strings.TrimSpace(content)
	if content == "" {
		// Service messages and bare media carry nothing to answer.
		return
	}

	userID := fmt.Sprintf("%d", user.ID)
	senderID := userID
	if user.Username != "" {
		senderID = fmt.Sprintf("%s|%s", userID, user.Username)
	}

	isGroup := message.Chat.Type == telego.ChatTypeGroup || message.Chat.Type == telego.ChatTypeSupergroup
	peerKind := channels.PeerDirect
	if isGroup {
		peerKind = channels.PeerGroup
	}

	if !c.CheckPolicy(peerKind, c.config.DMPolicy, c.config.GroupPolicy, senderID) {
		slog.Debug("telegram message rejected by policy",
			"user_id", userID, "username", user.Username, "chat_id", message.Chat.ID,
		)
		return
	}

	metadata := map[string]string{
		bus.MetaMessageID: fmt.Sprintf("%d:%d", message.Chat.ID, message.MessageID),
		bus.MetaMention:   mentionOf(user),
		bus.MetaPrefix:    commandPrefix,
		"reply_to":        fmt.Sprintf("%d", message.MessageID),
	}
	if name, args, ok := channels.ParseCommand(content, commandPrefix); ok {
		metadata[bus.MetaCommand] = commandAlias(name)
		content = args
	}

	slog.Debug("telegram message received",
		"sender_id", senderID,
		"chat_id", message.Chat.ID,
		"is_group", isGroup,
		"command", metadata[bus.MetaCommand],
		"preview", channels.Truncate(content, 50),
	)

	c.HandleMessage(senderID, fmt.Sprintf("%d", message.Chat.ID), content, metadata, peerKind)
}

// handleCallbackQuery forwards inline keyboard place choices as select commands.
func (c *Channel) handleCallbackQuery(ctx context.Context, query *telego.CallbackQuery) {
	if err := c.bot.AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)); err != nil {
		slog.Debug("telegram answer callback failed", "query_id", query.ID, "error", err)
	}

	key, ok := strings.CutPrefix(query.Data, placeCallbackPrefix)
	if !ok || key == "" || query.Message == nil {
		return
	}

	chat := query.Message.GetChat()
	peerKind := channels.PeerDirect
	if chat.Type == telego.ChatTypeGroup || chat.Type == telego.ChatTypeSupergroup {
		peerKind = channels.PeerGroup
	}

	senderID := fmt.Sprintf("%d", query.From.ID)
	if query.From.Username != "" {
		senderID += "|" + query.From.Username
	}
	if !c.CheckPolicy(peerKind, c.config.DMPolicy, c.config.GroupPolicy, senderID) {
		return
	}

	c.HandleMessage(senderID, fmt.Sprintf("%d", chat.ID), key, map[string]string{
		bus.MetaCommand:   selectCommand,
		bus.MetaMessageID: "cb:" + query.ID,
		bus.MetaMention:   mentionOf(&query.From),
		bus.MetaPrefix:    commandPrefix,
	}, peerKind)
}

// mentionOf addresses a user by @username, or first name when none is set.
func mentionOf(u *telego.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FirstName
}
