package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
)

// Bot API limits.
const (
	maxMessageLen = 4096
	maxCaptionLen = 1024
)

// Send delivers an outbound message to a Telegram chat.
func (c *Channel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if !c.IsRunning() {
		return fmt.Errorf("telegram bot not running")
	}
	chatID, err := parseChatID(msg.ChatID)
	if err != nil {
		return fmt.Errorf("invalid telegram chat ID %q: %w", msg.ChatID, err)
	}
	replyTo, _ := strconv.Atoi(msg.Metadata["reply_to"])

	switch {
	case msg.Answer != nil:
		return c.sendAnswer(ctx, chatID, replyTo, msg.Answer)
	case msg.Menu != nil:
		params := tu.Message(tu.ID(chatID), msg.Menu.Prompt).WithReplyMarkup(buildKeyboard(msg.Menu))
		_, err := c.bot.SendMessage(ctx, withReply(params, replyTo))
		return wrapSendErr(err)
	case msg.Content == "":
		return nil
	}

	for i, chunk := range channels.SplitMessage(msg.Content, maxMessageLen) {
		params := tu.Message(tu.ID(chatID), chunk)
		if i == 0 {
			params = withReply(params, replyTo)
		}
		if _, err := c.bot.SendMessage(ctx, params); err != nil {
			return wrapSendErr(err)
		}
	}
	return nil
}

// sendAnswer sends a photo with the answer as caption when it fits, otherwise
// the photo captioned with the title followed by the full text.
func (c *Channel) sendAnswer(ctx context.Context, chatID int64, replyTo int, a *bus.Answer) error {
	text := formatAnswerHTML(a)

	if a.ImageURL != "" {
		caption := text
		rest := ""
		if len([]rune(caption)) > maxCaptionLen {
			caption = formatTitleHTML(a)
			rest = text
		}
		photo := tu.Photo(tu.ID(chatID), tu.FileFromURL(a.ImageURL)).
			WithCaption(caption).
			WithParseMode(telego.ModeHTML)
		if replyTo > 0 {
			photo = photo.WithReplyParameters(&telego.ReplyParameters{MessageID: replyTo, AllowSendingWithoutReply: true})
		}
		if _, err := c.bot.SendPhoto(ctx, photo); err == nil {
			if rest == "" {
				return nil
			}
			text = rest
			replyTo = 0
		}
		// Photo failures fall through to a text-only answer.
	}

	for i, chunk := range channels.SplitMessage(text, maxMessageLen) {
		params := tu.Message(tu.ID(chatID), chunk).
			WithParseMode(telego.ModeHTML).
			WithLinkPreviewOptions(&telego.LinkPreviewOptions{IsDisabled: true})
		if i == 0 {
			params = withReply(params, replyTo)
		}
		if _, err := c.bot.SendMessage(ctx, params); err != nil {
			return wrapSendErr(err)
		}
	}
	return nil
}

func buildKeyboard(m *bus.Menu) *telego.InlineKeyboardMarkup {
	rows := make([][]telego.InlineKeyboardButton, 0, len(m.Options))
	for _, o := range m.Options {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(o.Label).WithCallbackData(placeCallbackPrefix+o.Value),
		))
	}
	return tu.InlineKeyboard(rows...)
}

func withReply(params *telego.SendMessageParams, replyTo int) *telego.SendMessageParams {
	if replyTo <= 0 {
		return params
	}
	return params.WithReplyParameters(&telego.ReplyParameters{MessageID: replyTo, AllowSendingWithoutReply: true})
}

func wrapSendErr(err error) error {
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
