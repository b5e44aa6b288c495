package telegram

import (
	"context"
	"log/slog"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
)

const (
	// placeCallbackPrefix tags inline keyboard callbacks carrying a topic key.
	placeCallbackPrefix = "place:"

	selectCommand = assistant.CommandSelect
)

// commandAlias maps Telegram conventions onto assistant commands.
func commandAlias(name string) string {
	switch name {
	case "start", "help":
		return assistant.CommandHelp
	}
	return name
}

// SyncMenuCommands registers bot commands with Telegram via setMyCommands.
func (c *Channel) SyncMenuCommands(ctx context.Context, commands []telego.BotCommand) error {
	if err := c.bot.DeleteMyCommands(ctx, nil); err != nil {
		slog.Debug("deleteMyCommands failed (may not exist)", "error", err)
	}

	if len(commands) == 0 {
		return nil
	}

	if len(commands) > 100 {
		commands = commands[:100]
	}

	return c.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commands,
	})
}

// MenuCommands returns the bot menu commands.
func MenuCommands() []telego.BotCommand {
	commands := make([]telego.BotCommand, 0, len(assistant.Commands))
	for _, cmd := range assistant.Commands {
		commands = append(commands, telego.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	return commands
}
