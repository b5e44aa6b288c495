package assistant

import "context"

// Command names, without prefix.
const (
	CommandMenu     = "danang"
	CommandAsk      = "askdanang"
	CommandLanguage = "language"
	CommandHelp     = "help_danang"

	// CommandSelect is issued by menu interactions, not typed by users.
	CommandSelect = "select_place"
)

// CommandInfo describes a user-facing command.
type CommandInfo struct {
	Name        string
	Description string
}

// Commands lists the user-facing commands in help order.
var Commands = []CommandInfo{
	{Name: CommandMenu, Description: "Show the place selection menu"},
	{Name: CommandAsk, Description: "Ask a question about Da Nang"},
	{Name: CommandLanguage, Description: "Set your language (en or vi)"},
	{Name: CommandHelp, Description: "Show available commands"},
}

// Dispatch routes a command, or ambient text when command is empty.
// ok is false when the bot should stay silent.
func (r *Router) Dispatch(ctx context.Context, command string, req Request) (reply Reply, ok bool) {
	switch command {
	case "":
		return r.HandleMessage(ctx, req)
	case CommandMenu:
		return r.Menu(req), true
	case CommandAsk:
		return r.Ask(ctx, req), true
	case CommandLanguage:
		return r.Language(req), true
	case CommandHelp:
		return r.Help(req), true
	case CommandSelect:
		return r.Select(ctx, req), true
	default:
		return Reply{}, false
	}
}
