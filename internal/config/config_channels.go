package config

// ChannelsConfig contains per-channel configuration.
type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
	Web      WebConfig      `json:"web"`
}

type TelegramConfig struct {
	Enabled     bool                `json:"enabled"`
	Token       string              `json:"token"`
	AllowFrom   FlexibleStringSlice `json:"allow_from"`
	DMPolicy    string              `json:"dm_policy,omitempty"`    // "open" (default), "allowlist", "disabled"
	GroupPolicy string              `json:"group_policy,omitempty"` // "open" (default), "allowlist", "disabled"
}

type DiscordConfig struct {
	Enabled     bool                `json:"enabled"`
	Token       string              `json:"token"`
	AllowFrom   FlexibleStringSlice `json:"allow_from"`
	DMPolicy    string              `json:"dm_policy,omitempty"`    // "open" (default), "allowlist", "disabled"
	GroupPolicy string              `json:"group_policy,omitempty"` // "open" (default), "allowlist", "disabled"
	Reactions   *bool               `json:"reactions,omitempty"`    // react to place answers (default true)
}

// ReactionsEnabled reports whether place answers get emoji reactions.
func (d DiscordConfig) ReactionsEnabled() bool {
	return d.Reactions == nil || *d.Reactions
}

// WebConfig configures the WebSocket web-chat channel served by the gateway.
type WebConfig struct {
	Enabled   bool                `json:"enabled"`
	AllowFrom FlexibleStringSlice `json:"allow_from"`
}
