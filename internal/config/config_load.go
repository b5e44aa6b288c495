package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/titanous/json5"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			CommandPrefix:   "!",
			DefaultLanguage: "en",
			NotAvailable:    "Information not available.",
		},
		Channels: ChannelsConfig{
			Web: WebConfig{Enabled: true},
		},
		Gateway: GatewayConfig{
			Host:            "0.0.0.0",
			Port:            18790,
			MaxMessageChars: 2000,
			RateLimitRPM:    20,
			RateLimitBurst:  5,
		},
		Places: PlacesConfig{
			TimeoutMs:   5000,
			CacheTTLSec: 3600,
			CacheSize:   100,
		},
		Telemetry: TelemetryConfig{
			Protocol:    "grpc",
			ServiceName: "danangbot",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  1,
			MaxBackups: 5,
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars.
// A missing file yields the defaults plus env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}
	envBool := func(dst *bool, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	// Secrets; the unprefixed names are accepted for existing deployments.
	envStr(&c.Channels.Discord.Token, "DANANG_DISCORD_TOKEN", "DISCORD_TOKEN")
	envStr(&c.Channels.Telegram.Token, "DANANG_TELEGRAM_TOKEN", "TELEGRAM_TOKEN")
	envStr(&c.Places.APIKey, "DANANG_GOOGLE_API_KEY", "GOOGLE_API_KEY")
	envStr(&c.Gateway.Token, "DANANG_GATEWAY_TOKEN")

	// Auto-enable integrations if credentials are provided via env
	if c.Channels.Discord.Token != "" {
		c.Channels.Discord.Enabled = true
	}
	if c.Channels.Telegram.Token != "" {
		c.Channels.Telegram.Enabled = true
	}
	if c.Places.APIKey != "" {
		c.Places.Enabled = true
	}

	// Bot
	envStr(&c.Bot.CommandPrefix, "DANANG_COMMAND_PREFIX")
	envStr(&c.Bot.DefaultLanguage, "DANANG_DEFAULT_LANGUAGE")
	envStr(&c.Bot.KnowledgeFile, "DANANG_KNOWLEDGE_FILE")

	// Gateway host/port
	envStr(&c.Gateway.Host, "DANANG_HOST")
	if v := os.Getenv("DANANG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Gateway.Port = port
		}
	}
	if v := os.Getenv("DANANG_ALLOWED_ORIGINS"); v != "" {
		c.Gateway.AllowedOrigins = strings.Split(v, ",")
	}

	// Logging
	envStr(&c.Log.Level, "DANANG_LOG_LEVEL")
	envStr(&c.Log.File, "DANANG_LOG_FILE")

	// Telemetry
	envStr(&c.Telemetry.Endpoint, "DANANG_TELEMETRY_ENDPOINT")
	envStr(&c.Telemetry.Protocol, "DANANG_TELEMETRY_PROTOCOL")
	envStr(&c.Telemetry.ServiceName, "DANANG_TELEMETRY_SERVICE_NAME")
	envBool(&c.Telemetry.Enabled, "DANANG_TELEMETRY_ENABLED")
	envBool(&c.Telemetry.Insecure, "DANANG_TELEMETRY_INSECURE")
}

// Save writes the config to a JSON file.
func Save(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

const secretMask = "***"

// MaskedCopy returns a deep copy of the config with all secret fields masked.
// Used by `config show` to avoid printing secrets.
func (c *Config) MaskedCopy() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Deep copy via JSON round-trip
	data, err := json.Marshal(c)
	if err != nil {
		return &Config{}
	}
	cp := Default()
	if err := json.Unmarshal(data, cp); err != nil {
		return &Config{}
	}

	maskNonEmpty(&cp.Gateway.Token)
	maskNonEmpty(&cp.Channels.Telegram.Token)
	maskNonEmpty(&cp.Channels.Discord.Token)
	maskNonEmpty(&cp.Places.APIKey)
	for k := range cp.Telemetry.Headers {
		cp.Telemetry.Headers[k] = secretMask
	}

	return cp
}

// StripSecrets zeros out all secret fields in the config.
// Used before saving to disk so secrets stay in the environment.
func (c *Config) StripSecrets() {
	c.Gateway.Token = ""
	c.Channels.Telegram.Token = ""
	c.Channels.Discord.Token = ""
	c.Places.APIKey = ""
}

func maskNonEmpty(s *string) {
	if *s != "" {
		*s = secretMask
	}
}

// ExpandHome replaces leading ~ with the user home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, _ := os.UserHomeDir()
	if len(path) > 1 && path[1] == '/' {
		return home + path[1:]
	}
	return home
}
