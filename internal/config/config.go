package config

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// FlexibleStringSlice accepts both ["str"] and [123] in JSON.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

// Config is the root configuration for the Da Nang bot gateway.
type Config struct {
	Bot       BotConfig       `json:"bot"`
	Channels  ChannelsConfig  `json:"channels"`
	Gateway   GatewayConfig   `json:"gateway"`
	Places    PlacesConfig    `json:"places"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`
	Log       LogConfig       `json:"log,omitempty"`
	mu        sync.RWMutex
}

// BotConfig controls assistant behavior shared by every channel.
type BotConfig struct {
	CommandPrefix   string `json:"command_prefix"`             // prefix for text commands (default "!"); Telegram always uses "/"
	DefaultLanguage string `json:"default_language,omitempty"` // "en" (default) or "vi"
	KnowledgeFile   string `json:"knowledge_file,omitempty"`   // optional JSON5 knowledge base; built-in dataset when empty
	NotAvailable    string `json:"not_available,omitempty"`    // text for unresolvable keys (default "Information not available.")
}

// GatewayConfig controls the gateway server.
type GatewayConfig struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	Token           string   `json:"token,omitempty"`             // bearer token for the HTTP API
	AllowedOrigins  []string `json:"allowed_origins,omitempty"`   // WebSocket CORS whitelist (empty = allow all)
	MaxMessageChars int      `json:"max_message_chars,omitempty"` // max user message characters (default 2000)
	RateLimitRPM    int      `json:"rate_limit_rpm,omitempty"`    // requests per minute per user (default 20, 0 = disabled)
	RateLimitBurst  int      `json:"rate_limit_burst,omitempty"`  // burst per user (default 5)
}

// PlacesConfig configures Google Places enrichment of place answers.
type PlacesConfig struct {
	Enabled           bool    `json:"enabled"`
	APIKey            string  `json:"api_key,omitempty"`
	TextSearchURL     string  `json:"text_search_url,omitempty"`
	PhotoURL          string  `json:"photo_url,omitempty"`
	TimeoutMs         int     `json:"timeout_ms,omitempty"`          // per-answer enrichment budget (default 5000)
	CacheTTLSec       int     `json:"cache_ttl_sec,omitempty"`       // default 3600
	CacheSize         int     `json:"cache_size,omitempty"`          // default 100
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"` // outbound cap (0 = unlimited)
}

// Timeout returns the enrichment budget.
func (p PlacesConfig) Timeout() time.Duration {
	if p.TimeoutMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

// CacheTTL returns the enrichment cache lifetime.
func (p PlacesConfig) CacheTTL() time.Duration {
	if p.CacheTTLSec <= 0 {
		return time.Hour
	}
	return time.Duration(p.CacheTTLSec) * time.Second
}

// TelemetryConfig configures OpenTelemetry export for traces and spans.
type TelemetryConfig struct {
	Enabled     bool              `json:"enabled,omitempty"`      // enable OTLP export (default false)
	Endpoint    string            `json:"endpoint,omitempty"`     // OTLP endpoint (e.g. "localhost:4317", "otel.example.com:4318")
	Protocol    string            `json:"protocol,omitempty"`     // "grpc" (default) or "http"
	Insecure    bool              `json:"insecure,omitempty"`     // plaintext transport (set true for local dev)
	ServiceName string            `json:"service_name,omitempty"` // OTEL service name (default "danangbot")
	Headers     map[string]string `json:"headers,omitempty"`      // extra headers (e.g. auth tokens for cloud backends)
}

// LogConfig configures logging. File enables a rotating log file next to stdout.
type LogConfig struct {
	Level      string `json:"level,omitempty"`        // "debug", "info" (default), "warn", "error"
	File       string `json:"file,omitempty"`         // e.g. "bot.log"; empty disables file logging
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`  // default 1
	MaxBackups int    `json:"max_backups,omitempty"`  // default 5
	MaxAgeDays int    `json:"max_age_days,omitempty"` // 0 = keep
	Compress   bool   `json:"compress,omitempty"`
}
