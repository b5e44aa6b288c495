package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/config"
	"github.com/nextlevelbuilder/danangbot/internal/conversation"
	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
	"github.com/nextlevelbuilder/danangbot/internal/places"
)

// envFiles are loaded from the config directory, most specific first.
// godotenv never overrides variables that are already set.
var envFiles = []string{".env.local", ".env"}

// loadConfig loads .env files next to the config, then the config itself.
func loadConfig() (*config.Config, string, error) {
	cfgPath := resolveConfigPath()
	dir := filepath.Dir(cfgPath)
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if err := godotenv.Load(path); err == nil {
			slog.Debug("loaded env file", "path", path)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	return cfg, cfgPath, nil
}

// loadKnowledge returns the configured knowledge base, or the built-in one.
func loadKnowledge(cfg *config.Config) (*knowledge.KnowledgeBase, error) {
	if cfg.Bot.KnowledgeFile == "" {
		return knowledge.Default(), nil
	}
	kb, err := knowledge.Load(config.ExpandHome(cfg.Bot.KnowledgeFile))
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return kb, nil
}

// newEnricher returns a Places client when enrichment is configured, else nil.
func newEnricher(cfg config.PlacesConfig) places.Enricher {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}
	return places.NewClient(cfg.APIKey,
		places.WithTextSearchURL(cfg.TextSearchURL),
		places.WithPhotoURL(cfg.PhotoURL),
		places.WithCache(cfg.CacheSize, cfg.CacheTTL()),
		places.WithRateLimit(cfg.RequestsPerSecond),
	)
}

// buildAssistant wires the knowledge base, state store and enrichment into a Router.
func buildAssistant(cfg *config.Config) (*assistant.Router, *conversation.MemoryStore, error) {
	kb, err := loadKnowledge(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := conversation.NewMemoryStore(cfg.Bot.DefaultLanguage)
	enricher := newEnricher(cfg.Places)
	if enricher == nil {
		slog.Info("place enrichment disabled")
	}

	router := assistant.New(assistant.Config{
		KB:            kb,
		Store:         store,
		Enricher:      enricher,
		EnrichTimeout: cfg.Places.Timeout(),
		CommandPrefix: cfg.Bot.CommandPrefix,
		NotAvailable:  cfg.Bot.NotAvailable,
	})
	return router, store, nil
}
