package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
	"github.com/nextlevelbuilder/danangbot/internal/channels/discord"
	"github.com/nextlevelbuilder/danangbot/internal/channels/telegram"
	"github.com/nextlevelbuilder/danangbot/internal/channels/web"
	"github.com/nextlevelbuilder/danangbot/internal/gateway"
	"github.com/nextlevelbuilder/danangbot/internal/logging"
	"github.com/nextlevelbuilder/danangbot/internal/tracing"
)

func runGateway() error {
	cfg, _, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logCloser := logging.Setup(cfg.Log, verbose)
	defer logCloser.Close()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Telemetry, Version)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	router, store, err := buildAssistant(cfg)
	if err != nil {
		slog.Error("failed to build assistant", "error", err)
		return err
	}

	msgBus := bus.New()
	channelMgr := channels.NewManager(msgBus)

	if cfg.Channels.Telegram.Enabled && cfg.Channels.Telegram.Token != "" {
		tg, err := telegram.New(cfg.Channels.Telegram, msgBus)
		if err != nil {
			slog.Error("failed to initialize telegram channel", "error", err)
		} else {
			channelMgr.RegisterChannel("telegram", tg)
			slog.Info("telegram channel enabled")
		}
	}

	if cfg.Channels.Discord.Enabled && cfg.Channels.Discord.Token != "" {
		dc, err := discord.New(cfg.Channels.Discord, msgBus, cfg.Bot.CommandPrefix)
		if err != nil {
			slog.Error("failed to initialize discord channel", "error", err)
		} else {
			channelMgr.RegisterChannel("discord", dc)
			slog.Info("discord channel enabled")
		}
	}

	serverOpts := []gateway.Option{gateway.WithChannelStatus(channelMgr.GetStatus)}
	if cfg.Channels.Web.Enabled {
		wc := web.New(cfg.Channels.Web, msgBus, cfg.Bot.CommandPrefix, cfg.Gateway.AllowedOrigins, cfg.Gateway.MaxMessageChars)
		channelMgr.RegisterChannel("web", wc)
		serverOpts = append(serverOpts, gateway.WithWebChat(wc.Handler()))
		slog.Info("web chat channel enabled")
	}

	server := gateway.NewServer(cfg.Gateway, router, serverOpts...)

	if err := channelMgr.StartAll(ctx); err != nil {
		slog.Error("failed to start channels", "error", err)
	}

	slog.Info("danangbot gateway starting",
		"version", Version,
		"topics", len(router.KB().Entries()),
		"channels", channelMgr.GetEnabledChannels(),
	)

	limiter := channels.NewUserRateLimiter(cfg.Gateway.RateLimitRPM, cfg.Gateway.RateLimitBurst)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx) })
	g.Go(func() error {
		consumeInboundMessages(gctx, msgBus, router, limiter)
		return nil
	})

	runErr := g.Wait()
	slog.Info("graceful shutdown initiated", "users", store.Users())

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	channelMgr.StopAll(stopCtx)
	msgBus.Close()
	if err := shutdownTracing(stopCtx); err != nil {
		slog.Warn("tracing shutdown failed", "error", err)
	}

	if runErr != nil {
		slog.Error("gateway stopped with error", "error", runErr)
		return fmt.Errorf("gateway: %w", runErr)
	}
	slog.Info("gateway stopped")
	return nil
}
