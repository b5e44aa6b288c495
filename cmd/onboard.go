package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/danangbot/internal/config"
	"github.com/nextlevelbuilder/danangbot/internal/locale"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup: write config.json and .env.local",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnboard()
		},
	}
}

// onboardAnswers holds the wizard inputs.
type onboardAnswers struct {
	DiscordToken  string
	TelegramToken string
	GoogleAPIKey  string
	Prefix        string
	Language      string
	Port          string
	WebChat       bool
}

func runOnboard() error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		cfg = config.Default()
	}

	ans := onboardAnswers{
		DiscordToken:  cfg.Channels.Discord.Token,
		TelegramToken: cfg.Channels.Telegram.Token,
		GoogleAPIKey:  cfg.Places.APIKey,
		Prefix:        cfg.Bot.CommandPrefix,
		Language:      cfg.Bot.DefaultLanguage,
		Port:          strconv.Itoa(cfg.Gateway.Port),
		WebChat:       cfg.Channels.Web.Enabled,
	}

	langOpts := make([]huh.Option[string], 0, len(locale.Supported))
	for _, code := range locale.Supported {
		langOpts = append(langOpts, huh.NewOption(locale.Name(code), code))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Discord bot token").
				Description("Leave empty to disable Discord.").
				EchoMode(huh.EchoModePassword).
				Value(&ans.DiscordToken),
			huh.NewInput().
				Title("Telegram bot token").
				Description("Leave empty to disable Telegram.").
				EchoMode(huh.EchoModePassword).
				Value(&ans.TelegramToken),
			huh.NewInput().
				Title("Google Places API key").
				Description("Optional: adds photos, ratings and map links to place answers.").
				EchoMode(huh.EchoModePassword).
				Value(&ans.GoogleAPIKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Command prefix").
				Value(&ans.Prefix).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("prefix is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default language").
				Options(langOpts...).
				Value(&ans.Language),
			huh.NewInput().
				Title("Gateway port").
				Value(&ans.Port).
				Validate(validatePort),
			huh.NewConfirm().
				Title("Enable web chat?").
				Value(&ans.WebChat),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Setup cancelled.")
			return nil
		}
		return fmt.Errorf("onboard: %w", err)
	}

	applyOnboardAnswers(cfg, ans)
	secrets := onboardSecrets(ans)

	// Secrets live in .env.local; the config file never stores them.
	cfg.StripSecrets()
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	envPath := filepath.Join(filepath.Dir(cfgPath), ".env.local")
	if len(secrets) > 0 {
		if err := godotenv.Write(secrets, envPath); err != nil {
			return fmt.Errorf("write %s: %w", envPath, err)
		}
		if err := os.Chmod(envPath, 0600); err != nil {
			return fmt.Errorf("chmod %s: %w", envPath, err)
		}
	}

	fmt.Printf("Config written to %s\n", cfgPath)
	if len(secrets) > 0 {
		fmt.Printf("Secrets written to %s\n", envPath)
	}
	fmt.Println("Start the bot with: danangbot")
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	return nil
}

func applyOnboardAnswers(cfg *config.Config, ans onboardAnswers) {
	cfg.Bot.CommandPrefix = ans.Prefix
	cfg.Bot.DefaultLanguage = ans.Language
	if p, err := strconv.Atoi(ans.Port); err == nil {
		cfg.Gateway.Port = p
	}
	cfg.Channels.Discord.Enabled = ans.DiscordToken != ""
	cfg.Channels.Telegram.Enabled = ans.TelegramToken != ""
	cfg.Places.Enabled = ans.GoogleAPIKey != ""
	cfg.Channels.Web.Enabled = ans.WebChat
}

// onboardSecrets maps non-empty secrets to the env vars config.Load reads.
func onboardSecrets(ans onboardAnswers) map[string]string {
	secrets := make(map[string]string)
	if ans.DiscordToken != "" {
		secrets["DANANG_DISCORD_TOKEN"] = ans.DiscordToken
	}
	if ans.TelegramToken != "" {
		secrets["DANANG_TELEGRAM_TOKEN"] = ans.TelegramToken
	}
	if ans.GoogleAPIKey != "" {
		secrets["DANANG_GOOGLE_API_KEY"] = ans.GoogleAPIKey
	}
	return secrets
}
