package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/sessions"
)

func askCmd() *cobra.Command {
	var (
		userID string
		lang   string
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question locally, without any channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			router, store, err := buildAssistant(cfg)
			if err != nil {
				return err
			}

			key := sessions.UserKey("cli", userID)
			if lang != "" {
				if err := store.SetLanguage(key, lang); err != nil {
					return fmt.Errorf("set language: %w", err)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Places.Timeout()+5*time.Second)
			defer cancel()
			reply := router.Ask(ctx, assistant.Request{
				UserID: key,
				Text:   strings.Join(args, " "),
				Prefix: cfg.Bot.CommandPrefix,
			})
			renderReply(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "local", "user id for conversation state")
	cmd.Flags().StringVar(&lang, "lang", "", "answer language (en or vi)")
	return cmd
}

// renderReply prints a reply as plain text, with place details when present.
func renderReply(w io.Writer, reply assistant.Reply) {
	fmt.Fprintln(w, reply.Text)

	a := reply.Answer
	if a == nil {
		return
	}
	var details []string
	if a.Address != "" {
		details = append(details, fmt.Sprintf("%s: %s", a.Labels.Location, a.Address))
	}
	if a.Rating > 0 {
		details = append(details, fmt.Sprintf("%s: ⭐ %.1f (%d %s)", a.Labels.Rating, a.Rating, a.ReviewCount, a.Labels.Reviews))
	}
	if a.MapURL != "" {
		details = append(details, fmt.Sprintf("%s: %s", a.Labels.ViewOnMap, a.MapURL))
	}
	if len(details) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Join(details, "\n"))
	}
}
