package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials and knowledge base health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor(cmd.OutOrStdout())
		},
	}
}

func runDoctor(w io.Writer) {
	fmt.Fprintln(w, "danangbot doctor")
	fmt.Fprintf(w, "  Version:  %s\n", Version)
	fmt.Fprintf(w, "  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  Go:       %s\n", runtime.Version())
	fmt.Fprintln(w)

	cfgPath := resolveConfigPath()
	fmt.Fprintf(w, "  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Fprintln(w, " (NOT FOUND, using defaults)")
	} else {
		fmt.Fprintln(w, " (OK)")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "  Config load error: %s\n", err)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Channels:")
	checkChannel(w, "Discord", cfg.Channels.Discord.Enabled, cfg.Channels.Discord.Token != "")
	checkChannel(w, "Telegram", cfg.Channels.Telegram.Enabled, cfg.Channels.Telegram.Token != "")
	checkChannel(w, "Web", cfg.Channels.Web.Enabled, true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Enrichment:")
	checkSecret(w, "Places", cfg.Places.APIKey)
	if cfg.Places.Enabled && cfg.Places.APIKey == "" {
		fmt.Fprintf(w, "    %-12s enabled but no API key; answers use static text\n", "")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Knowledge base:")
	source := "built-in"
	if cfg.Bot.KnowledgeFile != "" {
		source = cfg.Bot.KnowledgeFile
	}
	fmt.Fprintf(w, "    %-12s %s\n", "Source:", source)
	if kb, err := loadKnowledge(cfg); err != nil {
		fmt.Fprintf(w, "    %-12s LOAD FAILED (%s)\n", "Status:", err)
	} else {
		checkKnowledge(w, kb)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor check complete.")
}

func checkChannel(w io.Writer, name string, enabled, hasCredentials bool) {
	status := "disabled"
	if enabled && hasCredentials {
		status = "enabled"
	} else if enabled {
		status = "enabled (missing credentials)"
	}
	fmt.Fprintf(w, "    %-12s %s\n", name+":", status)
}

func checkSecret(w io.Writer, name, secret string) {
	fmt.Fprintf(w, "    %-12s %s\n", name+":", maskSecret(secret))
}

// maskSecret shows only the edges of a secret.
func maskSecret(s string) string {
	switch {
	case s == "":
		return "(not configured)"
	case len(s) <= 8:
		return strings.Repeat("*", len(s))
	default:
		return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
	}
}

func checkKnowledge(w io.Writer, kb *knowledge.KnowledgeBase) {
	fmt.Fprintf(w, "    %-12s %d\n", "Topics:", len(kb.Entries()))
	for _, cat := range kb.Categories() {
		fmt.Fprintf(w, "    %-12s %d\n", cat+":", len(kb.Topics(cat)))
	}
	var missing []string
	for _, e := range kb.Entries() {
		if e.Text["vi"] == "" || e.Title["vi"] == "" {
			missing = append(missing, e.Key)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(w, "    %-12s %s (fall back to English)\n", "No vi text:", strings.Join(missing, ", "))
	}
}
