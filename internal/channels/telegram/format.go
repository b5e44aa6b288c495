package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
)

func formatTitleHTML(a *bus.Answer) string {
	return "<b>" + html.EscapeString(a.Title) + "</b>"
}

// formatAnswerHTML renders an answer in Telegram's HTML subset.
func formatAnswerHTML(a *bus.Answer) string {
	var sb strings.Builder
	sb.WriteString(formatTitleHTML(a))
	sb.WriteString("\n\n")
	sb.WriteString(html.EscapeString(a.Body))

	var details []string
	if a.Address != "" {
		details = append(details, fmt.Sprintf("📍 <b>%s:</b> %s",
			html.EscapeString(a.Labels.Location), html.EscapeString(a.Address)))
	}
	if a.MapURL != "" {
		details = append(details, fmt.Sprintf(`🗺 <a href="%s">%s</a>`,
			html.EscapeString(a.MapURL), html.EscapeString(a.Labels.ViewOnMap)))
	}
	if a.Rating > 0 {
		details = append(details, fmt.Sprintf("⭐ <b>%s:</b> %.1f (%d %s)",
			html.EscapeString(a.Labels.Rating), a.Rating, a.ReviewCount, html.EscapeString(a.Labels.Reviews)))
	}
	if len(details) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(details, "\n"))
	}
	return sb.String()
}
