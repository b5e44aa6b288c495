package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
	"github.com/nextlevelbuilder/danangbot/internal/channels"
)

// Discord limits.
const (
	embedColor          = 0x3498db // blue
	maxEmbedTitle       = 256
	maxEmbedDescription = 4096
	maxFieldValue       = 1024
	maxSelectOptions    = 25
	maxOptionText       = 100
)

func buildEmbed(a *bus.Answer) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       channels.Truncate(a.Title, maxEmbedTitle),
		Description: channels.Truncate(a.Body, maxEmbedDescription),
		Color:       embedColor,
	}
	if a.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: a.ImageURL}
	}

	if location := locationValue(a); location != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  a.Labels.Location,
			Value: channels.Truncate(location, maxFieldValue),
		})
	}
	if a.Rating > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   a.Labels.Rating,
			Value:  fmt.Sprintf("⭐ %.1f (%d %s)", a.Rating, a.ReviewCount, a.Labels.Reviews),
			Inline: true,
		})
	}
	return embed
}

func locationValue(a *bus.Answer) string {
	var parts []string
	if a.Address != "" {
		parts = append(parts, a.Address)
	}
	if a.MapURL != "" {
		parts = append(parts, fmt.Sprintf("[%s](%s)", a.Labels.ViewOnMap, a.MapURL))
	}
	return strings.Join(parts, "\n")
}

func buildMenu(m *bus.Menu) []discordgo.MessageComponent {
	opts := m.Options
	if len(opts) > maxSelectOptions {
		opts = opts[:maxSelectOptions]
	}

	options := make([]discordgo.SelectMenuOption, 0, len(opts))
	for _, o := range opts {
		options = append(options, discordgo.SelectMenuOption{
			Label:       channels.Truncate(o.Label, maxOptionText),
			Value:       o.Value,
			Description: channels.Truncate(o.Description, maxOptionText),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    placeSelectID,
					Placeholder: channels.Truncate(m.Placeholder, maxOptionText),
					Options:     options,
				},
			},
		},
	}
}
