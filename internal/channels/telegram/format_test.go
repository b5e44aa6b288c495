package telegram

import (
	"strings"
	"testing"

	"github.com/nextlevelbuilder/danangbot/internal/assistant"
	"github.com/nextlevelbuilder/danangbot/internal/bus"
)

func TestFormatAnswerHTML(t *testing.T) {
	a := &bus.Answer{
		Title:       "Marble Mountains",
		Body:        "Five <limestone> hills & caves.",
		Address:     "Hoà Hải, Ngũ Hành Sơn",
		MapURL:      "https://www.google.com/maps/place/?q=place_id:x&y",
		Rating:      4.6,
		ReviewCount: 20,
		Labels: bus.Labels{
			Location:  "Vị trí",
			Rating:    "Đánh giá",
			Reviews:   "đánh giá",
			ViewOnMap: "Xem trên Google Maps",
		},
	}
	got := formatAnswerHTML(a)

	for _, want := range []string{
		"<b>Marble Mountains</b>\n\n",
		"Five &lt;limestone&gt; hills &amp; caves.",
		"📍 <b>Vị trí:</b> Hoà Hải, Ngũ Hành Sơn",
		`<a href="https://www.google.com/maps/place/?q=place_id:x&amp;y">Xem trên Google Maps</a>`,
		"⭐ <b>Đánh giá:</b> 4.6 (20 đánh giá)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatAnswerHTML() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatAnswerHTMLStatic(t *testing.T) {
	got := formatAnswerHTML(&bus.Answer{Title: "Overview", Body: "Da Nang is a coastal city."})
	if got != "<b>Overview</b>\n\nDa Nang is a coastal city." {
		t.Errorf("formatAnswerHTML() = %q", got)
	}
}

func TestBuildKeyboard(t *testing.T) {
	kb := buildKeyboard(&bus.Menu{Options: []bus.MenuOption{
		{Label: "Dragon Bridge", Value: "dragon_bridge"},
		{Label: "Ba Na Hills", Value: "ba_na_hills"},
	}})
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows", len(kb.InlineKeyboard))
	}
	btn := kb.InlineKeyboard[1][0]
	if btn.Text != "Ba Na Hills" || btn.CallbackData != "place:ba_na_hills" {
		t.Errorf("button = %+v", btn)
	}
}

func TestCommandAlias(t *testing.T) {
	tests := map[string]string{
		"start":     assistant.CommandHelp,
		"help":      assistant.CommandHelp,
		"danang":    "danang",
		"askdanang": "askdanang",
	}
	for in, want := range tests {
		if got := commandAlias(in); got != want {
			t.Errorf("commandAlias(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMenuCommands(t *testing.T) {
	cmds := MenuCommands()
	if len(cmds) != len(assistant.Commands) {
		t.Fatalf("got %d commands", len(cmds))
	}
	for _, c := range cmds {
		if c.Command == "" || c.Description == "" || strings.ContainsAny(c.Command, "/ ") {
			t.Errorf("invalid bot command %+v", c)
		}
	}
}
