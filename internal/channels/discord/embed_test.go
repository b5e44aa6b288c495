package discord

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/nextlevelbuilder/danangbot/internal/bus"
)

var testLabels = bus.Labels{
	Location:  "Location",
	Rating:    "Rating",
	Reviews:   "reviews",
	ViewOnMap: "View on Google Maps",
}

func TestBuildEmbedEnriched(t *testing.T) {
	a := &bus.Answer{
		Title:       "Dragon Bridge",
		Body:        "A 666m bridge shaped like a dragon.",
		ImageURL:    "https://example.com/photo.jpg",
		MapURL:      "https://www.google.com/maps/place/?q=place_id:abc",
		Address:     "Nguyễn Văn Linh, Da Nang",
		Rating:      4.6,
		ReviewCount: 1234,
		Labels:      testLabels,
	}
	e := buildEmbed(a)

	if e.Title != a.Title || e.Description != a.Body || e.Color != embedColor {
		t.Errorf("embed header = %+v", e)
	}
	if e.Image == nil || e.Image.URL != a.ImageURL {
		t.Errorf("embed image = %+v", e.Image)
	}
	if len(e.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(e.Fields))
	}
	wantLoc := "Nguyễn Văn Linh, Da Nang\n[View on Google Maps](" + a.MapURL + ")"
	if e.Fields[0].Name != "Location" || e.Fields[0].Value != wantLoc || e.Fields[0].Inline {
		t.Errorf("location field = %+v", e.Fields[0])
	}
	if e.Fields[1].Value != "⭐ 4.6 (1234 reviews)" || !e.Fields[1].Inline {
		t.Errorf("rating field = %+v", e.Fields[1])
	}
}

func TestBuildEmbedStatic(t *testing.T) {
	e := buildEmbed(&bus.Answer{Title: "Traditions", Body: "Tết ...", Labels: testLabels})
	if e.Image != nil || len(e.Fields) != 0 {
		t.Errorf("static embed has extras: %+v", e)
	}
}

func TestBuildEmbedTruncatesBody(t *testing.T) {
	e := buildEmbed(&bus.Answer{Title: "t", Body: strings.Repeat("a", 5000)})
	if len(e.Description) > maxEmbedDescription {
		t.Errorf("description length = %d", len(e.Description))
	}
}

func TestBuildMenu(t *testing.T) {
	menu := &bus.Menu{Prompt: "Pick", Placeholder: "Choose a place in Da Nang..."}
	for i := 0; i < 30; i++ {
		menu.Options = append(menu.Options, bus.MenuOption{
			Label: fmt.Sprintf("Place %d", i),
			Value: fmt.Sprintf("place_%d", i),
		})
	}

	comps := buildMenu(menu)
	if len(comps) != 1 {
		t.Fatalf("got %d rows", len(comps))
	}
	row, ok := comps[0].(discordgo.ActionsRow)
	if !ok || len(row.Components) != 1 {
		t.Fatalf("row = %#v", comps[0])
	}
	sel, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("component = %#v", row.Components[0])
	}
	if sel.CustomID != placeSelectID || sel.Placeholder != menu.Placeholder {
		t.Errorf("select = %+v", sel)
	}
	if len(sel.Options) != maxSelectOptions || sel.Options[0].Value != "place_0" {
		t.Errorf("options = %d, first %+v", len(sel.Options), sel.Options[0])
	}
}

func TestPeerKindOf(t *testing.T) {
	if peerKindOf("") != "direct" || peerKindOf("123") != "group" {
		t.Error("peerKindOf mismatch")
	}
}
