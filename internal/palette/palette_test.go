package palette

import (
	"math/rand"
	"testing"
)

func TestLoad_RepoCatalog(t *testing.T) {
	c, err := Load("../../configs")
	if err != nil {
		t.Fatalf("load palettes: %v", err)
	}
	for _, theme := range Themes() {
		m := c.Materials(theme)
		if len(m.Walls) == 0 || len(m.Roof) == 0 {
			t.Fatalf("theme %s has empty material classes", theme)
		}
	}
	if c.Digest() == "" {
		t.Fatalf("expected a palette digest")
	}

	again, err := Load("../../configs")
	if err != nil {
		t.Fatalf("reload palettes: %v", err)
	}
	if again.Digest() != c.Digest() {
		t.Fatalf("digest not stable: %s vs %s", c.Digest(), again.Digest())
	}
}

func TestThemeForBiome(t *testing.T) {
	cases := map[string]Theme{
		"minecraft:desert": ThemeDesert,
		"dark_forest":      ThemeForest,
		"snowy_taiga":      ThemeTaiga,
		"swamp_hills":      ThemeSwamp,
		"savanna_plateau":  ThemeSavanna,
		"sunflower_plains": ThemePlains,
		"mushroom_fields":  ThemePlains, // unmapped falls back to plains
	}
	for biome, want := range cases {
		if got := ThemeForBiome(biome); got != want {
			t.Fatalf("biome %q: got %s want %s", biome, got, want)
		}
	}
}

func TestParseTheme_RoundTrip(t *testing.T) {
	for _, theme := range Themes() {
		got, err := ParseTheme(theme.String())
		if err != nil {
			t.Fatalf("parse %s: %v", theme, err)
		}
		if got != theme {
			t.Fatalf("round trip: got %s want %s", got, theme)
		}
	}
	if _, err := ParseTheme("brutalist"); err == nil {
		t.Fatalf("expected unknown theme rejected")
	}
}

func TestWeighted_PrefersPrimary(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	list := []string{"oak_planks", "spruce_planks", "birch_planks"}
	primary := 0
	const n = 1000
	for i := 0; i < n; i++ {
		b := Weighted(r, list, 0.7)
		if b.ID == "oak_planks" {
			primary++
		}
	}
	if primary < 600 || primary > 800 {
		t.Fatalf("primary picked %d/%d times, want ~700", primary, n)
	}

	if b := Weighted(r, []string{"stone"}, 0.0); b.ID != "stone" {
		t.Fatalf("single-entry list must return the primary, got %s", b.ID)
	}
}
