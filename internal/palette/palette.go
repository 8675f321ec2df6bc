// Package palette carries the per-theme material tables used by the
// structure builders. Themes are a closed enum and every theme maps to a
// strongly typed Materials record, so a misspelled material class is a
// compile error rather than a missing dictionary key.
package palette

import (
	"fmt"
	"math/rand"
	"strings"

	"sitecraft.dev/internal/protocol"
)

type Theme int

const (
	ThemeRustic Theme = iota
	ThemeCottage
	ThemeMedieval
	ThemeNordic
	ThemePlains
	ThemeForest
	ThemeDesert
	ThemeTaiga
	ThemeSwamp
	ThemeSavanna
)

var themeNames = [...]string{
	ThemeRustic:   "rustic",
	ThemeCottage:  "cottage",
	ThemeMedieval: "medieval",
	ThemeNordic:   "nordic",
	ThemePlains:   "plains",
	ThemeForest:   "forest",
	ThemeDesert:   "desert",
	ThemeTaiga:    "taiga",
	ThemeSwamp:    "swamp",
	ThemeSavanna:  "savanna",
}

func (t Theme) String() string {
	if int(t) < 0 || int(t) >= len(themeNames) {
		return fmt.Sprintf("theme(%d)", int(t))
	}
	return themeNames[t]
}

// Themes lists every theme in declaration order.
func Themes() []Theme {
	out := make([]Theme, len(themeNames))
	for i := range themeNames {
		out[i] = Theme(i)
	}
	return out
}

func ParseTheme(s string) (Theme, error) {
	for i, name := range themeNames {
		if name == s {
			return Theme(i), nil
		}
	}
	return 0, fmt.Errorf("palette: unknown theme %q", s)
}

// ThemeForBiome maps a biome id (with or without the "minecraft:" prefix)
// to a build theme, defaulting to plains for anything unmapped.
func ThemeForBiome(biome string) Theme {
	biome = strings.TrimPrefix(biome, "minecraft:")
	switch biome {
	case "plains", "sunflower_plains":
		return ThemePlains
	case "forest", "flower_forest", "birch_forest", "dark_forest":
		return ThemeForest
	case "desert", "desert_hills", "desert_lakes":
		return ThemeDesert
	case "taiga", "taiga_hills", "snowy_taiga":
		return ThemeTaiga
	case "swamp", "swamp_hills":
		return ThemeSwamp
	case "savanna", "savanna_plateau", "shattered_savanna":
		return ThemeSavanna
	default:
		return ThemePlains
	}
}

// Materials is one theme's block table. Each class is an ordered list of
// block ids with the primary choice first.
type Materials struct {
	Foundation []string `yaml:"foundation"`
	Floor      []string `yaml:"floor"`
	Walls      []string `yaml:"walls"`
	Trim       []string `yaml:"trim"`
	Roof       []string `yaml:"roof"`
	Accent     []string `yaml:"accent"`
	Details    []string `yaml:"details"`
	Windows    []string `yaml:"windows"`
}

func (m Materials) classes() map[string][]string {
	return map[string][]string{
		"foundation": m.Foundation,
		"floor":      m.Floor,
		"walls":      m.Walls,
		"trim":       m.Trim,
		"roof":       m.Roof,
		"accent":     m.Accent,
		"details":    m.Details,
		"windows":    m.Windows,
	}
}

func (m Materials) validate(theme string) error {
	for class, list := range m.classes() {
		if len(list) == 0 {
			return fmt.Errorf("palette: theme %q: empty %s list", theme, class)
		}
		for _, id := range list {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("palette: theme %q: blank block id in %s", theme, class)
			}
		}
	}
	return nil
}

// Random picks a uniformly random block from list.
func Random(r *rand.Rand, list []string) protocol.Block {
	return protocol.Block{ID: list[r.Intn(len(list))]}
}

// Weighted picks the primary block with probability weight, otherwise a
// uniform pick among the alternatives. Lists with a single entry always
// return the primary.
func Weighted(r *rand.Rand, list []string, weight float64) protocol.Block {
	if len(list) == 1 || r.Float64() < weight {
		return protocol.Block{ID: list[0]}
	}
	rest := list[1:]
	return protocol.Block{ID: rest[r.Intn(len(rest))]}
}
