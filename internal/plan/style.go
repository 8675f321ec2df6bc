// Package plan turns a surveyed site into an immutable building plan:
// architectural style, terrain adaptation and room layout. Everything here
// is pure; nothing touches the world.
package plan

import (
	"fmt"
	"math/rand"

	"sitecraft.dev/internal/palette"
	"sitecraft.dev/internal/terrain"
)

// Style is the architectural shape of the house.
type Style int

const (
	StyleCottage Style = iota
	StyleLonghouse
	StyleSplitLevel
	StyleCompound
	StyleTower
	StyleCourtyard
	StylePlatform
)

var styleNames = [...]string{
	StyleCottage:    "cottage",
	StyleLonghouse:  "longhouse",
	StyleSplitLevel: "split-level",
	StyleCompound:   "compound",
	StyleTower:      "tower",
	StyleCourtyard:  "courtyard",
	StylePlatform:   "platform",
}

func (s Style) String() string {
	if int(s) < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("style(%d)", int(s))
	}
	return styleNames[s]
}

// ChooseStyle rolls a weighted style choice for the site: the terrain kind
// dominates (hillsides favor split-levels, shallow water forces platforms
// up) with a smaller thumb on the scale from the biome theme.
func ChooseStyle(r *rand.Rand, site terrain.Site, theme palette.Theme) Style {
	weights := map[Style]int{
		StyleCottage:    10,
		StyleLonghouse:  5,
		StyleSplitLevel: 5,
		StyleCompound:   5,
		StyleTower:      5,
		StyleCourtyard:  5,
		StylePlatform:   5,
	}

	switch site.Kind {
	case terrain.SiteFlat:
		weights[StyleCottage] += 5
		weights[StyleLonghouse] += 10
		weights[StyleCompound] += 10
		weights[StyleCourtyard] += 15
	case terrain.SiteHillside:
		weights[StyleSplitLevel] += 20
		weights[StyleCompound] += 5
	case terrain.SiteWaterfront:
		weights[StyleCottage] += 5
		weights[StylePlatform] += 10
	case terrain.SiteShallowWater:
		weights[StylePlatform] += 25
	case terrain.SiteElevated:
		weights[StyleTower] += 15
		weights[StyleSplitLevel] += 10
	}

	switch theme {
	case palette.ThemeTaiga, palette.ThemeForest:
		weights[StyleCottage] += 5
		weights[StyleLonghouse] += 10
	case palette.ThemeDesert:
		weights[StyleCourtyard] += 10
		weights[StyleCompound] += 5
	case palette.ThemeSwamp:
		weights[StylePlatform] += 15
	case palette.ThemeSavanna:
		weights[StyleCompound] += 10
		weights[StyleTower] += 5
	}

	total := 0
	for s := StyleCottage; s <= StylePlatform; s++ {
		total += weights[s]
	}
	roll := r.Intn(total)
	for s := StyleCottage; s <= StylePlatform; s++ {
		roll -= weights[s]
		if roll < 0 {
			return s
		}
	}
	return StyleCottage
}
