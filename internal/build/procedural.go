package build

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/palette"
	"sitecraft.dev/internal/plan"
	"sitecraft.dev/internal/protocol"
	"sitecraft.dev/internal/terrain"
)

// Procedural surveys the build area, picks a site among the best candidates
// and generates a house adapted to it: style and dimensions follow the site
// kind and biome, the foundation follows the adaptation plan (stilts over
// water, embedded into hillsides) and the interior follows a generated
// room layout.
func Procedural(ctx context.Context, e *editor.Editor, cat *palette.Catalog, r *rand.Rand) (Result, error) {
	slice, err := e.LoadSlice(ctx)
	if err != nil {
		return Result{}, err
	}
	ground, err := slice.Ground()
	if err != nil {
		return Result{}, err
	}
	water, err := slice.WaterMask()
	if err != nil {
		return Result{}, err
	}

	sites := terrain.Survey(ground, water, terrain.SurveyOptions{})
	top := sites[:maxOf(1, len(sites)*8/10)]
	site := top[r.Intn(len(top))]

	d := proceduralDims(r, site.Kind, slice.CenterBiome())

	theme := palette.ThemeForBiome(slice.CenterBiome())
	mats := cat.Materials(theme)
	style := plan.ChooseStyle(r, site, theme)
	adap := plan.Adapt(r, ground, water, site, d, style)
	lay := plan.NewLayout(r, d, style, adap.Tiers)

	baseY := adap.BaseY
	if adap.Mode == plan.FoundationStilts {
		baseY = adap.FoundationY
	}

	p := procedural{
		e: e, r: r, mats: mats,
		x: slice.WorldX(site.X + adap.CenterOffset.DX),
		z: slice.WorldZ(site.Z + adap.CenterOffset.DZ),
		y: baseY,
		d: d, site: site, adap: adap, lay: lay,
		ground: ground, rect: slice.Rect(),
	}
	steps := []func(context.Context) error{
		p.foundation,
		p.walls,
		p.roof,
		p.interior,
		p.exterior,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return Result{}, fmt.Errorf("build: procedural %s: %w", style, err)
		}
	}
	if err := e.Flush(ctx); err != nil {
		return Result{}, fmt.Errorf("build: procedural: %w", err)
	}
	return Result{
		X: p.x, Y: p.y, Z: p.z,
		Width: d.Width, Length: d.Length, Height: d.Height,
		Style: style.String(), Theme: theme.String(),
	}, nil
}

// proceduralDims sizes the house for the site kind, then adjusts for the
// biome: compact and tall in cold biomes, wide and low in deserts.
func proceduralDims(r *rand.Rand, kind terrain.SiteKind, biome string) plan.Dims {
	odd := func(v int) int { return v | 1 }
	var d plan.Dims
	switch kind {
	case terrain.SiteHillside, terrain.SiteElevated:
		d = plan.Dims{Width: odd(9 + r.Intn(7)), Length: odd(11 + r.Intn(9)), Height: 5 + r.Intn(4)}
	case terrain.SiteShallowWater, terrain.SiteWaterfront:
		d = plan.Dims{Width: odd(11 + r.Intn(7)), Length: odd(11 + r.Intn(7)), Height: 4 + r.Intn(3)}
	default:
		d = plan.Dims{Width: odd(13 + r.Intn(7)), Length: odd(15 + r.Intn(9)), Height: 5 + r.Intn(4)}
	}
	switch {
	case strings.Contains(biome, "taiga"), strings.Contains(biome, "cold"), strings.Contains(biome, "snowy"):
		d.Width = maxOf(9, d.Width-4)
		d.Length = maxOf(11, d.Length-4)
		if d.Height < 7 {
			d.Height++
		}
	case strings.Contains(biome, "desert"):
		d.Width = clamp(d.Width+4, d.Width, 23)
		d.Length = clamp(d.Length+4, d.Length, 27)
		d.Height = maxOf(4, d.Height-1)
	}
	return d
}

type procedural struct {
	e    *editor.Editor
	r    *rand.Rand
	mats palette.Materials

	x, y, z int
	d       plan.Dims
	site    terrain.Site
	adap    plan.Adaptation
	lay     plan.Layout

	ground terrain.Grid
	rect   protocol.Rect
}

func (p *procedural) groundAt(wx, wz int) (int, bool) {
	lx := wx - p.rect.X
	lz := wz - p.rect.Z
	if lx < 0 || lx >= p.ground.Cols() || lz < 0 || lz >= p.ground.Rows() {
		return 0, false
	}
	return p.ground.At(lx, lz), true
}

func (p *procedural) foundation(ctx context.Context) error {
	w, l := p.d.Width, p.d.Length
	switch p.adap.Mode {
	case plan.FoundationStilts:
		// Perimeter stilts plus internal supports for wide decks.
		step := maxOf(2, w/6)
		var stilts []plan.Offset
		for dx := -w / 2; dx <= w/2; dx += step {
			for dz := -l / 2; dz <= l/2; dz += maxOf(2, l/6) {
				if dx == -w/2 || dx == w/2 || dz == -l/2 || dz == l/2 {
					stilts = append(stilts, plan.Offset{DX: dx, DZ: dz})
				}
			}
		}
		if w > 10 || l > 10 {
			stilts = append(stilts, plan.Offset{DX: 0, DZ: 0})
		}
		for _, s := range stilts {
			wx, wz := p.x+s.DX, p.z+s.DZ
			bottom, ok := p.groundAt(wx, wz)
			if !ok {
				bottom = p.y - 4
			}
			if err := Cuboid(ctx, p.e,
				[3]int{wx, bottom, wz},
				[3]int{wx, p.y - 1, wz},
				palette.Random(p.r, p.mats.Foundation)); err != nil {
				return err
			}
		}

	case plan.FoundationEmbedded:
		// Cut the footprint into the slope and hold it with a retaining ring.
		if err := Cuboid(ctx, p.e,
			[3]int{p.x - w/2 - 1, p.y, p.z - l/2 - 1},
			[3]int{p.x + w/2 + 1, p.y + p.d.Height + 1, p.z + l/2 + 1},
			Air); err != nil {
			return err
		}
		if err := CuboidHollow(ctx, p.e,
			[3]int{p.x - w/2 - 1, p.y - 1, p.z - l/2 - 1},
			[3]int{p.x + w/2 + 1, p.y - 1, p.z + l/2 + 1},
			palette.Random(p.r, p.mats.Foundation)); err != nil {
			return err
		}

	default:
		// Pillars wherever the ground falls away under the footprint.
		for dx := -w/2 - 1; dx <= w/2+1; dx++ {
			for dz := -l/2 - 1; dz <= l/2+1; dz++ {
				wx, wz := p.x+dx, p.z+dz
				h, ok := p.groundAt(wx, wz)
				if !ok || h >= p.y-1 {
					continue
				}
				if err := Cuboid(ctx, p.e,
					[3]int{wx, h, wz},
					[3]int{wx, p.y - 2, wz},
					palette.Random(p.r, p.mats.Foundation)); err != nil {
					return err
				}
			}
		}
	}

	// Deck / floor platform.
	for dx := -w / 2; dx <= w/2; dx++ {
		for dz := -l / 2; dz <= l/2; dz++ {
			if err := p.e.Place(ctx, [3]int{p.x + dx, p.y - 1, p.z + dz},
				palette.Weighted(p.r, p.mats.Floor, 0.7)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *procedural) tierY(tier int) int {
	if tier > 0 && tier < len(p.adap.TierHeights) {
		return p.adap.TierHeights[tier]
	}
	return p.y
}

func (p *procedural) walls(ctx context.Context) error {
	w, l, h := p.d.Width, p.d.Length, p.d.Height

	if err := CuboidHollow(ctx, p.e,
		[3]int{p.x - w/2, p.y, p.z - l/2},
		[3]int{p.x + w/2, p.y + h - 1, p.z + l/2},
		palette.Weighted(p.r, p.mats.Walls, 0.7)); err != nil {
		return err
	}
	for _, dx := range []int{-w / 2, w / 2} {
		for _, dz := range []int{-l / 2, l / 2} {
			if err := Cuboid(ctx, p.e,
				[3]int{p.x + dx, p.y, p.z + dz},
				[3]int{p.x + dx, p.y + h - 1, p.z + dz},
				blockWithStates(p.mats.Trim[0], map[string]string{"axis": "y"})); err != nil {
				return err
			}
		}
	}

	// Interior walls from the layout.
	for _, run := range p.lay.Walls {
		if err := Cuboid(ctx, p.e,
			[3]int{p.x + run.X1, p.y, p.z + run.Z1},
			[3]int{p.x + run.X2, p.y + h - 2, p.z + run.Z2},
			palette.Random(p.r, p.mats.Walls)); err != nil {
			return err
		}
	}

	// Doors: the entrance gets a real door, inner doorways are cut open.
	for _, door := range p.lay.Doors {
		wx, wz := p.x+door.X, p.z+door.Z
		if err := Cuboid(ctx, p.e,
			[3]int{wx, p.y, wz},
			[3]int{wx, p.y + 1, wz},
			Air); err != nil {
			return err
		}
		if door.Entrance {
			if err := placeDoor(ctx, p.e, wx, p.y, wz, "spruce_door", string(door.Facing)); err != nil {
				return err
			}
		}
	}

	// Windows.
	for _, win := range p.lay.Windows {
		if err := Cuboid(ctx, p.e,
			[3]int{p.x + win.X, p.y + 1, p.z + win.Z},
			[3]int{p.x + win.X, p.y + 2, p.z + win.Z},
			block(p.mats.Windows[0])); err != nil {
			return err
		}
	}
	return nil
}

func (p *procedural) roof(ctx context.Context) error {
	w, l, h := p.d.Width, p.d.Length, p.d.Height
	topY := p.y + h

	switch p.lay.Style {
	case plan.StyleTower:
		// Flat roof with crenellation.
		if err := Cuboid(ctx, p.e,
			[3]int{p.x - w/2, topY, p.z - l/2},
			[3]int{p.x + w/2, topY, p.z + l/2},
			palette.Random(p.r, p.mats.Roof)); err != nil {
			return err
		}
		for dx := -w / 2; dx <= w/2; dx++ {
			for _, dz := range []int{-l / 2, l / 2} {
				if (dx+w/2)%2 == 0 {
					if err := p.e.Place(ctx, [3]int{p.x + dx, topY + 1, p.z + dz},
						palette.Random(p.r, p.mats.Accent)); err != nil {
						return err
					}
				}
			}
		}
		for dz := -l / 2; dz <= l/2; dz++ {
			for _, dx := range []int{-w / 2, w / 2} {
				if (dz+l/2)%2 == 0 {
					if err := p.e.Place(ctx, [3]int{p.x + dx, topY + 1, p.z + dz},
						palette.Random(p.r, p.mats.Accent)); err != nil {
						return err
					}
				}
			}
		}
		return nil

	case plan.StylePlatform:
		// Flat cabin roof over the inner room only.
		return Cuboid(ctx, p.e,
			[3]int{p.x - w/4, topY - 1, p.z - l/4},
			[3]int{p.x + w/4, topY - 1, p.z + l/4},
			palette.Random(p.r, p.mats.Roof))

	default:
		// Pitched stair roof across the width.
		for i := 0; i < w/2+2; i++ {
			if i == w/2+1 {
				if err := Cuboid(ctx, p.e,
					[3]int{p.x, topY + i - 2, p.z - l/2 - 1},
					[3]int{p.x, topY + i - 2, p.z + l/2 + 1},
					palette.Random(p.r, p.mats.Accent)); err != nil {
					return err
				}
				continue
			}
			if err := Cuboid(ctx, p.e,
				[3]int{p.x - w/2 + i, topY + i - 1, p.z - l/2 - 1},
				[3]int{p.x - w/2 + i, topY + i - 1, p.z + l/2 + 1},
				stairs(p.mats.Roof[0], "east")); err != nil {
				return err
			}
			if err := Cuboid(ctx, p.e,
				[3]int{p.x + w/2 - i, topY + i - 1, p.z - l/2 - 1},
				[3]int{p.x + w/2 - i, topY + i - 1, p.z + l/2 + 1},
				stairs(p.mats.Roof[0], "west")); err != nil {
				return err
			}
		}
		return nil
	}
}

func (p *procedural) interior(ctx context.Context) error {
	for _, f := range p.lay.Features {
		wx, wz := p.x+f.X, p.z+f.Z
		fy := p.tierY(f.Tier)
		var err error
		switch f.Kind {
		case plan.FeatureFireplace:
			err = p.fireplace(ctx, wx, fy, wz)
		case plan.FeatureBookshelf:
			err = Cuboid(ctx, p.e, [3]int{wx, fy, wz}, [3]int{wx, fy + 1, wz}, block("bookshelf"))
		case plan.FeatureTable:
			err = p.table(ctx, wx, fy, wz)
		case plan.FeatureBed:
			err = p.bed(ctx, wx, fy, wz)
		case plan.FeatureStorage:
			err = p.storage(ctx, wx, fy, wz)
		case plan.FeatureKitchen:
			err = p.kitchen(ctx, wx, fy, wz)
		case plan.FeatureStairs:
			err = p.tierStairs(ctx, wx, wz, f.Tier)
		case plan.FeatureWell:
			err = p.well(ctx, wx, wz)
		}
		if err != nil {
			return err
		}
	}

	// Hanging lanterns in each room.
	for _, room := range p.lay.Rooms {
		cx := p.x + (room.X1+room.X2)/2
		cz := p.z + (room.Z1+room.Z2)/2
		fy := p.tierY(room.Tier)
		if err := p.e.Place(ctx, [3]int{cx, fy + p.d.Height - 2, cz},
			blockWithStates("lantern", map[string]string{"hanging": "true"})); err != nil {
			return err
		}
	}
	return nil
}

func (p *procedural) fireplace(ctx context.Context, x, y, z int) error {
	if err := Cuboid(ctx, p.e,
		[3]int{x, y, z}, [3]int{x, y + 2, z},
		palette.Random(p.r, p.mats.Accent)); err != nil {
		return err
	}
	return p.e.Place(ctx, [3]int{x, y, z - 1},
		blockWithStates("campfire", map[string]string{"lit": "true"}))
}

func (p *procedural) table(ctx context.Context, x, y, z int) error {
	if err := p.e.Place(ctx, [3]int{x, y, z}, block("oak_fence")); err != nil {
		return err
	}
	if err := p.e.Place(ctx, [3]int{x, y + 1, z}, block("oak_pressure_plate")); err != nil {
		return err
	}
	if err := p.e.Place(ctx, [3]int{x - 1, y, z}, stairs("oak_stairs", "east")); err != nil {
		return err
	}
	return p.e.Place(ctx, [3]int{x + 1, y, z}, stairs("oak_stairs", "west"))
}

func (p *procedural) bed(ctx context.Context, x, y, z int) error {
	if err := p.e.Place(ctx, [3]int{x, y, z},
		blockWithStates("red_bed", map[string]string{"facing": "west", "part": "foot"})); err != nil {
		return err
	}
	return p.e.Place(ctx, [3]int{x - 1, y, z},
		blockWithStates("red_bed", map[string]string{"facing": "west", "part": "head"}))
}

func (p *procedural) storage(ctx context.Context, x, y, z int) error {
	if err := p.e.Place(ctx, [3]int{x, y, z},
		blockWithStates("chest", map[string]string{"facing": "south"})); err != nil {
		return err
	}
	return p.e.Place(ctx, [3]int{x + 1, y, z}, block("barrel"))
}

func (p *procedural) kitchen(ctx context.Context, x, y, z int) error {
	if err := p.e.Place(ctx, [3]int{x, y, z}, block("crafting_table")); err != nil {
		return err
	}
	return p.e.Place(ctx, [3]int{x + 1, y, z},
		blockWithStates("furnace", map[string]string{"facing": "south"}))
}

// tierStairs connects a split-level tier to the one below it.
func (p *procedural) tierStairs(ctx context.Context, x, z, tier int) error {
	lower := p.tierY(tier - 1)
	upper := p.tierY(tier)
	for i := 0; lower+i < upper; i++ {
		if err := p.e.Place(ctx, [3]int{x - i, lower + i, z}, stairs("spruce_stairs", "west")); err != nil {
			return err
		}
	}
	return nil
}

func (p *procedural) well(ctx context.Context, x, z int) error {
	wy, ok := p.groundAt(x, z)
	if !ok {
		wy = p.y
	}
	if err := CuboidHollow(ctx, p.e,
		[3]int{x - 1, wy, z - 1}, [3]int{x + 1, wy, z + 1},
		block("cobblestone")); err != nil {
		return err
	}
	if err := p.e.Place(ctx, [3]int{x, wy, z}, block("water")); err != nil {
		return err
	}
	for _, c := range [][2]int{{x - 1, z - 1}, {x + 1, z - 1}, {x - 1, z + 1}, {x + 1, z + 1}} {
		if err := Cuboid(ctx, p.e,
			[3]int{c[0], wy + 1, c[1]}, [3]int{c[0], wy + 2, c[1]},
			block("oak_fence")); err != nil {
			return err
		}
	}
	return Cuboid(ctx, p.e,
		[3]int{x - 1, wy + 3, z - 1}, [3]int{x + 1, wy + 3, z + 1},
		block("oak_slab"))
}

func (p *procedural) exterior(ctx context.Context) error {
	// Entrance stairs down to the ground when the deck floats above it.
	if ent, ok := p.lay.Entrance(); ok {
		wx, wz := p.x+ent.X, p.z+ent.Z
		dirX, dirZ := stepAway(ent.Facing)
		gy, _ := p.groundAt(wx+dirX, wz+dirZ)
		for i := 1; p.y-i > gy && i < 12; i++ {
			sx, sz := wx+dirX*i, wz+dirZ*i
			if err := p.e.Place(ctx, [3]int{sx, p.y - i, sz},
				stairs("spruce_stairs", string(opposite(ent.Facing)))); err != nil {
				return err
			}
		}
		// Path onward along the facing direction.
		for i := 1; i <= 6; i++ {
			px, pz := wx+dirX*i, wz+dirZ*i
			py, ok := p.groundAt(px, pz)
			if !ok {
				break
			}
			if err := p.e.Place(ctx, [3]int{px, py - 1, pz}, block("cobblestone")); err != nil {
				return err
			}
		}
	}

	// Landscaping on the offsets the plan earmarked.
	for i, off := range p.adap.Landscaping {
		if i%7 != 0 { // thin the ring out
			continue
		}
		wx, wz := p.x+off.DX, p.z+off.DZ
		gy, ok := p.groundAt(wx, wz)
		if !ok {
			continue
		}
		var b protocol.Block
		if p.r.Float64() < 0.6 {
			b = block(cottageFlowers[p.r.Intn(len(cottageFlowers))])
		} else {
			b = block("grass")
		}
		if err := p.e.Place(ctx, [3]int{wx, gy, wz}, b); err != nil {
			return err
		}
	}

	// Lily pads on incorporated water.
	for i, off := range p.adap.WaterFeatures {
		if i%11 != 0 {
			continue
		}
		wx, wz := p.x+off.DX, p.z+off.DZ
		gy, ok := p.groundAt(wx, wz)
		if !ok {
			continue
		}
		if err := p.e.Place(ctx, [3]int{wx, gy + 1, wz}, block("lily_pad")); err != nil {
			return err
		}
	}
	return nil
}

// stepAway is the unit step leaving the building through a wall with the
// given facing.
func stepAway(f plan.Facing) (dx, dz int) {
	switch f {
	case plan.North:
		return 0, 1
	case plan.South:
		return 0, -1
	case plan.East:
		return -1, 0
	default:
		return 1, 0
	}
}

func opposite(f plan.Facing) plan.Facing {
	switch f {
	case plan.North:
		return plan.South
	case plan.South:
		return plan.North
	case plan.East:
		return plan.West
	default:
		return plan.East
	}
}
