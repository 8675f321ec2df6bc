package build

import (
	"context"
	"fmt"
	"math/rand"

	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/protocol"
	"sitecraft.dev/internal/terrain"
)

// CottageOptions tunes the cottage site search.
type CottageOptions struct {
	// SiteSize is the square window edge for the flattest-window search.
	// Defaults to 10.
	SiteSize int
	// Band optionally restricts the site to a mean-elevation range.
	Band *terrain.HeightBand
}

var cottageFlowers = []string{
	"poppy", "dandelion", "blue_orchid", "allium", "azure_bluet",
	"red_tulip", "orange_tulip", "white_tulip", "pink_tulip", "oxeye_daisy",
}

// Cottage finds the flattest dry patch in the build area and raises a stone
// cottage on it: foundation down to ground, checkered floor, log corner
// pillars, gabled stair roof, chimney, interior furnishing and a fenced
// garden with an entrance path.
func Cottage(ctx context.Context, e *editor.Editor, r *rand.Rand, opts CottageOptions) (Result, error) {
	size := opts.SiteSize
	if size <= 0 {
		size = 10
	}

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

	res, err := terrain.FlattestWindow(ground, water, size, terrain.SearchOptions{Band: opts.Band})
	if err != nil {
		return Result{}, fmt.Errorf("build: cottage site: %w", err)
	}

	sx := slice.WorldX(res.Window.X)
	sz := slice.WorldZ(res.Window.Z)
	y := ground.At(res.Window.X, res.Window.Z)

	width := 6 + r.Intn(9)   // 6..14
	length := 16 + r.Intn(9) // 16..24
	height := 5 + r.Intn(3)  // 5..7

	groundAt := func(wx, wz int) (int, bool) {
		lx := wx - slice.Rect().X
		lz := wz - slice.Rect().Z
		if lx < 0 || lx >= ground.Cols() || lz < 0 || lz >= ground.Rows() {
			return 0, false
		}
		return ground.At(lx, lz), true
	}

	c := cottage{e: e, r: r, sx: sx, sz: sz, y: y, w: width, l: length, h: height, groundAt: groundAt}
	steps := []func(context.Context) error{
		c.clearSpace,
		c.foundation,
		c.floor,
		c.walls,
		c.roof,
		c.details,
		c.interior,
		c.fence,
		c.path,
		c.landscaping,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return Result{}, fmt.Errorf("build: cottage: %w", err)
		}
	}
	if err := e.Flush(ctx); err != nil {
		return Result{}, fmt.Errorf("build: cottage: %w", err)
	}
	return Result{X: sx, Y: y, Z: sz, Width: width, Length: length, Height: height, Style: "cottage"}, nil
}

// cottage carries the anchor (top-left corner, world coordinates) through
// the build steps.
type cottage struct {
	e        *editor.Editor
	r        *rand.Rand
	sx, sz   int
	y        int
	w, l, h  int
	groundAt func(wx, wz int) (int, bool)

	fenceFrontZ int
}

func (c *cottage) clearSpace(ctx context.Context) error {
	if err := Cuboid(ctx, c.e,
		[3]int{c.sx + 1, c.y, c.sz + 1},
		[3]int{c.sx + c.w - 1, c.y + c.h - 1, c.sz + c.l - 1},
		Air); err != nil {
		return err
	}
	for i := 0; i <= c.w/2; i++ {
		if err := Cuboid(ctx, c.e,
			[3]int{c.sx + i, c.y + c.h - 1, c.sz + 1},
			[3]int{c.sx + c.w - i, c.y + c.h + i - 1, c.sz + c.l - 1},
			Air); err != nil {
			return err
		}
	}
	return nil
}

func (c *cottage) foundation(ctx context.Context) error {
	// Support columns wherever the ground sits below floor level.
	for dx := 0; dx < c.w+2; dx++ {
		for dz := 0; dz < c.l+2; dz++ {
			wx, wz := c.sx+dx, c.sz+dz
			h, ok := c.groundAt(wx, wz)
			if !ok || h >= c.y-1 {
				continue
			}
			if err := Cuboid(ctx, c.e,
				[3]int{wx, h, wz},
				[3]int{wx, c.y - 1, wz},
				block("cobblestone")); err != nil {
				return err
			}
		}
	}
	return Cuboid(ctx, c.e,
		[3]int{c.sx - 1, c.y - 2, c.sz - 1},
		[3]int{c.sx + c.w + 1, c.y - 2, c.sz + c.l + 1},
		block("cobblestone"))
}

func (c *cottage) floor(ctx context.Context) error {
	for dx := 0; dx < c.w; dx++ {
		for dz := 0; dz < c.l; dz++ {
			id := "oak_planks"
			if (dx+dz)%2 == 0 {
				id = "dark_oak_planks"
			}
			if err := c.e.Place(ctx, [3]int{c.sx + dx, c.y - 1, c.sz + dz}, block(id)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *cottage) walls(ctx context.Context) error {
	for x := c.sx; x <= c.sx+c.w; x++ {
		for _, z := range []int{c.sz, c.sz + c.l} {
			if err := Cuboid(ctx, c.e,
				[3]int{x, c.y - 1, z},
				[3]int{x, c.y + c.h - 1, z},
				block("stone")); err != nil {
				return err
			}
		}
	}
	for z := c.sz; z <= c.sz+c.l; z++ {
		for _, x := range []int{c.sx, c.sx + c.w} {
			if err := Cuboid(ctx, c.e,
				[3]int{x, c.y - 1, z},
				[3]int{x, c.y + c.h - 1, z},
				block("stone")); err != nil {
				return err
			}
		}
	}
	// Log pillars on the four corners.
	pillar := block("spruce_log")
	pillar.States = map[string]string{"axis": "y"}
	for _, x := range []int{c.sx, c.sx + c.w} {
		for _, z := range []int{c.sz, c.sz + c.l} {
			if err := Cuboid(ctx, c.e,
				[3]int{x, c.y - 1, z},
				[3]int{x, c.y + c.h - 1, z},
				pillar); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *cottage) roof(ctx context.Context) error {
	// Gables on the short walls.
	for i := 0; i <= c.w/2; i++ {
		for _, z := range []int{c.sz, c.sz + c.l} {
			if err := Cuboid(ctx, c.e,
				[3]int{c.sx + i, c.y + c.h - 1 + i, z},
				[3]int{c.sx + c.w - i, c.y + c.h - 1 + i, z},
				block("spruce_planks")); err != nil {
				return err
			}
		}
	}
	// Slopes and the ridge beam, overhanging one block front and back.
	for i := 0; i < c.w/2+2; i++ {
		if i == c.w/2+1 {
			if err := Cuboid(ctx, c.e,
				[3]int{c.sx + c.w/2, c.y + c.h + i - 1, c.sz - 1},
				[3]int{c.sx + c.w/2, c.y + c.h + i - 1, c.sz + c.l + 1},
				block("dark_oak_planks")); err != nil {
				return err
			}
			continue
		}
		if err := Cuboid(ctx, c.e,
			[3]int{c.sx + i, c.y + c.h + i, c.sz - 1},
			[3]int{c.sx + i, c.y + c.h + i, c.sz + c.l + 1},
			stairs("dark_oak_stairs", "east")); err != nil {
			return err
		}
		if err := Cuboid(ctx, c.e,
			[3]int{c.sx + c.w - i, c.y + c.h + i, c.sz - 1},
			[3]int{c.sx + c.w - i, c.y + c.h + i, c.sz + c.l + 1},
			stairs("dark_oak_stairs", "west")); err != nil {
			return err
		}
	}
	return nil
}

func (c *cottage) details(ctx context.Context) error {
	doorX, doorZ := c.sx, c.sz+c.l/2
	if err := placeDoor(ctx, c.e, doorX, c.y, doorZ, "spruce_door", "west"); err != nil {
		return err
	}

	type window struct{ x, z int }
	var windows []window
	for dz := 2; dz < c.l-1; dz += 3 {
		windows = append(windows,
			window{c.sx, c.sz + dz},
			window{c.sx + c.w, c.sz + dz})
	}
	for dx := 2; dx < c.w-1; dx += 3 {
		windows = append(windows,
			window{c.sx + dx, c.sz},
			window{c.sx + dx, c.sz + c.l})
	}
	for _, w := range windows {
		if w.x == doorX && w.z == doorZ {
			continue
		}
		if err := Cuboid(ctx, c.e,
			[3]int{w.x, c.y + 1, w.z},
			[3]int{w.x, c.y + 2, w.z},
			block("glass_pane")); err != nil {
			return err
		}
		facing := "north"
		switch {
		case w.z == c.sz:
			facing = "south"
		case w.z == c.sz+c.l:
			facing = "north"
		case w.x == c.sx:
			facing = "east"
		case w.x == c.sx+c.w:
			facing = "west"
		}
		if err := c.e.Place(ctx, [3]int{w.x, c.y, w.z},
			blockWithStates("spruce_trapdoor", map[string]string{"facing": facing, "half": "top"})); err != nil {
			return err
		}
	}

	// Chimney with a lit campfire on top.
	chX, chZ := c.sx+c.w-2, c.sz+c.l-2
	if err := Cuboid(ctx, c.e,
		[3]int{chX, c.y - 1, chZ},
		[3]int{chX, c.y + c.h + 3, chZ},
		block("bricks")); err != nil {
		return err
	}
	if err := c.e.Place(ctx, [3]int{chX, c.y + c.h + 3, chZ},
		blockWithStates("campfire", map[string]string{"lit": "true"})); err != nil {
		return err
	}

	// Rain barrel under a hopper gutter.
	bx, bz := c.sx+c.w-1, c.sz+c.l/4
	if err := c.e.Place(ctx, [3]int{bx, c.y, bz}, block("barrel")); err != nil {
		return err
	}
	return c.e.Place(ctx, [3]int{bx, c.y + c.h - 1, bz},
		blockWithStates("hopper", map[string]string{"facing": "down"}))
}

func (c *cottage) interior(ctx context.Context) error {
	put := func(x, y, z int, b protocol.Block) error {
		return c.e.Place(ctx, [3]int{x, y, z}, b)
	}

	// Potted plants on fence posts.
	if err := put(c.sx+c.w/2, c.y, c.sz+2, block("oak_fence")); err != nil {
		return err
	}
	if err := put(c.sx+c.w/2, c.y+1, c.sz+2, block("potted_fern")); err != nil {
		return err
	}
	if err := put(c.sx+c.w/2, c.y, c.sz+c.l-2, block("oak_fence")); err != nil {
		return err
	}
	if err := put(c.sx+c.w/2, c.y+1, c.sz+c.l-2, block("potted_bamboo")); err != nil {
		return err
	}

	// Bed.
	if err := put(c.sx+c.w-2, c.y, c.sz+c.l-3,
		blockWithStates("red_bed", map[string]string{"facing": "west", "part": "foot"})); err != nil {
		return err
	}
	if err := put(c.sx+c.w-3, c.y, c.sz+c.l-3,
		blockWithStates("red_bed", map[string]string{"facing": "west", "part": "head"})); err != nil {
		return err
	}

	// Storage and crafting corner.
	for _, dx := range []int{2, 3} {
		if err := put(c.sx+c.w-dx, c.y, c.sz+c.l-4,
			blockWithStates("chest", map[string]string{"facing": "south"})); err != nil {
			return err
		}
	}
	if err := put(c.sx+2, c.y, c.sz+2, block("crafting_table")); err != nil {
		return err
	}
	if err := put(c.sx+3, c.y, c.sz+2,
		blockWithStates("furnace", map[string]string{"facing": "south"})); err != nil {
		return err
	}
	extra := "bookshelf"
	if c.r.Float64() < 0.5 {
		extra = "brewing_stand"
	}
	if err := put(c.sx+2, c.y, c.sz+3, block(extra)); err != nil {
		return err
	}

	// Dining table and chairs.
	tx, tz := c.sx+c.w/2, c.sz+c.l/2
	if err := put(tx, c.y, tz, block("oak_fence")); err != nil {
		return err
	}
	if err := put(tx, c.y+1, tz, block("oak_pressure_plate")); err != nil {
		return err
	}
	if err := put(tx-1, c.y, tz, stairs("oak_stairs", "east")); err != nil {
		return err
	}
	if err := put(tx+1, c.y, tz, stairs("oak_stairs", "west")); err != nil {
		return err
	}

	// Hanging lanterns.
	for _, xOff := range []int{c.w / 4, c.w * 3 / 4} {
		for _, zOff := range []int{c.l / 4, c.l * 3 / 4} {
			if err := put(c.sx+xOff, c.y+c.h-2, c.sz+zOff,
				blockWithStates("lantern", map[string]string{"hanging": "true"})); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *cottage) fence(ctx context.Context) error {
	const margin = 4
	x1 := c.sx - margin
	z1 := c.sz - margin
	x2 := c.sx + c.w + margin
	z2 := c.sz + c.l + margin
	c.fenceFrontZ = z1

	post := func(wx, wz int, corner bool) error {
		fy, ok := c.groundAt(wx, wz)
		if !ok {
			return nil
		}
		// Backfill any air below the post so it stands on solid ground.
		for y := fy - 3; y < fy; y++ {
			got, err := c.e.GetBlock(ctx, [3]int{wx, y, wz})
			if err != nil {
				return err
			}
			if got.ID == "air" || got.ID == "" {
				if err := c.e.Place(ctx, [3]int{wx, y, wz}, block("dirt")); err != nil {
					return err
				}
			}
		}
		if err := c.e.Place(ctx, [3]int{wx, fy, wz}, block("spruce_fence")); err != nil {
			return err
		}
		if corner {
			return c.e.Place(ctx, [3]int{wx, fy + 1, wz}, block("lantern"))
		}
		return nil
	}

	for x := x1; x <= x2; x++ {
		if err := post(x, z1, x == x1 || x == x2); err != nil {
			return err
		}
		if err := post(x, z2, x == x1 || x == x2); err != nil {
			return err
		}
	}
	for z := z1 + 1; z < z2; z++ {
		if err := post(x1, z, false); err != nil {
			return err
		}
		if err := post(x2, z, false); err != nil {
			return err
		}
	}

	// Gates centered front and back.
	gateX := c.sx + c.w/2
	for _, g := range []struct {
		z      int
		facing string
	}{{z1, "south"}, {z2, "north"}} {
		if gy, ok := c.groundAt(gateX, g.z); ok {
			if err := c.e.Place(ctx, [3]int{gateX, gy, g.z},
				blockWithStates("spruce_fence_gate", map[string]string{"facing": g.facing})); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *cottage) path(ctx context.Context) error {
	pathX := c.sx + c.w/2
	for z := c.fenceFrontZ; z < c.sz; z++ {
		py, ok := c.groundAt(pathX, z)
		if !ok {
			continue
		}
		if err := c.e.Place(ctx, [3]int{pathX, py, z}, block("cobblestone")); err != nil {
			return err
		}
		if err := c.e.Place(ctx, [3]int{pathX - 1, py, z}, block("cobblestone")); err != nil {
			return err
		}
	}
	return nil
}

// landscaping scatters flowers and grass inside the fence line, clear of
// the house footprint.
func (c *cottage) landscaping(ctx context.Context) error {
	for i := 0; i < 40; i++ {
		dx := c.r.Intn(c.w+7) - 3
		dz := c.r.Intn(c.l+7) - 3
		if dx >= 0 && dx <= c.w && dz >= 0 && dz <= c.l {
			continue
		}
		wx, wz := c.sx+dx, c.sz+dz
		fy, ok := c.groundAt(wx, wz)
		if !ok {
			continue
		}
		flower := cottageFlowers[c.r.Intn(len(cottageFlowers))]
		if err := c.e.Place(ctx, [3]int{wx, fy, wz}, block(flower)); err != nil {
			return err
		}
	}
	for i := 0; i < 60; i++ {
		dx := c.r.Intn(c.w+7) - 3
		dz := c.r.Intn(c.l+7) - 3
		if dx >= 0 && dx <= c.w && dz >= 0 && dz <= c.l {
			continue
		}
		wx, wz := c.sx+dx, c.sz+dz
		gy, ok := c.groundAt(wx, wz)
		if !ok {
			continue
		}
		if c.r.Float64() < 0.7 {
			if err := c.e.Place(ctx, [3]int{wx, gy, wz}, block("grass")); err != nil {
				return err
			}
		} else {
			if err := c.e.Place(ctx, [3]int{wx, gy, wz},
				blockWithStates("tall_grass", map[string]string{"half": "lower"})); err != nil {
				return err
			}
			if err := c.e.Place(ctx, [3]int{wx, gy + 1, wz},
				blockWithStates("tall_grass", map[string]string{"half": "upper"})); err != nil {
				return err
			}
		}
	}
	return nil
}
