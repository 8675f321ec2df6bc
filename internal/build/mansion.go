package build

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/palette"
	"sitecraft.dev/internal/plan"
	"sitecraft.dev/internal/protocol"
)

// Mansion builds a large themed house at the center of the build area. The
// footprint is leveled against an adjustment map: pillars rise from low
// ground, high ground is cleared, and the surrounding garden follows the
// same map.
func Mansion(ctx context.Context, e *editor.Editor, mats palette.Materials, theme palette.Theme, r *rand.Rand) (Result, error) {
	slice, err := e.LoadSlice(ctx)
	if err != nil {
		return Result{}, err
	}
	ground, err := slice.Ground()
	if err != nil {
		return Result{}, err
	}

	// Odd dimensions keep the ridge and door centered.
	width := 13 + 2*r.Intn(4)  // 13,15,17,19
	length := 19 + 2*r.Intn(5) // 19..27
	height := 6 + r.Intn(4)    // 6..9
	d := plan.Dims{Width: width, Length: length, Height: height}

	lcx := ground.Cols() / 2
	lcz := ground.Rows() / 2

	// Base elevation: average footprint height, rounded up.
	sum, n := 0, 0
	for dx := -width/2 - 3; dx <= width/2+3; dx++ {
		for dz := -length/2 - 3; dz <= length/2+3; dz++ {
			x, z := lcx+dx, lcz+dz
			if x < 0 || x >= ground.Cols() || z < 0 || z >= ground.Rows() {
				continue
			}
			sum += ground.At(x, z)
			n++
		}
	}
	y := 64
	if n > 0 {
		y = sum/n + 1
	}
	adj := plan.AdjustmentMap(ground, lcx, lcz, d, y)

	m := mansion{
		e: e, r: r, mats: mats,
		x: slice.WorldX(lcx), z: slice.WorldZ(lcz), y: y,
		w: width, l: length, h: height,
		adj: adj,
	}
	steps := []func(context.Context) error{
		m.clearSpace,
		m.foundation,
		m.floor,
		m.walls,
		m.roof,
		m.door,
		m.windows,
		m.interior,
		m.basement,
		m.garden,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return Result{}, fmt.Errorf("build: mansion: %w", err)
		}
	}
	if err := e.Flush(ctx); err != nil {
		return Result{}, fmt.Errorf("build: mansion: %w", err)
	}
	return Result{
		X: m.x, Y: y, Z: m.z,
		Width: width, Length: length, Height: height,
		Style: "mansion", Theme: theme.String(),
	}, nil
}

type mansion struct {
	e    *editor.Editor
	r    *rand.Rand
	mats palette.Materials

	x, y, z int
	w, l, h int
	adj     map[plan.Offset]int
}

func (m *mansion) pick(list []string) protocol.Block   { return palette.Random(m.r, list) }
func (m *mansion) picked(list []string) protocol.Block { return palette.Weighted(m.r, list, 0.7) }

func (m *mansion) clearSpace(ctx context.Context) error {
	if err := Cuboid(ctx, m.e,
		[3]int{m.x - m.w/2 + 1, m.y, m.z - m.l/2 + 1},
		[3]int{m.x + m.w/2 - 1, m.y + m.h - 1, m.z + m.l/2 - 1},
		Air); err != nil {
		return err
	}
	// Roof envelope.
	return Cuboid(ctx, m.e,
		[3]int{m.x - m.w/2 - 1, m.y + m.h, m.z - m.l/2 - 1},
		[3]int{m.x + m.w/2 + 1, m.y + m.h + m.w/2 + 2, m.z + m.l/2 + 1},
		Air)
}

func (m *mansion) foundation(ctx context.Context) error {
	// Pillars up from low ground, with an accent band on tall corners.
	for dx := -m.w/2 - 1; dx <= m.w/2+1; dx++ {
		for dz := -m.l/2 - 1; dz <= m.l/2+1; dz++ {
			delta, ok := m.adj[plan.Offset{DX: dx, DZ: dz}]
			if !ok || delta <= 0 {
				continue
			}
			groundY := m.y - delta
			if err := Cuboid(ctx, m.e,
				[3]int{m.x + dx, groundY, m.z + dz},
				[3]int{m.x + dx, m.y - 1, m.z + dz},
				m.pick(m.mats.Foundation)); err != nil {
				return err
			}
			isCorner := abs(dx) == m.w/2+1 && abs(dz) == m.l/2+1
			if isCorner && m.y-groundY > 3 {
				mid := groundY + (m.y-groundY)/2
				if err := Cuboid(ctx, m.e,
					[3]int{m.x + dx, mid - 1, m.z + dz},
					[3]int{m.x + dx, mid + 1, m.z + dz},
					block(m.mats.Accent[0])); err != nil {
					return err
				}
			}
		}
	}
	// Platform with a mixed-material pattern.
	for dx := -m.w/2 - 1; dx <= m.w/2+1; dx++ {
		for dz := -m.l/2 - 1; dz <= m.l/2+1; dz++ {
			var b protocol.Block
			if (dx+dz)%3 == 0 {
				b = m.pick(m.mats.Foundation)
			} else {
				b = m.picked(m.mats.Foundation)
			}
			if err := m.e.Place(ctx, [3]int{m.x + dx, m.y - 1, m.z + dz}, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mansion) floor(ctx context.Context) error {
	patterns := []string{"checkered", "bordered", "random"}
	pattern := patterns[m.r.Intn(len(patterns))]
	for dx := -m.w/2 + 1; dx < m.w/2; dx++ {
		for dz := -m.l/2 + 1; dz < m.l/2; dz++ {
			var b protocol.Block
			switch pattern {
			case "checkered":
				if (dx+dz)%2 == 0 {
					b = block(m.mats.Floor[0])
				} else {
					b = block(m.mats.Floor[len(m.mats.Floor)-1])
				}
			case "bordered":
				if abs(dx) >= m.w/2-2 || abs(dz) >= m.l/2-2 {
					b = block(m.mats.Floor[0])
				} else {
					b = block(m.mats.Floor[len(m.mats.Floor)-1])
				}
			default:
				if m.r.Float64() < 0.2 {
					b = block(m.mats.Floor[len(m.mats.Floor)-1])
				} else {
					b = block(m.mats.Floor[0])
				}
			}
			if err := m.e.Place(ctx, [3]int{m.x + dx, m.y - 1, m.z + dz}, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mansion) walls(ctx context.Context) error {
	if err := CuboidHollow(ctx, m.e,
		[3]int{m.x - m.w/2, m.y, m.z - m.l/2},
		[3]int{m.x + m.w/2, m.y + m.h - 1, m.z + m.l/2},
		m.picked(m.mats.Walls)); err != nil {
		return err
	}
	// Trim pillars on the corners and a trim band under the roof line.
	for _, dx := range []int{-m.w / 2, m.w / 2} {
		for _, dz := range []int{-m.l / 2, m.l / 2} {
			if err := Cuboid(ctx, m.e,
				[3]int{m.x + dx, m.y, m.z + dz},
				[3]int{m.x + dx, m.y + m.h - 1, m.z + dz},
				blockWithStates(m.mats.Trim[0], map[string]string{"axis": "y"})); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mansion) roof(ctx context.Context) error {
	const eaves = 1
	// Eaves ring at wall top.
	for dx := -m.w/2 - eaves; dx <= m.w/2+eaves; dx++ {
		for dz := -m.l/2 - eaves; dz <= m.l/2+eaves; dz++ {
			if dx > -m.w/2 && dx < m.w/2 && dz > -m.l/2 && dz < m.l/2 {
				continue
			}
			if err := m.e.Place(ctx, [3]int{m.x + dx, m.y + m.h - 1, m.z + dz},
				blockWithStates(m.mats.Trim[0], map[string]string{"axis": "y"})); err != nil {
				return err
			}
		}
	}

	maxRise := m.w/2 + 2
	fill := m.mats.Roof[len(m.mats.Roof)-1]
	for i := 0; i <= maxRise; i++ {
		curY := m.y + m.h - 1 + i
		for dz := -m.l/2 - eaves; dz <= m.l/2+eaves; dz++ {
			if i == maxRise {
				if err := m.e.Place(ctx, [3]int{m.x, curY, m.z + dz}, m.pick(m.mats.Accent)); err != nil {
					return err
				}
				continue
			}
			west := -m.w/2 + i - eaves
			east := m.w/2 - i + eaves
			if err := m.e.Place(ctx, [3]int{m.x + west, curY, m.z + dz}, stairs(m.mats.Roof[0], "east")); err != nil {
				return err
			}
			if err := m.e.Place(ctx, [3]int{m.x + east, curY, m.z + dz}, stairs(m.mats.Roof[0], "west")); err != nil {
				return err
			}
			if i > 0 {
				for fx := west + 1; fx < east; fx++ {
					if err := m.e.Place(ctx, [3]int{m.x + fx, curY, m.z + dz}, block(fill)); err != nil {
						return err
					}
				}
			}
		}
	}

	// Gable faces front and back: trim frame, wall fill.
	for _, dz := range []int{-m.l/2 - eaves, m.l/2 + eaves} {
		for i := 0; i < maxRise; i++ {
			curY := m.y + m.h - 1 + i
			for dx := -m.w/2 - eaves + i; dx <= m.w/2+eaves-i; dx++ {
				var b protocol.Block
				if i == 0 || i == maxRise-1 || dx == -m.w/2-eaves+i || dx == m.w/2+eaves-i {
					b = m.pick(m.mats.Trim)
				} else {
					b = m.pick(m.mats.Walls)
				}
				if err := m.e.Place(ctx, [3]int{m.x + dx, curY, m.z + dz}, b); err != nil {
					return err
				}
			}
		}
	}

	// Chimney.
	chX := m.x + m.w/2 - 2
	chZ := m.z + m.l/3
	chH := maxRise + 2
	for h := 0; h < chH; h++ {
		if err := m.e.Place(ctx, [3]int{chX, m.y + m.h + h, chZ}, m.pick(m.mats.Accent)); err != nil {
			return err
		}
	}
	if err := m.e.Place(ctx, [3]int{chX, m.y + m.h + chH, chZ},
		blockWithStates("campfire", map[string]string{"lit": "true"})); err != nil {
		return err
	}
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			if dx == 0 && dz == 0 {
				continue
			}
			if err := m.e.Place(ctx, [3]int{chX + dx, m.y + m.h + chH - 1, chZ + dz},
				block("cobblestone_wall")); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mansion) door(ctx context.Context) error {
	doorX := m.x - m.w/2
	doorZ := m.z
	if err := placeDoor(ctx, m.e, doorX, m.y, doorZ, "spruce_door", "east"); err != nil {
		return err
	}
	trim := m.mats.Trim[len(m.mats.Trim)-1]
	for dy := 0; dy < 3; dy++ {
		if err := m.e.Place(ctx, [3]int{doorX, m.y + dy, doorZ - 1}, block(trim)); err != nil {
			return err
		}
		if err := m.e.Place(ctx, [3]int{doorX, m.y + dy, doorZ + 1}, block(trim)); err != nil {
			return err
		}
	}
	if err := m.e.Place(ctx, [3]int{doorX, m.y + 2, doorZ},
		blockWithStates(trim, map[string]string{"axis": "z"})); err != nil {
		return err
	}

	// Porch in front of the door.
	const (
		porchW = 5
		porchD = 3
	)
	for dx := 1; dx <= porchD; dx++ {
		for dz := -porchW / 2; dz <= porchW/2; dz++ {
			if err := m.e.Place(ctx, [3]int{doorX - dx, m.y - 1, doorZ + dz}, m.pick(m.mats.Floor)); err != nil {
				return err
			}
			if err := m.e.Place(ctx, [3]int{doorX - dx, m.y + 3, doorZ + dz}, m.pick(m.mats.Floor)); err != nil {
				return err
			}
		}
	}
	for dz := -porchW / 2; dz <= porchW/2; dz++ {
		if dz == 0 {
			continue
		}
		if err := m.e.Place(ctx, [3]int{doorX - porchD, m.y, doorZ + dz}, block("spruce_fence")); err != nil {
			return err
		}
	}
	for _, dz := range []int{-porchW / 2, porchW / 2} {
		if err := Cuboid(ctx, m.e,
			[3]int{doorX - porchD, m.y, doorZ + dz},
			[3]int{doorX - porchD, m.y + 2, doorZ + dz},
			block(m.mats.Trim[0])); err != nil {
			return err
		}
		if err := m.e.Place(ctx, [3]int{doorX - porchD, m.y + 2, doorZ + dz}, block("lantern")); err != nil {
			return err
		}
	}
	return m.e.Place(ctx, [3]int{doorX - 1, m.y - 1, doorZ}, block("brown_carpet"))
}

func (m *mansion) windows(ctx context.Context) error {
	glass := m.mats.Windows[0]
	// Long walls, skipping the door bay on the west side.
	for dz := -m.l/2 + 3; dz <= m.l/2-3; dz += 4 {
		for _, dx := range []int{-m.w / 2, m.w / 2} {
			if dx == -m.w/2 && dz >= -1 && dz <= 1 {
				continue
			}
			if err := Cuboid(ctx, m.e,
				[3]int{m.x + dx, m.y + 1, m.z + dz},
				[3]int{m.x + dx, m.y + 2, m.z + dz + 1},
				block(glass)); err != nil {
				return err
			}
		}
	}
	// Short walls.
	for dx := -m.w/2 + 3; dx <= m.w/2-3; dx += 4 {
		for _, dz := range []int{-m.l / 2, m.l / 2} {
			if err := Cuboid(ctx, m.e,
				[3]int{m.x + dx, m.y + 1, m.z + dz},
				[3]int{m.x + dx + 1, m.y + 2, m.z + dz},
				block(glass)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mansion) interior(ctx context.Context) error {
	put := func(x, y, z int, b protocol.Block) error {
		return m.e.Place(ctx, [3]int{x, y, z}, b)
	}
	// Bedroom corner.
	if err := put(m.x+m.w/2-2, m.y, m.z+m.l/2-3,
		blockWithStates("red_bed", map[string]string{"facing": "west", "part": "foot"})); err != nil {
		return err
	}
	if err := put(m.x+m.w/2-3, m.y, m.z+m.l/2-3,
		blockWithStates("red_bed", map[string]string{"facing": "west", "part": "head"})); err != nil {
		return err
	}
	// Library wall.
	for dz := -2; dz <= 2; dz++ {
		if err := Cuboid(ctx, m.e,
			[3]int{m.x + m.w/2 - 1, m.y, m.z + dz},
			[3]int{m.x + m.w/2 - 1, m.y + 2, m.z + dz},
			block("bookshelf")); err != nil {
			return err
		}
	}
	// Kitchen corner.
	if err := put(m.x-m.w/2+2, m.y, m.z-m.l/2+2, block("crafting_table")); err != nil {
		return err
	}
	if err := put(m.x-m.w/2+3, m.y, m.z-m.l/2+2,
		blockWithStates("furnace", map[string]string{"facing": "south"})); err != nil {
		return err
	}
	if err := put(m.x-m.w/2+4, m.y, m.z-m.l/2+2, block("smoker")); err != nil {
		return err
	}
	// Hanging lanterns down the hall.
	for dz := -m.l/2 + 3; dz <= m.l/2-3; dz += 4 {
		if err := put(m.x, m.y+m.h-2, m.z+dz,
			blockWithStates("lantern", map[string]string{"hanging": "true"})); err != nil {
			return err
		}
	}
	return nil
}

func (m *mansion) basement(ctx context.Context) error {
	const depth = 4
	if err := Cuboid(ctx, m.e,
		[3]int{m.x - m.w/2 + 2, m.y - depth, m.z - m.l/2 + 2},
		[3]int{m.x + m.w/2 - 2, m.y - 2, m.z + m.l/2 - 2},
		Air); err != nil {
		return err
	}
	// Perimeter walls.
	for dx := -m.w/2 + 1; dx < m.w/2; dx++ {
		for dz := -m.l/2 + 1; dz < m.l/2; dz++ {
			if dx != -m.w/2+1 && dx != m.w/2-1 && dz != -m.l/2+1 && dz != m.l/2-1 {
				continue
			}
			for dy := -depth + 1; dy < -1; dy++ {
				if err := m.e.Place(ctx, [3]int{m.x + dx, m.y + dy, m.z + dz}, m.pick(m.mats.Foundation)); err != nil {
					return err
				}
			}
		}
	}
	// Floor.
	for dx := -m.w/2 + 2; dx < m.w/2-1; dx++ {
		for dz := -m.l/2 + 2; dz < m.l/2-1; dz++ {
			if err := m.e.Place(ctx, [3]int{m.x + dx, m.y - depth, m.z + dz}, m.pick(m.mats.Floor)); err != nil {
				return err
			}
		}
	}
	// Stairs down.
	for i := 1; i < depth; i++ {
		if err := m.e.Place(ctx, [3]int{m.x - i, m.y - i, m.z - m.l/4}, stairs("spruce_stairs", "east")); err != nil {
			return err
		}
	}
	// Storage rows and lighting.
	for dz := -m.l/2 + 3; dz < m.l/2-2; dz += 3 {
		if err := m.e.Place(ctx, [3]int{m.x - m.w/2 + 2, m.y - depth + 1, m.z + dz},
			blockWithStates("chest", map[string]string{"facing": "east"})); err != nil {
			return err
		}
		if err := m.e.Place(ctx, [3]int{m.x + m.w/2 - 2, m.y - depth + 1, m.z + dz}, block("barrel")); err != nil {
			return err
		}
	}
	for dx := -m.w/2 + 4; dx < m.w/2-3; dx += 3 {
		for dz := -m.l/2 + 4; dz < m.l/2-3; dz += 3 {
			if err := m.e.Place(ctx, [3]int{m.x + dx, m.y - 2, m.z + dz},
				blockWithStates("lantern", map[string]string{"hanging": "true"})); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mansion) garden(ctx context.Context) error {
	radius := maxOf(m.w, m.l) + 5

	// Curved path away from the front door.
	doorX := m.x - m.w/2
	pathLen := radius / 2
	pathBlocks := []string{"gravel", "cobblestone", "stone"}
	for i := 0; i < pathLen; i++ {
		curve := math.Sin(float64(i)/float64(pathLen)*math.Pi) * 2
		px := doorX - i - 1
		for j := -2; j <= 2; j++ {
			pz := m.z + int(curve*float64(j)/2)
			dx, dz := px-m.x, pz-m.z
			if _, ok := m.adj[plan.Offset{DX: dx, DZ: dz}]; !ok {
				continue
			}
			if err := m.e.Place(ctx, [3]int{px, m.y - 1, pz},
				block(pathBlocks[m.r.Intn(len(pathBlocks))])); err != nil {
				return err
			}
		}
	}

	// Ring of grass, flowers and scattered features.
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx >= -m.w/2-1 && dx <= m.w/2+1 && dz >= -m.l/2-1 && dz <= m.l/2+1 {
				continue
			}
			dist := maxOf(abs(dx)-m.w/2, abs(dz)-m.l/2)
			delta, ok := m.adj[plan.Offset{DX: dx, DZ: dz}]
			if dist > 10 || !ok || delta > 0 {
				continue
			}
			x, z := m.x+dx, m.z+dz
			if err := m.e.Place(ctx, [3]int{x, m.y - 1, z}, block("grass_block")); err != nil {
				return err
			}
			switch chance := m.r.Float64(); {
			case chance < 0.03:
				if err := m.e.Place(ctx, [3]int{x, m.y, z},
					block(cottageFlowers[m.r.Intn(len(cottageFlowers))])); err != nil {
					return err
				}
			case chance < 0.05:
				if err := m.e.Place(ctx, [3]int{x, m.y, z}, block("oak_leaves")); err != nil {
					return err
				}
			case chance < 0.06 && dist > 3:
				if err := gardenTree(ctx, m.e, m.r, x, m.y, z); err != nil {
					return err
				}
			case chance < 0.07:
				deco := []string{"composter", "beehive", "barrel", "lantern"}
				if err := m.e.Place(ctx, [3]int{x, m.y, z}, block(deco[m.r.Intn(len(deco))])); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func gardenTree(ctx context.Context, p Placer, r *rand.Rand, x, y, z int) error {
	h := 4 + r.Intn(3)
	for ty := 0; ty < h; ty++ {
		if err := p.Place(ctx, [3]int{x, y + ty, z}, block("oak_log")); err != nil {
			return err
		}
	}
	for cx := -2; cx <= 2; cx++ {
		for cz := -2; cz <= 2; cz++ {
			if abs(cx) == 2 && abs(cz) == 2 {
				continue
			}
			for cy := 0; cy < 2; cy++ {
				if err := p.Place(ctx, [3]int{x + cx, y + h - 1 + cy, z + cz}, block("oak_leaves")); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
