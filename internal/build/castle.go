package build

import (
	"context"
	"fmt"

	"sitecraft.dev/internal/editor"
)

// Castle raises a fortress at the center of the build area: a 41-wide stone
// platform, a hollow deepslate keep with plank floors, four round corner
// towers with conical roofs, curtain walls and a gatehouse with an iron
// portcullis.
func Castle(ctx context.Context, e *editor.Editor) (Result, error) {
	slice, err := e.LoadSlice(ctx)
	if err != nil {
		return Result{}, err
	}
	ground, err := slice.Ground()
	if err != nil {
		return Result{}, err
	}

	cx := ground.Cols() / 2
	cz := ground.Rows() / 2
	y := ground.At(cx, cz)
	x := slice.WorldX(cx)
	z := slice.WorldZ(cz)

	// Platform.
	if err := Cuboid(ctx, e,
		[3]int{x - 20, y - 2, z - 20},
		[3]int{x + 20, y, z + 20},
		block("stone_bricks")); err != nil {
		return Result{}, err
	}

	// Central keep.
	const keepHeight = 25
	if err := CuboidHollow(ctx, e,
		[3]int{x - 10, y + 1, z - 10},
		[3]int{x + 10, y + keepHeight, z + 10},
		block("deepslate_bricks")); err != nil {
		return Result{}, err
	}
	for floor := 0; floor < 5; floor++ {
		floorY := y + 5*floor + 1
		if err := Cuboid(ctx, e,
			[3]int{x - 9, floorY, z - 9},
			[3]int{x + 9, floorY, z + 9},
			block("dark_oak_planks")); err != nil {
			return Result{}, err
		}
	}

	// Corner towers.
	for _, t := range [][2]int{{x - 18, z - 18}, {x - 18, z + 18}, {x + 18, z - 18}, {x + 18, z + 18}} {
		if err := castleTower(ctx, e, t[0], y, t[1], 30); err != nil {
			return Result{}, err
		}
	}

	// Curtain walls between the towers.
	const wallHeight = 15
	walls := [][2][3]int{
		{{x - 18, y + 1, z - 18}, {x + 18, y + wallHeight, z - 18}},
		{{x - 18, y + 1, z + 18}, {x + 18, y + wallHeight, z + 18}},
		{{x + 18, y + 1, z - 18}, {x + 18, y + wallHeight, z + 18}},
		{{x - 18, y + 1, z - 18}, {x - 18, y + wallHeight, z + 18}},
	}
	for _, w := range walls {
		if err := CuboidHollow(ctx, e, w[0], w[1], block("stone_bricks")); err != nil {
			return Result{}, err
		}
	}

	if err := castleGatehouse(ctx, e, x, y, z-18); err != nil {
		return Result{}, err
	}

	if err := e.Flush(ctx); err != nil {
		return Result{}, fmt.Errorf("build: castle: %w", err)
	}
	return Result{X: x, Y: y, Z: z, Width: 41, Length: 41, Height: keepHeight, Style: "castle"}, nil
}

func castleTower(ctx context.Context, e *editor.Editor, x, y, z, height int) error {
	const radius = 5
	if err := Cylinder(ctx, e, [3]int{x, y + 1, z}, radius, height, block("deepslate_tiles"), true); err != nil {
		return err
	}
	// Conical roof: shrinking discs.
	for i := 0; i < radius+3; i++ {
		r := float64(radius) - float64(i)*0.8
		if err := Cylinder(ctx, e, [3]int{x, y + height + i, z}, r, 1, block("dark_prismarine"), false); err != nil {
			return err
		}
	}
	// Two-high glass windows on each face, one pair per floor.
	for floor := 0; floor < height/5; floor++ {
		wy := y + 3 + floor*5
		for _, w := range [][2]int{{x, z - radius}, {x, z + radius}, {x + radius, z}, {x - radius, z}} {
			if err := e.Place(ctx, [3]int{w[0], wy, w[1]}, block("glass")); err != nil {
				return err
			}
			if err := e.Place(ctx, [3]int{w[0], wy + 1, w[1]}, block("glass")); err != nil {
				return err
			}
		}
	}
	return nil
}

func castleGatehouse(ctx context.Context, e *editor.Editor, x, y, z int) error {
	const (
		width  = 6
		height = 12
		depth  = 8
	)
	if err := CuboidHollow(ctx, e,
		[3]int{x - width, y + 1, z - depth},
		[3]int{x + width, y + height, z + 1},
		block("stone_bricks")); err != nil {
		return err
	}
	// Gateway cut through the structure.
	if err := Cuboid(ctx, e,
		[3]int{x - 2, y + 1, z - depth},
		[3]int{x + 2, y + 6, z + 1},
		Air); err != nil {
		return err
	}
	// Portcullis.
	return Cuboid(ctx, e,
		[3]int{x - 2, y + 1, z - depth + 1},
		[3]int{x + 2, y + 6, z - depth + 1},
		block("iron_bars"))
}
