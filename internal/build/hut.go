package build

import (
	"context"
	"fmt"

	"sitecraft.dev/internal/editor"
)

// Hut places a small spruce hut at the center of the build area: stone
// brick foundation, plank shell, pitched stair roof, door and two windows.
func Hut(ctx context.Context, e *editor.Editor) (Result, error) {
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

	const (
		width  = 5
		length = 6
		height = 4
	)
	hw, hl := width/2, length/2

	// Foundation slab one block wider than the shell.
	if err := Cuboid(ctx, e,
		[3]int{x - hw - 1, y - 1, z - hl - 1},
		[3]int{x + hw + 1, y - 1, z + hl + 1},
		block("stone_bricks")); err != nil {
		return Result{}, err
	}

	if err := CuboidHollow(ctx, e,
		[3]int{x - hw, y, z - hl},
		[3]int{x + hw, y + height - 1, z + hl},
		block("spruce_planks")); err != nil {
		return Result{}, err
	}

	if err := Cuboid(ctx, e,
		[3]int{x - hw + 1, y, z - hl + 1},
		[3]int{x + hw - 1, y, z + hl - 1},
		block("oak_planks")); err != nil {
		return Result{}, err
	}

	// Pitched roof: stair rows marching inward from both sides.
	for i := 0; i < hw+2; i++ {
		if err := Cuboid(ctx, e,
			[3]int{x - hw + i, y + height + i, z - hl - 1},
			[3]int{x - hw + i, y + height + i, z + hl + 1},
			stairs("dark_oak_stairs", "east")); err != nil {
			return Result{}, err
		}
		if err := Cuboid(ctx, e,
			[3]int{x + hw - i, y + height + i, z - hl - 1},
			[3]int{x + hw - i, y + height + i, z + hl + 1},
			stairs("dark_oak_stairs", "west")); err != nil {
			return Result{}, err
		}
	}

	if err := placeDoor(ctx, e, x-hw, y, z, "spruce_door", "east"); err != nil {
		return Result{}, err
	}

	for _, wz := range []int{z - 1, z + 1} {
		if err := Cuboid(ctx, e,
			[3]int{x + hw, y + 1, wz},
			[3]int{x + hw, y + 2, wz},
			block("glass_pane")); err != nil {
			return Result{}, err
		}
	}

	if err := e.Flush(ctx); err != nil {
		return Result{}, fmt.Errorf("build: hut: %w", err)
	}
	return Result{X: x, Y: y, Z: z, Width: width, Length: length, Height: height, Style: "hut"}, nil
}
