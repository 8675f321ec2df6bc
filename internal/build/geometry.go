// Package build places structures through an editor session: a small
// geometry kit (cuboids, cylinders) plus one builder per structure kind.
// All geometry corners are inclusive on both ends.
package build

import (
	"context"

	"sitecraft.dev/internal/protocol"
)

// Placer is the placement capability the geometry helpers draw through.
// *editor.Editor satisfies it; tests substitute an in-memory recorder.
type Placer interface {
	Place(ctx context.Context, pos [3]int, b protocol.Block) error
}

// Air clears a cell.
var Air = protocol.Block{ID: "air"}

// Cuboid fills the box spanned by from and to, inclusive.
func Cuboid(ctx context.Context, p Placer, from, to [3]int, b protocol.Block) error {
	x1, x2 := order(from[0], to[0])
	y1, y2 := order(from[1], to[1])
	z1, z2 := order(from[2], to[2])
	for y := y1; y <= y2; y++ {
		for z := z1; z <= z2; z++ {
			for x := x1; x <= x2; x++ {
				if err := p.Place(ctx, [3]int{x, y, z}, b); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CuboidHollow places only the shell of the box: every cell with at least
// one coordinate on a face.
func CuboidHollow(ctx context.Context, p Placer, from, to [3]int, b protocol.Block) error {
	x1, x2 := order(from[0], to[0])
	y1, y2 := order(from[1], to[1])
	z1, z2 := order(from[2], to[2])
	for y := y1; y <= y2; y++ {
		for z := z1; z <= z2; z++ {
			for x := x1; x <= x2; x++ {
				if x != x1 && x != x2 && y != y1 && y != y2 && z != z1 && z != z2 {
					continue
				}
				if err := p.Place(ctx, [3]int{x, y, z}, b); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Cylinder fills a vertical cylinder of the given radius starting at base
// and rising height blocks. With tube set only the outer ring is placed.
func Cylinder(ctx context.Context, p Placer, base [3]int, radius float64, height int, b protocol.Block, tube bool) error {
	if radius < 0.5 {
		radius = 0.5
	}
	r := int(radius)
	outer := radius*radius + 0.5
	inner := (radius - 1) * (radius - 1)
	for dy := 0; dy < height; dy++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				d2 := float64(dx*dx + dz*dz)
				if d2 > outer {
					continue
				}
				if tube && d2 < inner {
					continue
				}
				pos := [3]int{base[0] + dx, base[1] + dy, base[2] + dz}
				if err := p.Place(ctx, pos, b); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
