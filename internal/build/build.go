package build

import (
	"context"

	"sitecraft.dev/internal/protocol"
)

// Result summarizes a finished structure for logging and the journal.
type Result struct {
	X, Y, Z int // world coordinates of the structure anchor
	Width   int
	Length  int
	Height  int
	Style   string
	Theme   string
}

func block(id string) protocol.Block {
	return protocol.Block{ID: id}
}

func stairs(id, facing string) protocol.Block {
	return protocol.Block{ID: id, States: map[string]string{"facing": facing}}
}

func blockWithStates(id string, states map[string]string) protocol.Block {
	return protocol.Block{ID: id, States: states}
}

// placeDoor places the two halves of a door.
func placeDoor(ctx context.Context, p Placer, x, y, z int, id, facing string) error {
	lower := protocol.Block{ID: id, States: map[string]string{"facing": facing, "half": "lower"}}
	upper := protocol.Block{ID: id, States: map[string]string{"facing": facing, "half": "upper"}}
	if err := p.Place(ctx, [3]int{x, y, z}, lower); err != nil {
		return err
	}
	return p.Place(ctx, [3]int{x, y + 1, z}, upper)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
