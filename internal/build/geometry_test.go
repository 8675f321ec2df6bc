package build

import (
	"context"
	"testing"

	"sitecraft.dev/internal/protocol"
)

// recorder is an in-memory Placer for geometry tests.
type recorder struct {
	blocks map[[3]int]protocol.Block
}

func newRecorder() *recorder {
	return &recorder{blocks: make(map[[3]int]protocol.Block)}
}

func (r *recorder) Place(_ context.Context, pos [3]int, b protocol.Block) error {
	r.blocks[pos] = b
	return nil
}

func TestCuboid_InclusiveCorners(t *testing.T) {
	rec := newRecorder()
	if err := Cuboid(context.Background(), rec, [3]int{0, 0, 0}, [3]int{1, 2, 3}, block("stone")); err != nil {
		t.Fatalf("cuboid: %v", err)
	}
	if len(rec.blocks) != 2*3*4 {
		t.Fatalf("expected 24 cells, got %d", len(rec.blocks))
	}
	for _, corner := range [][3]int{{0, 0, 0}, {1, 2, 3}} {
		if _, ok := rec.blocks[corner]; !ok {
			t.Fatalf("corner %v missing", corner)
		}
	}
}

func TestCuboid_ReversedCorners(t *testing.T) {
	a := newRecorder()
	b := newRecorder()
	ctx := context.Background()
	if err := Cuboid(ctx, a, [3]int{0, 0, 0}, [3]int{2, 2, 2}, block("stone")); err != nil {
		t.Fatalf("cuboid: %v", err)
	}
	if err := Cuboid(ctx, b, [3]int{2, 2, 2}, [3]int{0, 0, 0}, block("stone")); err != nil {
		t.Fatalf("cuboid: %v", err)
	}
	if len(a.blocks) != len(b.blocks) {
		t.Fatalf("corner order changed the box: %d vs %d", len(a.blocks), len(b.blocks))
	}
}

func TestCuboidHollow_ShellOnly(t *testing.T) {
	rec := newRecorder()
	if err := CuboidHollow(context.Background(), rec, [3]int{0, 0, 0}, [3]int{3, 3, 3}, block("stone")); err != nil {
		t.Fatalf("hollow cuboid: %v", err)
	}
	// 4^3 minus the 2^3 interior.
	if len(rec.blocks) != 64-8 {
		t.Fatalf("expected 56 shell cells, got %d", len(rec.blocks))
	}
	if _, ok := rec.blocks[[3]int{1, 1, 1}]; ok {
		t.Fatalf("interior cell was placed")
	}
}

func TestCylinder_TubeLeavesInterior(t *testing.T) {
	solid := newRecorder()
	tube := newRecorder()
	ctx := context.Background()
	if err := Cylinder(ctx, solid, [3]int{0, 10, 0}, 5, 1, block("stone"), false); err != nil {
		t.Fatalf("cylinder: %v", err)
	}
	if err := Cylinder(ctx, tube, [3]int{0, 10, 0}, 5, 1, block("stone"), true); err != nil {
		t.Fatalf("tube: %v", err)
	}
	if _, ok := solid.blocks[[3]int{0, 10, 0}]; !ok {
		t.Fatalf("solid cylinder missing its center")
	}
	if _, ok := tube.blocks[[3]int{0, 10, 0}]; ok {
		t.Fatalf("tube placed its center")
	}
	if len(tube.blocks) >= len(solid.blocks) {
		t.Fatalf("tube (%d) should place fewer cells than solid (%d)", len(tube.blocks), len(solid.blocks))
	}
}
