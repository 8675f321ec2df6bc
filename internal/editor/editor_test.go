package editor_test

import (
	"context"
	"testing"
	"time"

	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/editor/editortest"
	"sitecraft.dev/internal/protocol"
)

func open(t *testing.T, w *editortest.World) *editor.Editor {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ed, err := editor.Open(ctx, editor.Options{
		URL:     w.Serve(t),
		Name:    "test",
		FlushAt: 4,
	})
	if err != nil {
		t.Fatalf("open editor: %v", err)
	}
	t.Cleanup(func() { _ = ed.Close() })
	return ed
}

func TestOpen_Handshake(t *testing.T) {
	w := editortest.NewFlatWorld(32, 32, 64)
	ed := open(t, w)

	area := ed.BuildArea()
	if area.Begin != [3]int{0, -64, 0} || area.Last != [3]int{31, 319, 31} {
		t.Fatalf("unexpected build area: %+v", area)
	}
	if ed.Seed() != 1337 {
		t.Fatalf("unexpected seed: %d", ed.Seed())
	}
	if ed.SessionID() == "" {
		t.Fatalf("missing session id")
	}
}

func TestPlace_BuffersAndAutoFlushes(t *testing.T) {
	w := editortest.NewFlatWorld(32, 32, 64)
	ed := open(t, w)
	ctx := context.Background()

	stone := protocol.Block{ID: "stone"}
	for i := 0; i < 3; i++ {
		if err := ed.Place(ctx, [3]int{i, 64, 0}, stone); err != nil {
			t.Fatalf("place: %v", err)
		}
	}
	if w.PlacedCount() != 0 {
		t.Fatalf("buffer flushed too early: %d placements", w.PlacedCount())
	}

	// Fourth placement hits FlushAt.
	if err := ed.Place(ctx, [3]int{3, 64, 0}, stone); err != nil {
		t.Fatalf("place: %v", err)
	}
	if w.PlacedCount() != 4 {
		t.Fatalf("expected auto-flush of 4, got %d", w.PlacedCount())
	}
	if ed.Placed() != 4 {
		t.Fatalf("editor placed counter: %d", ed.Placed())
	}
}

func TestGetBlock_FlushesFirst(t *testing.T) {
	w := editortest.NewFlatWorld(32, 32, 64)
	ed := open(t, w)
	ctx := context.Background()

	want := protocol.Block{ID: "oak_stairs", States: map[string]string{"facing": "east"}}
	if err := ed.Place(ctx, [3]int{5, 64, 5}, want); err != nil {
		t.Fatalf("place: %v", err)
	}
	got, err := ed.GetBlock(ctx, [3]int{5, 64, 5})
	if err != nil {
		t.Fatalf("get block: %v", err)
	}
	if got.ID != want.ID || got.States["facing"] != "east" {
		t.Fatalf("read back %+v, want %+v", got, want)
	}

	air, err := ed.GetBlock(ctx, [3]int{6, 64, 5})
	if err != nil {
		t.Fatalf("get air: %v", err)
	}
	if air.ID != "air" {
		t.Fatalf("untouched cell should read air, got %s", air.ID)
	}
}

func TestPlace_OutOfAreaRejected(t *testing.T) {
	w := editortest.NewFlatWorld(16, 16, 64)
	ed := open(t, w)
	ctx := context.Background()

	if err := ed.Place(ctx, [3]int{100, 64, 0}, protocol.Block{ID: "stone"}); err != nil {
		t.Fatalf("buffered place should not fail: %v", err)
	}
	if err := ed.Flush(ctx); err == nil {
		t.Fatalf("expected out-of-area flush to fail")
	}
}

func TestLoadSlice_GridsAndWaterMask(t *testing.T) {
	w := editortest.NewFlatWorld(24, 24, 64)
	w.AddWater(4, 4, 8, 8, 3)
	ed := open(t, w)
	ctx := context.Background()

	slice, err := ed.LoadSlice(ctx)
	if err != nil {
		t.Fatalf("load slice: %v", err)
	}
	ground, err := slice.Ground()
	if err != nil {
		t.Fatalf("ground: %v", err)
	}
	if ground.Cols() != 24 || ground.Rows() != 24 {
		t.Fatalf("ground shape: %dx%d", ground.Cols(), ground.Rows())
	}

	mask, err := slice.WaterMask()
	if err != nil {
		t.Fatalf("water mask: %v", err)
	}
	if mask.At(5, 5) != 3 {
		t.Fatalf("flooded cell mask: %d", mask.At(5, 5))
	}
	if mask.At(0, 0) != 0 {
		t.Fatalf("dry cell mask: %d", mask.At(0, 0))
	}
	if slice.CenterBiome() != "plains" {
		t.Fatalf("center biome: %q", slice.CenterBiome())
	}

	// Cached: second call returns the same snapshot.
	again, err := ed.LoadSlice(ctx)
	if err != nil {
		t.Fatalf("reload slice: %v", err)
	}
	if again != slice {
		t.Fatalf("slice not cached")
	}
}
