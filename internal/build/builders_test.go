package build_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"sitecraft.dev/internal/build"
	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/editor/editortest"
	"sitecraft.dev/internal/palette"
)

func openEditor(t *testing.T, w *editortest.World) *editor.Editor {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ed, err := editor.Open(ctx, editor.Options{URL: w.Serve(t), Name: "build-test"})
	if err != nil {
		t.Fatalf("open editor: %v", err)
	}
	t.Cleanup(func() { _ = ed.Close() })
	return ed
}

func loadCatalog(t *testing.T) *palette.Catalog {
	t.Helper()
	cat, err := palette.Load("../../configs")
	if err != nil {
		t.Fatalf("load palettes: %v", err)
	}
	return cat
}

func TestHut_PlacesShellAndDetails(t *testing.T) {
	w := editortest.NewFlatWorld(32, 32, 64)
	ed := openEditor(t, w)

	res, err := build.Hut(context.Background(), ed)
	if err != nil {
		t.Fatalf("hut: %v", err)
	}
	if res.X != 16 || res.Z != 16 || res.Y != 64 {
		t.Fatalf("unexpected anchor: %+v", res)
	}

	// Door halves on the west wall.
	lower, ok := w.BlockAt([3]int{14, 64, 16})
	if !ok || lower.ID != "spruce_door" || lower.States["half"] != "lower" {
		t.Fatalf("lower door half: %+v (ok=%v)", lower, ok)
	}
	upper, _ := w.BlockAt([3]int{14, 65, 16})
	if upper.States["half"] != "upper" {
		t.Fatalf("upper door half: %+v", upper)
	}

	// Foundation slab is 7x9, floor 3x5.
	if got := w.CountID("stone_bricks"); got != 63 {
		t.Fatalf("foundation cells: %d", got)
	}
	if got := w.CountID("oak_planks"); got != 15 {
		t.Fatalf("floor cells: %d", got)
	}
	// Two windows, two panes each.
	if got := w.CountID("glass_pane"); got != 4 {
		t.Fatalf("window panes: %d", got)
	}
	if w.CountID("dark_oak_stairs") == 0 {
		t.Fatalf("no roof stairs placed")
	}
}

func TestCottage_BuildsOnFlattestInteriorPatch(t *testing.T) {
	w := editortest.NewFlatWorld(48, 48, 64)
	// Rough up two border strips so the flattest window sits inland, clear
	// of the build-area edge.
	w.RaiseGround(0, 0, 48, 6, 3)
	w.RaiseGround(0, 6, 6, 48, 3)
	ed := openEditor(t, w)

	res, err := build.Cottage(context.Background(), ed, rand.New(rand.NewSource(11)), build.CottageOptions{})
	if err != nil {
		t.Fatalf("cottage: %v", err)
	}
	if res.X != 6 || res.Z != 6 {
		t.Fatalf("expected anchor at the first flat window (6,6), got (%d,%d)", res.X, res.Z)
	}
	if res.Width < 6 || res.Width > 14 || res.Length < 16 || res.Length > 24 {
		t.Fatalf("dimensions out of range: %+v", res)
	}

	if got := w.CountID("spruce_door"); got != 2 {
		t.Fatalf("door halves: %d", got)
	}
	if got := w.CountID("campfire"); got != 1 {
		t.Fatalf("campfires: %d", got)
	}
	if got := w.CountID("spruce_fence_gate"); got != 2 {
		t.Fatalf("fence gates: %d", got)
	}
	if w.CountID("spruce_fence") == 0 {
		t.Fatalf("no garden fence placed")
	}
	if w.CountID("cobblestone") == 0 {
		t.Fatalf("no foundation or path cobblestone placed")
	}
}

func TestCastle_KeepTowersAndPortcullis(t *testing.T) {
	w := editortest.NewFlatWorld(96, 96, 64)
	ed := openEditor(t, w)

	res, err := build.Castle(context.Background(), ed)
	if err != nil {
		t.Fatalf("castle: %v", err)
	}
	if res.X != 48 || res.Z != 48 {
		t.Fatalf("castle not centered: %+v", res)
	}

	// Portcullis: 5 wide, 6 high.
	if got := w.CountID("iron_bars"); got != 30 {
		t.Fatalf("portcullis bars: %d", got)
	}
	if w.CountID("deepslate_bricks") == 0 {
		t.Fatalf("no keep walls placed")
	}
	if w.CountID("deepslate_tiles") == 0 {
		t.Fatalf("no tower walls placed")
	}
	if w.CountID("dark_prismarine") == 0 {
		t.Fatalf("no tower roofs placed")
	}
	// Keep floors: 5 levels of 19x19 planks.
	if got := w.CountID("dark_oak_planks"); got != 5*19*19 {
		t.Fatalf("keep floor cells: %d", got)
	}
}

func TestMansion_LevelsAndFurnishes(t *testing.T) {
	w := editortest.NewFlatWorld(64, 64, 64)
	ed := openEditor(t, w)
	cat := loadCatalog(t)

	res, err := build.Mansion(context.Background(), ed,
		cat.Materials(palette.ThemePlains), palette.ThemePlains, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("mansion: %v", err)
	}
	if res.Theme != "plains" || res.Style != "mansion" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Y != 65 {
		t.Fatalf("flat ground at 64 should level to 65, got %d", res.Y)
	}
	if got := w.CountID("spruce_door"); got != 2 {
		t.Fatalf("door halves: %d", got)
	}
	if w.CountID("campfire") != 1 {
		t.Fatalf("chimney campfire missing")
	}
	if w.CountID("bookshelf") == 0 {
		t.Fatalf("library missing")
	}
	if w.CountID("red_bed") != 2 {
		t.Fatalf("bed halves: %d", w.CountID("red_bed"))
	}
}

func TestProcedural_GeneratesWithinBuildArea(t *testing.T) {
	w := editortest.NewFlatWorld(64, 64, 64)
	ed := openEditor(t, w)
	cat := loadCatalog(t)

	res, err := build.Procedural(context.Background(), ed, cat, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("procedural: %v", err)
	}
	if res.Style == "" || res.Theme != "plains" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.X-res.Width/2 < 0 || res.X+res.Width/2 > 63 ||
		res.Z-res.Length/2 < 0 || res.Z+res.Length/2 > 63 {
		t.Fatalf("footprint escapes the build area: %+v", res)
	}
	if w.PlacedCount() < 500 {
		t.Fatalf("suspiciously few placements: %d", w.PlacedCount())
	}
}
