package terrain

import (
	"errors"
	"math"
	"testing"
)

func flatGrid(cols, rows, v int) Grid {
	cells := make([][]int, rows)
	for z := range cells {
		cells[z] = make([]int, cols)
		for x := range cells[z] {
			cells[z][x] = v
		}
	}
	return MustGrid(cells)
}

func TestFlattestWindow_SpikeAvoided(t *testing.T) {
	heights := MustGrid([][]int{
		{10, 10, 10, 10},
		{10, 10, 10, 10},
		{10, 10, 10, 10},
		{10, 10, 10, 20},
	})
	water := flatGrid(4, 4, 0)

	res, err := FlattestWindow(heights, water, 2, SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Window.X != 0 || res.Window.Z != 0 {
		t.Fatalf("expected window (0,0), got (%d,%d)", res.Window.X, res.Window.Z)
	}
	if res.Score != 0 {
		t.Fatalf("expected score 0 on constant window, got %v", res.Score)
	}
	if res.MaxY != 10 {
		t.Fatalf("expected max elevation 10, got %d", res.MaxY)
	}
}

func TestFlattestWindow_CenterWaterRejectsAll(t *testing.T) {
	heights := flatGrid(3, 3, 5)
	water := MustGrid([][]int{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})

	// Every 2x2 window of a 3x3 grid covers the center cell.
	_, err := FlattestWindow(heights, water, 2, SearchOptions{})
	if !errors.Is(err, ErrNoValidSite) {
		t.Fatalf("expected ErrNoValidSite, got %v", err)
	}
}

func TestFlattestWindow_AllWetFailsForAnySize(t *testing.T) {
	heights := flatGrid(5, 5, 62)
	water := flatGrid(5, 5, 3)

	for k := 1; k <= 5; k++ {
		_, err := FlattestWindow(heights, water, k, SearchOptions{})
		if !errors.Is(err, ErrNoValidSite) {
			t.Fatalf("k=%d: expected ErrNoValidSite, got %v", k, err)
		}
	}
}

func TestFlattestWindow_FullSizeSingleCandidate(t *testing.T) {
	heights := MustGrid([][]int{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	water := flatGrid(3, 3, 0)

	res, err := FlattestWindow(heights, water, 3, SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Window != (Window{X: 0, Z: 0, Size: 3}) {
		t.Fatalf("expected the single (0,0) window, got %+v", res.Window)
	}
	if res.MaxY != 9 {
		t.Fatalf("expected max 9, got %d", res.MaxY)
	}
}

func TestFlattestWindow_TooLargeFailsFast(t *testing.T) {
	heights := flatGrid(4, 4, 10)
	water := flatGrid(4, 4, 0)
	_, err := FlattestWindow(heights, water, 5, SearchOptions{})
	if !errors.Is(err, ErrWindowTooLarge) {
		t.Fatalf("expected ErrWindowTooLarge, got %v", err)
	}
}

func TestFlattestWindow_ShapeMismatch(t *testing.T) {
	_, err := FlattestWindow(flatGrid(4, 4, 10), flatGrid(3, 3, 0), 2, SearchOptions{})
	if err == nil {
		t.Fatalf("expected shape mismatch error")
	}
}

func TestFlattestWindow_DeterministicTieBreak(t *testing.T) {
	// Several equally flat windows; the first in row-major order wins.
	heights := flatGrid(6, 6, 70)
	water := flatGrid(6, 6, 0)

	first, err := FlattestWindow(heights, water, 3, SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if first.Window.X != 0 || first.Window.Z != 0 {
		t.Fatalf("tie-break should pick (0,0), got (%d,%d)", first.Window.X, first.Window.Z)
	}
	second, err := FlattestWindow(heights, water, 3, SearchOptions{})
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if first != second {
		t.Fatalf("search is not deterministic: %+v vs %+v", first, second)
	}
}

func TestFlattestWindow_PicksMinimalDryScore(t *testing.T) {
	// The flattest patch is under water; the search must settle for the best
	// dry window instead.
	heights := MustGrid([][]int{
		{60, 60, 64, 65},
		{60, 60, 64, 66},
		{61, 62, 63, 64},
		{61, 62, 63, 64},
	})
	water := MustGrid([][]int{
		{2, 2, 0, 0},
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	res, err := FlattestWindow(heights, water, 2, SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Window.X == 0 && res.Window.Z == 0 {
		t.Fatalf("search picked a wet window")
	}
	// Exhaustively confirm minimality over the dry windows.
	for z := 0; z+2 <= 4; z++ {
		for x := 0; x+2 <= 4; x++ {
			if water.Sub(x, z, 2, 2).Any(func(v int) bool { return v != 0 }) {
				continue
			}
			score := gradientScore(heights.Sub(x, z, 2, 2))
			if score < res.Score {
				t.Fatalf("window (%d,%d) score %v beats chosen %v", x, z, score, res.Score)
			}
		}
	}
}

func TestFlattestWindow_HeightBand(t *testing.T) {
	heights := MustGrid([][]int{
		{40, 40, 80, 80},
		{40, 40, 80, 80},
		{40, 40, 80, 80},
		{40, 40, 80, 80},
	})
	water := flatGrid(4, 4, 0)

	res, err := FlattestWindow(heights, water, 2, SearchOptions{Band: &HeightBand{Min: 60, Max: 100}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.MeanY < 60 || res.MeanY > 100 {
		t.Fatalf("band violated: mean %v", res.MeanY)
	}
	if res.Window.X != 2 {
		t.Fatalf("expected the 80-elevation column, got x=%d", res.Window.X)
	}

	_, err = FlattestWindow(heights, water, 2, SearchOptions{Band: &HeightBand{Min: 200, Max: 300}})
	if !errors.Is(err, ErrNoValidSite) {
		t.Fatalf("unreachable band should fail with ErrNoValidSite, got %v", err)
	}
}

func TestGradientScore_MatchesCentralDifferences(t *testing.T) {
	// 2x2 ramp: every cell sees gx=1, gz=2 one-sided differences.
	g := MustGrid([][]int{
		{0, 1},
		{2, 3},
	})
	want := math.Hypot(1, 2)
	if got := gradientScore(g); math.Abs(got-want) > 1e-12 {
		t.Fatalf("gradient score: got %v want %v", got, want)
	}

	// Single cell has no gradient.
	if got := gradientScore(MustGrid([][]int{{7}})); got != 0 {
		t.Fatalf("1x1 gradient should be 0, got %v", got)
	}
}

func TestCornerSpan_FindsFlatFootprint(t *testing.T) {
	// Left half flat at 64, right half ramping upward.
	cells := make([][]int, 12)
	for z := range cells {
		cells[z] = make([]int, 12)
		for x := range cells[z] {
			if x < 6 {
				cells[z][x] = 64
			} else {
				cells[z][x] = 64 + x
			}
		}
	}
	heights := MustGrid(cells)

	x, _, baseY, err := CornerSpan(heights, 4, 4, 2)
	if err != nil {
		t.Fatalf("corner span: %v", err)
	}
	if x > 2 {
		t.Fatalf("expected a footprint on the flat half, got x=%d", x)
	}
	if baseY != 64 {
		t.Fatalf("expected base 64, got %d", baseY)
	}
}
