package terrain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrNoValidSite means the water constraint (or height band) rejected every
// candidate window. Callers treat it as fatal for the current build attempt;
// there is no fallback site.
var ErrNoValidSite = errors.New("terrain: no flat enough surface that is not on water")

// ErrWindowTooLarge means the requested window does not fit the grid at all.
var ErrWindowTooLarge = errors.New("terrain: window size is larger than the grid")

// Window identifies a Size x Size sub-square of a grid by the horizontal
// offset of its north-west cell.
type Window struct {
	X    int
	Z    int
	Size int
}

// SearchResult describes the chosen window.
type SearchResult struct {
	Window Window
	// Score is the mean gradient magnitude over the window; lower is flatter.
	Score float64
	// MaxY is the highest elevation inside the window.
	MaxY int
	// MeanY is the average elevation inside the window.
	MeanY float64
}

// HeightBand restricts candidate windows to a mean-elevation range.
type HeightBand struct {
	Min float64
	Max float64
}

// SearchOptions tunes FlattestWindow. The zero value matches the plain
// search: water-excluded argmin over every window.
type SearchOptions struct {
	// Band, when set, rejects windows whose mean elevation falls outside it
	// (used by the cottage builder to avoid building in pits or on peaks).
	Band *HeightBand
}

// FlattestWindow scans every size x size window of heights in row-major
// order and returns the one minimizing mean gradient magnitude, skipping any
// window that covers a water column. Ties keep the first window encountered,
// so the result is deterministic for identical input.
//
// The scan is deliberately the naive O((R-k)(C-k)*k^2) enumeration, and the
// gradient is recomputed per window rather than sliced from a whole-grid
// gradient: the two differ at window borders, where the central difference
// degrades to a one-sided one.
func FlattestWindow(heights, water Grid, size int, opts SearchOptions) (SearchResult, error) {
	if heights.cols != water.cols || heights.rows != water.rows {
		return SearchResult{}, fmt.Errorf("terrain: search: water mask shape %dx%d does not match heights %dx%d",
			water.cols, water.rows, heights.cols, heights.rows)
	}
	if size < 1 {
		return SearchResult{}, fmt.Errorf("terrain: search: window size %d < 1", size)
	}
	if size > heights.cols || size > heights.rows {
		return SearchResult{}, fmt.Errorf("%w: %d > %dx%d", ErrWindowTooLarge, size, heights.cols, heights.rows)
	}

	best := SearchResult{Score: math.Inf(1)}
	found := false
	for z := 0; z+size <= heights.rows; z++ {
		for x := 0; x+size <= heights.cols; x++ {
			sub := heights.Sub(x, z, size, size)
			if opts.Band != nil {
				mean := sub.Mean()
				if mean < opts.Band.Min || mean > opts.Band.Max {
					continue
				}
			}
			if water.Sub(x, z, size, size).Any(func(v int) bool { return v != 0 }) {
				continue
			}
			score := gradientScore(sub)
			if score < best.Score {
				best = SearchResult{
					Window: Window{X: x, Z: z, Size: size},
					Score:  score,
					MaxY:   sub.Max(),
					MeanY:  sub.Mean(),
				}
				found = true
			}
		}
	}
	if !found {
		return SearchResult{}, ErrNoValidSite
	}
	return best, nil
}

// gradientScore is the mean discrete gradient magnitude of g: central
// differences on interior cells, one-sided at the edges, magnitude
// hypot(gx, gz) per cell.
func gradientScore(g Grid) float64 {
	if g.rows == 1 && g.cols == 1 {
		return 0
	}
	mags := make([]float64, 0, g.rows*g.cols)
	for z := 0; z < g.rows; z++ {
		for x := 0; x < g.cols; x++ {
			gx := axisGradient(g.At(clampIdx(x-1, g.cols), z), g.At(x, z), g.At(clampIdx(x+1, g.cols), z), x, g.cols)
			gz := axisGradient(g.At(x, clampIdx(z-1, g.rows)), g.At(x, z), g.At(x, clampIdx(z+1, g.rows)), z, g.rows)
			mags = append(mags, math.Hypot(gx, gz))
		}
	}
	return stat.Mean(mags, nil)
}

// axisGradient computes the 1-D difference at index i of an axis of length n
// given the previous, current and next samples along that axis.
func axisGradient(prev, cur, next, i, n int) float64 {
	if n < 2 {
		return 0
	}
	switch {
	case i == 0:
		return float64(next - cur)
	case i == n-1:
		return float64(cur - prev)
	default:
		return float64(next-prev) / 2
	}
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// CornerSpan is the cruder site search used by the early cottage script: it
// walks candidate footprints on a stride and keeps the one with the smallest
// spread between its four corner heights. It returns the footprint origin
// and the lowest corner height as the base elevation.
func CornerSpan(heights Grid, w, l, step int) (x, z, baseY int, err error) {
	if step < 1 {
		step = 1
	}
	if w >= heights.cols || l >= heights.rows {
		return 0, 0, 0, fmt.Errorf("%w: footprint %dx%d in %dx%d grid", ErrWindowTooLarge, w, l, heights.cols, heights.rows)
	}
	bestSpan := math.MaxInt
	for cz := 0; cz+l < heights.rows; cz += step {
		for cx := 0; cx+w < heights.cols; cx += step {
			corners := [4]int{
				heights.At(cx, cz),
				heights.At(cx+w, cz),
				heights.At(cx, cz+l),
				heights.At(cx+w, cz+l),
			}
			lo, hi := corners[0], corners[0]
			for _, c := range corners[1:] {
				if c < lo {
					lo = c
				}
				if c > hi {
					hi = c
				}
			}
			if hi-lo < bestSpan {
				bestSpan = hi - lo
				x, z, baseY = cx, cz, lo
			}
		}
	}
	return x, z, baseY, nil
}
