package terrain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SiteKind classifies what a surveyed patch of terrain is good for.
type SiteKind int

const (
	SiteFlat SiteKind = iota
	SiteHillside
	SiteWaterfront
	SiteShallowWater
	SiteElevated
	// SiteDefault is the synthetic center site returned when nothing else
	// qualifies.
	SiteDefault
)

func (k SiteKind) String() string {
	switch k {
	case SiteFlat:
		return "flat"
	case SiteHillside:
		return "hillside"
	case SiteWaterfront:
		return "waterfront"
	case SiteShallowWater:
		return "shallow_water"
	case SiteElevated:
		return "elevated"
	default:
		return "default"
	}
}

// Site is a candidate building location in grid-local coordinates.
type Site struct {
	// X, Z locate the patch center within the surveyed grid.
	X, Z int
	// Y is the mean ground elevation of the patch.
	Y int

	Kind      SiteKind
	Quality   float64
	HeightVar float64
	MaxSlope  float64
	HasWater  bool
	NearWater bool
	MinY      int
	MaxY      int
	Size      int
}

// SurveyOptions tunes the patch scan. Zero values take the script defaults.
type SurveyOptions struct {
	Margin    int // cells kept clear of the grid border (default 10)
	PatchSize int // square patch edge (default 10)
}

// Survey scans the grid in half-overlapping patches and classifies each as a
// building site: flat ground, hillside, waterfront, shallow water or
// elevated terrain, with a quality score per kind. Results are sorted by
// descending quality. The list is never empty: when no patch qualifies a
// default site at the grid center is returned.
func Survey(heights, water Grid, opts SurveyOptions) []Site {
	margin := opts.Margin
	if margin <= 0 {
		margin = 10
	}
	patch := opts.PatchSize
	if patch <= 0 {
		patch = 10
	}

	slopeX, slopeZ := centralGradients(heights)

	var sites []Site
	step := patch / 2
	if step < 1 {
		step = 1
	}
	for z := margin; z < heights.rows-patch-margin; z += step {
		for x := margin; x < heights.cols-patch-margin; x += step {
			local := heights.Sub(x, z, patch, patch)
			localWater := water.Sub(x, z, patch, patch)

			meanY := local.Mean()
			heightVar := local.StdDev()
			maxSlope := 0.0
			for dz := 0; dz < patch; dz++ {
				for dx := 0; dx < patch; dx++ {
					m := math.Hypot(slopeX.mustAtF(x+dx, z+dz), slopeZ.mustAtF(x+dx, z+dz))
					if m > maxSlope {
						maxSlope = m
					}
				}
			}
			hasWater := localWater.Any(func(v int) bool { return v > 0 })
			nearWater := localWater.Sub(1, 1, patch-2, patch-2).Any(func(v int) bool { return v > 0 })

			s := Site{
				X:         x + patch/2,
				Z:         z + patch/2,
				Y:         int(meanY),
				HeightVar: heightVar,
				MaxSlope:  maxSlope,
				HasWater:  hasWater,
				NearWater: nearWater,
				MinY:      local.Min(),
				MaxY:      local.Max(),
				Size:      patch,
			}

			switch {
			case heightVar < 1.5 && !hasWater:
				s.Kind = SiteFlat
				s.Quality = 10 - heightVar
			case heightVar >= 1.5 && heightVar <= 5 && maxSlope > 0.5 && !hasWater:
				s.Kind = SiteHillside
				s.Quality = 5 + math.Min(heightVar, 5)
			case nearWater && !hasWater:
				s.Kind = SiteWaterfront
				s.Quality = 8
			case hasWater:
				depth := meanPositive(localWater)
				if depth > 0 && depth < 5 {
					s.Kind = SiteShallowWater
					s.Quality = 7
				}
			case heightVar > 5 && local.Max()-local.Min() > 7:
				s.Kind = SiteElevated
				s.Quality = 6 + math.Min(heightVar/2, 4)
			}

			if s.Quality > 5 {
				sites = append(sites, s)
			}
		}
	}

	sort.SliceStable(sites, func(i, j int) bool { return sites[i].Quality > sites[j].Quality })

	if len(sites) == 0 {
		cx, cz := heights.cols/2, heights.rows/2
		x0 := maxInt(0, cx-5)
		z0 := maxInt(0, cz-5)
		w := minInt(heights.cols, cx+5) - x0
		h := minInt(heights.rows, cz+5) - z0
		meanY := int(heights.Sub(x0, z0, w, h).Mean())
		sites = append(sites, Site{
			X: cx, Z: cz, Y: meanY,
			Kind: SiteDefault, Quality: 5,
			MinY: meanY, MaxY: meanY, Size: patch,
		})
	}
	return sites
}

// centralGradients computes whole-grid central differences along each axis.
// Border rows/columns are left zero, matching the survey's reference
// behavior (the flattest-window search uses per-window gradients instead).
func centralGradients(g Grid) (slopeX, slopeZ fgrid) {
	slopeX = newFgrid(g.cols, g.rows)
	slopeZ = newFgrid(g.cols, g.rows)
	for z := 0; z < g.rows; z++ {
		for x := 1; x < g.cols-1; x++ {
			slopeX.set(x, z, float64(g.At(x+1, z)-g.At(x-1, z)))
		}
	}
	for z := 1; z < g.rows-1; z++ {
		for x := 0; x < g.cols; x++ {
			slopeZ.set(x, z, float64(g.At(x, z+1)-g.At(x, z-1)))
		}
	}
	return slopeX, slopeZ
}

// meanPositive averages the strictly positive cells, or 0 when there are none.
func meanPositive(g Grid) float64 {
	var pos []float64
	for _, v := range g.cells {
		if v > 0 {
			pos = append(pos, float64(v))
		}
	}
	if len(pos) == 0 {
		return 0
	}
	return stat.Mean(pos, nil)
}

// fgrid is a scratch float field for gradient work.
type fgrid struct {
	cols, rows int
	cells      []float64
}

func newFgrid(cols, rows int) fgrid {
	return fgrid{cols: cols, rows: rows, cells: make([]float64, cols*rows)}
}

func (f fgrid) set(x, z int, v float64)  { f.cells[z*f.cols+x] = v }
func (f fgrid) mustAtF(x, z int) float64 { return f.cells[z*f.cols+x] }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
