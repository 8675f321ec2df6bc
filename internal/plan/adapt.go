package plan

import (
	"math"
	"math/rand"
	"sort"

	"sitecraft.dev/internal/terrain"
)

// Offset is a horizontal displacement from a building center.
type Offset struct {
	DX int
	DZ int
}

// Dims is a building footprint and wall height.
type Dims struct {
	Width  int
	Length int
	Height int
}

// FoundationMode says how the building meets the ground.
type FoundationMode int

const (
	FoundationStandard FoundationMode = iota
	FoundationElevated
	FoundationEmbedded
	FoundationStilts
)

func (m FoundationMode) String() string {
	switch m {
	case FoundationElevated:
		return "elevated"
	case FoundationEmbedded:
		return "embedded"
	case FoundationStilts:
		return "stilts"
	default:
		return "standard"
	}
}

// OutlineShape is the footprint outline.
type OutlineShape int

const (
	OutlineRectangle OutlineShape = iota
	OutlineLShape
	OutlineIrregular
	OutlineCourtyard
)

func (o OutlineShape) String() string {
	switch o {
	case OutlineLShape:
		return "L-shape"
	case OutlineIrregular:
		return "irregular"
	case OutlineCourtyard:
		return "courtyard"
	default:
		return "rectangle"
	}
}

// Adaptation is the terrain-adaptation plan for one building: where its
// base sits, how it is founded, how many tiers it splits into and which
// nearby offsets are earmarked for landscaping or water features.
type Adaptation struct {
	Style        Style
	Mode         FoundationMode
	Tiers        int
	RotationDeg  float64
	Outline      OutlineShape
	BaseY        int
	FoundationY  int
	TierHeights  []int
	CenterOffset Offset

	Landscaping   []Offset
	WaterFeatures []Offset
}

// Adapt builds the adaptation plan for a style on a surveyed site. heights
// and water are the full build-area grids; site coordinates are grid-local.
func Adapt(r *rand.Rand, heights, water terrain.Grid, site terrain.Site, d Dims, style Style) Adaptation {
	a := Adaptation{
		Style:   style,
		Mode:    FoundationStandard,
		Tiers:   1,
		Outline: OutlineRectangle,
	}

	radius := maxInt(d.Width, d.Length)/2 + 5
	x0 := maxInt(0, site.X-radius)
	z0 := maxInt(0, site.Z-radius)
	x1 := minInt(heights.Cols(), site.X+radius)
	z1 := minInt(heights.Rows(), site.Z+radius)
	local := heights.Sub(x0, z0, x1-x0, z1-z0)
	localWater := water.Sub(x0, z0, x1-x0, z1-z0)

	a.BaseY = footprintMedian(heights, site, d)

	switch {
	case site.Kind == terrain.SiteShallowWater || (site.Kind == terrain.SiteWaterfront && style == StylePlatform):
		a.Mode = FoundationStilts
		waterLevel := a.BaseY
		if lvl, ok := meanUnderWater(local, localWater); ok {
			waterLevel = lvl
		}
		a.FoundationY = waterLevel + 2 + r.Intn(3)

	case site.Kind == terrain.SiteHillside && style == StyleSplitLevel:
		a.Mode = FoundationEmbedded
		a.Tiers = 2 + int(site.HeightVar)/2
		span := site.MaxY - site.MinY
		tierStep := float64(span) / float64(a.Tiers)
		a.TierHeights = make([]int, a.Tiers)
		for i := range a.TierHeights {
			a.TierHeights[i] = site.MinY + int(tierStep*float64(i))
		}

	case site.Kind == terrain.SiteElevated && style == StyleTower:
		a.Mode = FoundationEmbedded
		if dx, dz, peakY, ok := localPeak(local); ok {
			a.CenterOffset = Offset{DX: dx + x0 - site.X, DZ: dz + z0 - site.Z}
			a.BaseY = peakY
		}
	}

	switch style {
	case StyleCompound:
		shapes := []OutlineShape{OutlineLShape, OutlineIrregular, OutlineRectangle}
		a.Outline = shapes[r.Intn(len(shapes))]
	case StyleCourtyard:
		a.Outline = OutlineCourtyard
	case StyleLonghouse:
		// Align the long axis with the contour line when the ground clearly
		// slopes one way.
		gx, gz := meanGradient(local)
		if math.Abs(gx) > 0.2 || math.Abs(gz) > 0.2 {
			angle := math.Atan2(gz, gx) * 180 / math.Pi
			a.RotationDeg = math.Mod(angle+90+360, 360)
		}
	}

	if style != StylePlatform && style != StyleTower {
		a.Landscaping = landscapingOffsets(local, localWater, site, d, a.BaseY, x0, z0, radius)
	}
	if site.NearWater {
		a.WaterFeatures = waterOffsets(localWater, site, x0, z0, radius)
	}
	return a
}

// AdjustmentMap records, for every offset in the footprint plus a 3-cell
// margin, how far the ground is from the target base elevation: positive
// values need fill, negative need clearing. Offsets outside the grid are
// absent.
func AdjustmentMap(heights terrain.Grid, centerX, centerZ int, d Dims, targetY int) map[Offset]int {
	adj := make(map[Offset]int)
	for dx := -d.Width/2 - 3; dx <= d.Width/2+3; dx++ {
		for dz := -d.Length/2 - 3; dz <= d.Length/2+3; dz++ {
			x, z := centerX+dx, centerZ+dz
			if x < 0 || x >= heights.Cols() || z < 0 || z >= heights.Rows() {
				continue
			}
			adj[Offset{DX: dx, DZ: dz}] = targetY - heights.At(x, z)
		}
	}
	return adj
}

// footprintMedian is the median ground height under the footprint, the base
// elevation the building levels to.
func footprintMedian(heights terrain.Grid, site terrain.Site, d Dims) int {
	var hs []int
	for dx := -d.Width / 2; dx <= d.Width/2; dx++ {
		for dz := -d.Length / 2; dz <= d.Length/2; dz++ {
			x, z := site.X+dx, site.Z+dz
			if x < 0 || x >= heights.Cols() || z < 0 || z >= heights.Rows() {
				continue
			}
			hs = append(hs, heights.At(x, z))
		}
	}
	if len(hs) == 0 {
		return site.Y
	}
	sort.Ints(hs)
	return hs[len(hs)/2]
}

// meanUnderWater averages ground elevation over the wet cells.
func meanUnderWater(local, localWater terrain.Grid) (int, bool) {
	sum, n := 0, 0
	for z := 0; z < local.Rows(); z++ {
		for x := 0; x < local.Cols(); x++ {
			if localWater.At(x, z) > 0 {
				sum += local.At(x, z)
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / n, true
}

// localPeak finds the highest cell that is no lower than its four neighbors.
func localPeak(local terrain.Grid) (x, z, y int, ok bool) {
	bestY := math.MinInt
	for pz := 1; pz < local.Rows()-1; pz++ {
		for px := 1; px < local.Cols()-1; px++ {
			h := local.At(px, pz)
			if h >= local.At(px-1, pz) && h >= local.At(px+1, pz) &&
				h >= local.At(px, pz-1) && h >= local.At(px, pz+1) && h > bestY {
				x, z, y, ok = px, pz, h, true
				bestY = h
			}
		}
	}
	return x, z, y, ok
}

// meanGradient averages the central-difference slope over the patch.
func meanGradient(local terrain.Grid) (gx, gz float64) {
	nx, nz := 0, 0
	for z := 0; z < local.Rows(); z++ {
		for x := 1; x < local.Cols()-1; x++ {
			gx += float64(local.At(x+1, z)-local.At(x-1, z)) / 2
			nx++
		}
	}
	for z := 1; z < local.Rows()-1; z++ {
		for x := 0; x < local.Cols(); x++ {
			gz += float64(local.At(x, z+1)-local.At(x, z-1)) / 2
			nz++
		}
	}
	if nx > 0 {
		gx /= float64(nx)
	}
	if nz > 0 {
		gz /= float64(nz)
	}
	return gx, gz
}

// landscapingOffsets collects flat dry cells in a ring around the footprint.
func landscapingOffsets(local, localWater terrain.Grid, site terrain.Site, d Dims, baseY, x0, z0, radius int) []Offset {
	var out []Offset
	for dx := -radius; dx < radius; dx++ {
		for dz := -radius; dz < radius; dz++ {
			lx := site.X + dx - x0
			lz := site.Z + dz - z0
			if lx < 0 || lx >= local.Cols() || lz < 0 || lz >= local.Rows() {
				continue
			}
			if absInt(dx) < d.Width/2+2 && absInt(dz) < d.Length/2+2 {
				continue
			}
			inRingX := d.Width/2+2 <= absInt(dx) && absInt(dx) <= d.Width/2+10
			inRingZ := d.Length/2+2 <= absInt(dz) && absInt(dz) <= d.Length/2+10
			if !inRingX && !inRingZ {
				continue
			}
			if localWater.At(lx, lz) == 0 && absInt(local.At(lx, lz)-baseY) < 3 {
				out = append(out, Offset{DX: dx, DZ: dz})
			}
		}
	}
	return out
}

// waterOffsets collects wet cells near the site, usable as incorporated
// water features.
func waterOffsets(localWater terrain.Grid, site terrain.Site, x0, z0, radius int) []Offset {
	var out []Offset
	for dx := -radius; dx < radius; dx++ {
		for dz := -radius; dz < radius; dz++ {
			lx := site.X + dx - x0
			lz := site.Z + dz - z0
			if lx < 0 || lx >= localWater.Cols() || lz < 0 || lz >= localWater.Rows() {
				continue
			}
			if localWater.At(lx, lz) > 0 {
				out = append(out, Offset{DX: dx, DZ: dz})
			}
		}
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

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
