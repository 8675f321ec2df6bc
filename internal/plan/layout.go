package plan

import (
	"fmt"
	"math/rand"
)

// Facing is a cardinal wall direction.
type Facing string

const (
	North Facing = "north"
	South Facing = "south"
	East  Facing = "east"
	West  Facing = "west"
)

// Room is an axis-aligned interior span in center-relative coordinates.
type Room struct {
	Name string
	X1   int
	Z1   int
	X2   int
	Z2   int
	Tier int
}

// WallRun is an interior wall segment.
type WallRun struct {
	X1 int
	Z1 int
	X2 int
	Z2 int
}

// Door is a doorway in a wall; Entrance marks the main way in.
type Door struct {
	X        int
	Z        int
	Facing   Facing
	Entrance bool
}

// WindowSpot is a window position on an exterior wall.
type WindowSpot struct {
	X      int
	Z      int
	Facing Facing
}

// FeatureKind enumerates interior/exterior special features.
type FeatureKind string

const (
	FeatureFireplace FeatureKind = "fireplace"
	FeatureBookshelf FeatureKind = "bookshelf"
	FeatureTable     FeatureKind = "table"
	FeatureBed       FeatureKind = "bed"
	FeatureStorage   FeatureKind = "storage"
	FeatureKitchen   FeatureKind = "kitchen"
	FeatureStairs    FeatureKind = "stairs"
	FeatureWell      FeatureKind = "well"
)

// Feature is a placed special feature.
type Feature struct {
	Kind FeatureKind
	X    int
	Z    int
	Tier int
}

// Layout is an immutable room plan produced by NewLayout. Coordinates are
// relative to the building center; the builders translate them to world
// space.
type Layout struct {
	Style    Style
	Rooms    []Room
	Walls    []WallRun
	Doors    []Door
	Windows  []WindowSpot
	Features []Feature
}

// Entrance returns the main entrance door.
func (l Layout) Entrance() (Door, bool) {
	for _, d := range l.Doors {
		if d.Entrance {
			return d, true
		}
	}
	if len(l.Doors) > 0 {
		return l.Doors[0], true
	}
	return Door{}, false
}

// NewLayout builds the room plan for a style. The same rand source yields
// the same layout.
func NewLayout(r *rand.Rand, d Dims, style Style, tiers int) Layout {
	switch style {
	case StyleLonghouse:
		return longhouseLayout(r, d)
	case StyleSplitLevel:
		return splitLevelLayout(d, tiers)
	case StyleCompound:
		return compoundLayout(r, d)
	case StyleTower:
		return towerLayout(d)
	case StyleCourtyard:
		return courtyardLayout(d)
	case StylePlatform:
		return platformLayout(d)
	default:
		return cottageLayout(d)
	}
}

func cottageLayout(d Dims) Layout {
	w, l := d.Width, d.Length
	return Layout{
		Style: StyleCottage,
		Rooms: []Room{
			{Name: "main_room", X1: -w / 4, Z1: -l / 4, X2: w / 4, Z2: l / 4},
			{Name: "bedroom", X1: -w/2 + 1, Z1: l / 4, X2: w / 4, Z2: l/2 - 1},
			{Name: "kitchen", X1: w / 4, Z1: -l/2 + 1, X2: w/2 - 1, Z2: l / 4},
		},
		Walls: []WallRun{
			{X1: -w / 4, Z1: l / 4, X2: w / 4, Z2: l / 4}, // bedroom divider
			{X1: w / 4, Z1: -l / 4, X2: w / 4, Z2: l / 4}, // kitchen divider
		},
		Doors: []Door{
			{X: 0, Z: l / 4, Facing: North},
			{X: w / 4, Z: 0, Facing: West},
			{X: -w / 2, Z: 0, Facing: East, Entrance: true},
		},
		Windows: []WindowSpot{
			{X: w / 2, Z: -l / 3, Facing: West},
			{X: w / 2, Z: l / 3, Facing: West},
			{X: -w / 2, Z: l / 3, Facing: East},
			{X: -w / 3, Z: l / 2, Facing: North},
			{X: w / 3, Z: l / 2, Facing: North},
			{X: w / 3, Z: -l / 2, Facing: South},
			{X: -w / 3, Z: -l / 2, Facing: South},
		},
		Features: []Feature{
			{Kind: FeatureFireplace, X: w/2 - 1, Z: 0},
			{Kind: FeatureBookshelf, X: 0, Z: -l/2 + 1},
			{Kind: FeatureTable, X: w / 3, Z: -l / 3},
		},
	}
}

func longhouseLayout(r *rand.Rand, d Dims) Layout {
	w, l := d.Width, d.Length
	hallW := w / 3
	lay := Layout{
		Style: StyleLonghouse,
		Rooms: []Room{
			{Name: "great_hall", X1: -hallW / 2, Z1: -l/2 + 1, X2: hallW / 2, Z2: l/2 - 1},
		},
		Walls: []WallRun{
			{X1: -hallW / 2, Z1: -l/2 + 1, X2: -hallW / 2, Z2: l/2 - 1},
			{X1: hallW / 2, Z1: -l/2 + 1, X2: hallW / 2, Z2: l/2 - 1},
		},
		Doors: []Door{
			{X: 0, Z: -l / 2, Facing: South, Entrance: true},
			{X: 0, Z: l / 2, Facing: North},
		},
	}

	nRooms := 3 + r.Intn(3)
	roomLen := l / nRooms
	for i := 0; i < nRooms; i++ {
		z1 := -l/2 + 1 + i*roomLen
		z2 := z1 + roomLen - 1
		if z2 > l/2-1 {
			z2 = l/2 - 1
		}
		lay.Rooms = append(lay.Rooms,
			Room{Name: fmt.Sprintf("left_room_%d", i), X1: -w/2 + 1, Z1: z1, X2: -hallW/2 - 1, Z2: z2},
			Room{Name: fmt.Sprintf("right_room_%d", i), X1: hallW/2 + 1, Z1: z1, X2: w/2 - 1, Z2: z2},
		)
		lay.Doors = append(lay.Doors,
			Door{X: -hallW / 2, Z: z1 + roomLen/2, Facing: East},
			Door{X: hallW / 2, Z: z1 + roomLen/2, Facing: West},
		)
		lay.Windows = append(lay.Windows,
			WindowSpot{X: -w / 2, Z: z1 + roomLen/2, Facing: East},
			WindowSpot{X: w / 2, Z: z1 + roomLen/2, Facing: West},
		)
	}

	lay.Features = []Feature{
		{Kind: FeatureFireplace, X: 0, Z: 0},
		{Kind: FeatureTable, X: 0, Z: -l / 4},
		{Kind: FeatureTable, X: 0, Z: l / 4},
	}
	return lay
}

func splitLevelLayout(d Dims, tiers int) Layout {
	if tiers < 2 {
		tiers = 2
	}
	w, l := d.Width, d.Length
	lay := Layout{Style: StyleSplitLevel}

	// One room per tier, stepping along x with connecting stairs.
	tierW := w / tiers
	for i := 0; i < tiers; i++ {
		x1 := -w/2 + 1 + i*tierW
		x2 := x1 + tierW - 2
		if i == tiers-1 {
			x2 = w/2 - 1
		}
		lay.Rooms = append(lay.Rooms, Room{
			Name: fmt.Sprintf("tier_%d", i),
			X1:   x1, Z1: -l/2 + 1, X2: x2, Z2: l/2 - 1,
			Tier: i,
		})
		if i > 0 {
			lay.Walls = append(lay.Walls, WallRun{X1: x1 - 1, Z1: -l/2 + 1, X2: x1 - 1, Z2: l/2 - 1})
			lay.Features = append(lay.Features, Feature{Kind: FeatureStairs, X: x1 - 1, Z: 0, Tier: i})
			lay.Doors = append(lay.Doors, Door{X: x1 - 1, Z: 0, Facing: West})
		}
		lay.Windows = append(lay.Windows,
			WindowSpot{X: (x1 + x2) / 2, Z: -l / 2, Facing: South},
			WindowSpot{X: (x1 + x2) / 2, Z: l / 2, Facing: North},
		)
	}
	lay.Doors = append(lay.Doors, Door{X: -w / 2, Z: 0, Facing: East, Entrance: true})
	lay.Features = append(lay.Features,
		Feature{Kind: FeatureBed, X: w/2 - 2, Z: l/2 - 2, Tier: tiers - 1},
		Feature{Kind: FeatureKitchen, X: -w/2 + 2, Z: -l/2 + 2},
	)
	return lay
}

func compoundLayout(r *rand.Rand, d Dims) Layout {
	w, l := d.Width, d.Length
	lay := Layout{
		Style: StyleCompound,
		Rooms: []Room{
			{Name: "main_house", X1: -w / 4, Z1: -l / 4, X2: w / 4, Z2: l / 4},
		},
		Doors: []Door{
			{X: -w / 4, Z: 0, Facing: East, Entrance: true},
		},
		Features: []Feature{
			{Kind: FeatureWell, X: 0, Z: l/2 - 2},
		},
	}

	corners := []Offset{
		{DX: -w/2 + 2, DZ: -l/2 + 2},
		{DX: w/2 - 5, DZ: -l/2 + 2},
		{DX: -w/2 + 2, DZ: l/2 - 5},
		{DX: w/2 - 5, DZ: l/2 - 5},
	}
	n := 1 + r.Intn(2)
	for i := 0; i < n && i < len(corners); i++ {
		c := corners[r.Intn(len(corners))]
		lay.Rooms = append(lay.Rooms, Room{
			Name: fmt.Sprintf("outbuilding_%d", i),
			X1:   c.DX, Z1: c.DZ, X2: c.DX + 3, Z2: c.DZ + 3,
		})
		lay.Doors = append(lay.Doors, Door{X: c.DX, Z: c.DZ + 1, Facing: East})
	}
	return lay
}

func towerLayout(d Dims) Layout {
	// Square footprint, one room per floor.
	side := minInt(d.Width, d.Length)
	floors := maxInt(2, d.Height/4)
	lay := Layout{Style: StyleTower}
	for i := 0; i < floors; i++ {
		lay.Rooms = append(lay.Rooms, Room{
			Name: fmt.Sprintf("floor_%d", i),
			X1:   -side/2 + 1, Z1: -side/2 + 1, X2: side/2 - 1, Z2: side/2 - 1,
			Tier: i,
		})
		if i > 0 {
			lay.Features = append(lay.Features, Feature{Kind: FeatureStairs, X: side/2 - 2, Z: side/2 - 2, Tier: i})
		}
		for _, f := range []Facing{North, South, East, West} {
			if i == 0 && f == South {
				continue // entrance wall
			}
			lay.Windows = append(lay.Windows, windowOnWall(f, side, side, 0))
		}
	}
	lay.Doors = []Door{{X: 0, Z: -side / 2, Facing: South, Entrance: true}}
	lay.Features = append(lay.Features,
		Feature{Kind: FeatureBed, X: 0, Z: 0, Tier: floors - 1},
		Feature{Kind: FeatureStorage, X: -side/2 + 2, Z: -side/2 + 2},
	)
	return lay
}

func courtyardLayout(d Dims) Layout {
	w, l := d.Width, d.Length
	cw, cl := w/3, l/3 // open center
	lay := Layout{
		Style: StyleCourtyard,
		Rooms: []Room{
			{Name: "north_wing", X1: -w/2 + 1, Z1: cl / 2, X2: w/2 - 1, Z2: l/2 - 1},
			{Name: "south_wing", X1: -w/2 + 1, Z1: -l/2 + 1, X2: w/2 - 1, Z2: -cl / 2},
			{Name: "east_wing", X1: cw / 2, Z1: -cl / 2, X2: w/2 - 1, Z2: cl / 2},
			{Name: "west_wing", X1: -w/2 + 1, Z1: -cl / 2, X2: -cw / 2, Z2: cl / 2},
		},
		Walls: []WallRun{
			{X1: -cw / 2, Z1: -cl / 2, X2: cw / 2, Z2: -cl / 2},
			{X1: -cw / 2, Z1: cl / 2, X2: cw / 2, Z2: cl / 2},
			{X1: -cw / 2, Z1: -cl / 2, X2: -cw / 2, Z2: cl / 2},
			{X1: cw / 2, Z1: -cl / 2, X2: cw / 2, Z2: cl / 2},
		},
		Doors: []Door{
			{X: 0, Z: -l / 2, Facing: South, Entrance: true},
			{X: 0, Z: -cl / 2, Facing: South}, // into the courtyard
		},
		Windows: []WindowSpot{
			{X: -w / 3, Z: -l / 2, Facing: South},
			{X: w / 3, Z: -l / 2, Facing: South},
			{X: -w / 3, Z: l / 2, Facing: North},
			{X: w / 3, Z: l / 2, Facing: North},
			{X: -w / 2, Z: 0, Facing: East},
			{X: w / 2, Z: 0, Facing: West},
		},
		Features: []Feature{
			{Kind: FeatureWell, X: 0, Z: 0}, // courtyard centerpiece
			{Kind: FeatureTable, X: cw/2 + 1, Z: 0},
			{Kind: FeatureBed, X: 0, Z: l/2 - 2},
		},
	}
	return lay
}

func platformLayout(d Dims) Layout {
	w, l := d.Width, d.Length
	return Layout{
		Style: StylePlatform,
		Rooms: []Room{
			{Name: "deck", X1: -w/2 + 1, Z1: -l/2 + 1, X2: w/2 - 1, Z2: l/2 - 1},
			{Name: "cabin", X1: -w / 4, Z1: -l / 4, X2: w / 4, Z2: l / 4},
		},
		Walls: []WallRun{
			{X1: -w / 4, Z1: -l / 4, X2: w / 4, Z2: -l / 4},
			{X1: -w / 4, Z1: l / 4, X2: w / 4, Z2: l / 4},
			{X1: -w / 4, Z1: -l / 4, X2: -w / 4, Z2: l / 4},
			{X1: w / 4, Z1: -l / 4, X2: w / 4, Z2: l / 4},
		},
		Doors: []Door{
			{X: 0, Z: -l / 4, Facing: South, Entrance: true},
		},
		Windows: []WindowSpot{
			{X: -w / 4, Z: 0, Facing: East},
			{X: w / 4, Z: 0, Facing: West},
			{X: 0, Z: l / 4, Facing: North},
		},
		Features: []Feature{
			{Kind: FeatureBed, X: w/4 - 1, Z: l/4 - 1},
			{Kind: FeatureStorage, X: -w/4 + 1, Z: l/4 - 1},
		},
	}
}

func windowOnWall(f Facing, w, l, along int) WindowSpot {
	switch f {
	case North:
		return WindowSpot{X: along, Z: l / 2, Facing: North}
	case South:
		return WindowSpot{X: along, Z: -l / 2, Facing: South}
	case East:
		return WindowSpot{X: -w / 2, Z: along, Facing: East}
	default:
		return WindowSpot{X: w / 2, Z: along, Facing: West}
	}
}
