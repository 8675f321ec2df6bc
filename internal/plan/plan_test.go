package plan

import (
	"math/rand"
	"testing"

	"sitecraft.dev/internal/palette"
	"sitecraft.dev/internal/terrain"
)

func flatGrid(cols, rows, v int) terrain.Grid {
	cells := make([][]int, rows)
	for z := range cells {
		cells[z] = make([]int, cols)
		for x := range cells[z] {
			cells[z][x] = v
		}
	}
	return terrain.MustGrid(cells)
}

func TestChooseStyle_Deterministic(t *testing.T) {
	site := terrain.Site{Kind: terrain.SiteFlat, X: 20, Z: 20, Y: 64}
	a := ChooseStyle(rand.New(rand.NewSource(7)), site, palette.ThemePlains)
	b := ChooseStyle(rand.New(rand.NewSource(7)), site, palette.ThemePlains)
	if a != b {
		t.Fatalf("same seed gave different styles: %s vs %s", a, b)
	}
}

func TestChooseStyle_ShallowWaterFavorsPlatform(t *testing.T) {
	site := terrain.Site{Kind: terrain.SiteShallowWater, X: 20, Z: 20, Y: 62}
	platforms := 0
	const n = 500
	for i := 0; i < n; i++ {
		if ChooseStyle(rand.New(rand.NewSource(int64(i))), site, palette.ThemeSwamp) == StylePlatform {
			platforms++
		}
	}
	// Platform weight is 5+25+15=45 of 100; expect it to dominate clearly.
	if platforms < n/4 {
		t.Fatalf("platform chosen only %d/%d times on shallow water", platforms, n)
	}
}

func TestAdapt_StiltsOnShallowWater(t *testing.T) {
	heights := flatGrid(40, 40, 60)
	water := flatGrid(40, 40, 3)
	site := terrain.Site{Kind: terrain.SiteShallowWater, X: 20, Z: 20, Y: 60, MinY: 60, MaxY: 60}

	a := Adapt(rand.New(rand.NewSource(1)), heights, water, site, Dims{Width: 9, Length: 9, Height: 5}, StylePlatform)
	if a.Mode != FoundationStilts {
		t.Fatalf("expected stilts, got %s", a.Mode)
	}
	if a.FoundationY < 62 || a.FoundationY > 64 {
		t.Fatalf("stilt deck should sit 2-4 above water ground, got %d", a.FoundationY)
	}
}

func TestAdapt_SplitLevelTiers(t *testing.T) {
	// Slope along x so the hillside has real spread.
	rows := make([][]int, 40)
	for z := range rows {
		rows[z] = make([]int, 40)
		for x := range rows[z] {
			rows[z][x] = 60 + x/3
		}
	}
	heights := terrain.MustGrid(rows)
	water := flatGrid(40, 40, 0)
	site := terrain.Site{
		Kind: terrain.SiteHillside, X: 20, Z: 20, Y: 66,
		HeightVar: 3.2, MinY: 63, MaxY: 70,
	}

	a := Adapt(rand.New(rand.NewSource(1)), heights, water, site, Dims{Width: 11, Length: 9, Height: 5}, StyleSplitLevel)
	if a.Mode != FoundationEmbedded {
		t.Fatalf("expected embedded foundation, got %s", a.Mode)
	}
	if a.Tiers < 2 || len(a.TierHeights) != a.Tiers {
		t.Fatalf("bad tiers: %d heights %v", a.Tiers, a.TierHeights)
	}
	for i := 1; i < len(a.TierHeights); i++ {
		if a.TierHeights[i] < a.TierHeights[i-1] {
			t.Fatalf("tier heights must not descend: %v", a.TierHeights)
		}
	}
}

func TestAdapt_TowerSnapsToPeak(t *testing.T) {
	rows := make([][]int, 40)
	for z := range rows {
		rows[z] = make([]int, 40)
		for x := range rows[z] {
			rows[z][x] = 70
		}
	}
	rows[22][23] = 82 // a peak near the site center
	heights := terrain.MustGrid(rows)
	water := flatGrid(40, 40, 0)
	site := terrain.Site{Kind: terrain.SiteElevated, X: 20, Z: 20, Y: 70, MinY: 70, MaxY: 82}

	a := Adapt(rand.New(rand.NewSource(1)), heights, water, site, Dims{Width: 7, Length: 7, Height: 12}, StyleTower)
	if a.Mode != FoundationEmbedded {
		t.Fatalf("expected embedded foundation, got %s", a.Mode)
	}
	if a.BaseY != 82 {
		t.Fatalf("tower base should sit on the peak (82), got %d", a.BaseY)
	}
	if a.CenterOffset.DX != 3 || a.CenterOffset.DZ != 2 {
		t.Fatalf("unexpected center offset: %+v", a.CenterOffset)
	}
}

func TestAdaptationMap_SignsAndBounds(t *testing.T) {
	rows := [][]int{
		{60, 60, 60, 60, 60, 60, 60, 60, 60, 60},
		{60, 60, 60, 60, 60, 60, 60, 60, 60, 60},
		{60, 60, 60, 60, 62, 62, 60, 60, 60, 60},
		{60, 60, 60, 60, 62, 62, 60, 60, 60, 60},
		{60, 60, 60, 60, 58, 58, 60, 60, 60, 60},
		{60, 60, 60, 60, 58, 58, 60, 60, 60, 60},
		{60, 60, 60, 60, 60, 60, 60, 60, 60, 60},
		{60, 60, 60, 60, 60, 60, 60, 60, 60, 60},
		{60, 60, 60, 60, 60, 60, 60, 60, 60, 60},
		{60, 60, 60, 60, 60, 60, 60, 60, 60, 60},
	}
	heights := terrain.MustGrid(rows)

	adj := AdjustmentMap(heights, 5, 5, Dims{Width: 3, Length: 3}, 60)
	// High ground needs clearing (negative), low ground needs fill (positive).
	if adj[Offset{DX: -1, DZ: -3}] != -2 {
		t.Fatalf("cell above target should need clearing: %d", adj[Offset{DX: -1, DZ: -3}])
	}
	if adj[Offset{DX: -1, DZ: -1}] != 2 {
		t.Fatalf("cell below target should need fill: %d", adj[Offset{DX: -1, DZ: -1}])
	}
	for off := range adj {
		x, z := 5+off.DX, 5+off.DZ
		if x < 0 || x >= 10 || z < 0 || z >= 10 {
			t.Fatalf("offset %+v escapes the grid", off)
		}
	}
}

func TestNewLayout_EveryStyleHasEntrance(t *testing.T) {
	d := Dims{Width: 13, Length: 15, Height: 6}
	for s := StyleCottage; s <= StylePlatform; s++ {
		lay := NewLayout(rand.New(rand.NewSource(3)), d, s, 3)
		if lay.Style != s {
			t.Fatalf("%s: layout carries wrong style %s", s, lay.Style)
		}
		if len(lay.Rooms) == 0 {
			t.Fatalf("%s: no rooms", s)
		}
		if _, ok := lay.Entrance(); !ok {
			t.Fatalf("%s: no entrance door", s)
		}
		for _, room := range lay.Rooms {
			if room.X1 > room.X2 || room.Z1 > room.Z2 {
				t.Fatalf("%s: degenerate room %+v", s, room)
			}
			if room.X1 < -d.Width/2 || room.X2 > d.Width/2 || room.Z1 < -d.Length/2 || room.Z2 > d.Length/2 {
				t.Fatalf("%s: room %+v escapes footprint", s, room)
			}
		}
	}
}

func TestNewLayout_CottageRoomsMatchReference(t *testing.T) {
	d := Dims{Width: 12, Length: 16, Height: 5}
	lay := NewLayout(rand.New(rand.NewSource(1)), d, StyleCottage, 1)
	if len(lay.Rooms) != 3 {
		t.Fatalf("cottage should have 3 rooms, got %d", len(lay.Rooms))
	}
	if lay.Rooms[0].Name != "main_room" {
		t.Fatalf("first room should be main_room, got %s", lay.Rooms[0].Name)
	}
	ent, _ := lay.Entrance()
	if ent.X != -d.Width/2 || ent.Z != 0 || ent.Facing != East {
		t.Fatalf("entrance should be mid west wall facing east, got %+v", ent)
	}
}
