package terrain

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Grid is an immutable 2-D integer field sampled over a rectangular region.
// Storage is row-major [z][x] with the origin at the region's north-west
// corner; the only accessor is At(x, z), so row/column order never leaks to
// callers. The world-data provider returns heightmap slices in exactly this
// layout.
type Grid struct {
	cols  int // x extent
	rows  int // z extent
	cells []int
}

// NewGrid copies rows into a Grid. Every row must have the same length.
func NewGrid(rows [][]int) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, fmt.Errorf("terrain: empty grid")
	}
	g := Grid{rows: len(rows), cols: len(rows[0])}
	g.cells = make([]int, 0, g.rows*g.cols)
	for z, row := range rows {
		if len(row) != g.cols {
			return Grid{}, fmt.Errorf("terrain: ragged grid: row %d has %d cells, want %d", z, len(row), g.cols)
		}
		g.cells = append(g.cells, row...)
	}
	return g, nil
}

// MustGrid is NewGrid for literals in tests and fixtures.
func MustGrid(rows [][]int) Grid {
	g, err := NewGrid(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Cols returns the x extent.
func (g Grid) Cols() int { return g.cols }

// Rows returns the z extent.
func (g Grid) Rows() int { return g.rows }

// At returns the value at horizontal offset (x, z) from the grid origin.
func (g Grid) At(x, z int) int {
	if x < 0 || x >= g.cols || z < 0 || z >= g.rows {
		panic(fmt.Sprintf("terrain: At(%d, %d) out of %dx%d grid", x, z, g.cols, g.rows))
	}
	return g.cells[z*g.cols+x]
}

// Sub copies the w x h sub-grid whose north-west cell is (x, z).
func (g Grid) Sub(x, z, w, h int) Grid {
	if x < 0 || z < 0 || w <= 0 || h <= 0 || x+w > g.cols || z+h > g.rows {
		panic(fmt.Sprintf("terrain: Sub(%d, %d, %d, %d) out of %dx%d grid", x, z, w, h, g.cols, g.rows))
	}
	sub := Grid{cols: w, rows: h, cells: make([]int, 0, w*h)}
	for dz := 0; dz < h; dz++ {
		row := (z + dz) * g.cols
		sub.cells = append(sub.cells, g.cells[row+x:row+x+w]...)
	}
	return sub
}

// Min returns the smallest cell value.
func (g Grid) Min() int {
	min := g.cells[0]
	for _, v := range g.cells {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest cell value.
func (g Grid) Max() int {
	max := g.cells[0]
	for _, v := range g.cells {
		if v > max {
			max = v
		}
	}
	return max
}

// Mean returns the average cell value.
func (g Grid) Mean() float64 {
	return stat.Mean(g.floats(), nil)
}

// StdDev returns the sample standard deviation of the cell values.
func (g Grid) StdDev() float64 {
	if len(g.cells) < 2 {
		return 0
	}
	return stat.StdDev(g.floats(), nil)
}

// Any reports whether pred holds for at least one cell.
func (g Grid) Any(pred func(v int) bool) bool {
	for _, v := range g.cells {
		if pred(v) {
			return true
		}
	}
	return false
}

func (g Grid) floats() []float64 {
	fs := make([]float64, len(g.cells))
	for i, v := range g.cells {
		fs[i] = float64(v)
	}
	return fs
}

// WaterMask derives the water-column mask from two heightmap layers: a cell
// is positive where the motion-blocking surface sits above the ocean floor,
// i.e. where a water column covers bare ground.
func WaterMask(motionBlocking, oceanFloor Grid) (Grid, error) {
	if motionBlocking.cols != oceanFloor.cols || motionBlocking.rows != oceanFloor.rows {
		return Grid{}, fmt.Errorf("terrain: water mask: layer shapes differ (%dx%d vs %dx%d)",
			motionBlocking.cols, motionBlocking.rows, oceanFloor.cols, oceanFloor.rows)
	}
	m := Grid{cols: motionBlocking.cols, rows: motionBlocking.rows, cells: make([]int, len(motionBlocking.cells))}
	for i := range m.cells {
		m.cells[i] = motionBlocking.cells[i] - oceanFloor.cells[i]
	}
	return m, nil
}
