package sim

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/vecmath"
	"github.com/pthm-cable/wormhole/viewport"
)

// maxGridCells bounds each grid dimension; a tiny radius over a large
// environment gets coarser cells instead of a huge grid.
const maxGridCells = 1024

// spatialGrid buckets node indices by cell for radius queries.
type spatialGrid struct {
	cellSize float64
	origin   r2.Point
	cols     int
	rows     int
	cells    [][]int
}

// newSpatialGrid creates a grid covering size starting at origin.
func newSpatialGrid(size viewport.Size, origin r2.Point, cellSize float64) *spatialGrid {
	cellSize = math.Max(cellSize, math.Max(size.W, size.H)/maxGridCells)
	cols := int(size.W/cellSize) + 1
	rows := int(size.H/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}
	return &spatialGrid{
		cellSize: cellSize,
		origin:   origin,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all indices from the grid.
func (g *spatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index i at p.
func (g *spatialGrid) Insert(i int, p r2.Point) {
	col, row := g.cell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// QueryRadiusInto appends to dst the indices whose point in pts lies within
// radius of p, except exclude.
func (g *spatialGrid) QueryRadiusInto(dst []int, p r2.Point, radius float64, pts []r2.Point, exclude int) []int {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cell(p)
	radiusSq := radius * radius

	for row := max(centerRow-cellRadius, 0); row <= min(centerRow+cellRadius, g.rows-1); row++ {
		for col := max(centerCol-cellRadius, 0); col <= min(centerCol+cellRadius, g.cols-1); col++ {
			for _, j := range g.cells[row*g.cols+col] {
				if j == exclude {
					continue
				}
				if d := vecmath.Delta(pts[j], p); vecmath.Dot(d, d) <= radiusSq {
					dst = append(dst, j)
				}
			}
		}
	}
	return dst
}

// cell returns the clamped cell of p.
func (g *spatialGrid) cell(p r2.Point) (col, row int) {
	col = int((p.X - g.origin.X) / g.cellSize)
	row = int((p.Y - g.origin.Y) / g.cellSize)
	return min(max(col, 0), g.cols-1), min(max(row, 0), g.rows-1)
}
