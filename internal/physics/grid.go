package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection on a bounded
// playfield. Rects are inserted by top-left corner and index, then candidates for
// a query rect are found in its 3x3 cell neighborhood.
//
// Cell size must be >= the largest width or height of any inserted or queried rect
// so that every overlapping pair lands in neighboring cells.
type SpatialGrid struct {
	originX     float64
	originY     float64
	invCellSize float64 // 1 / cellSize
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of rects anchored within a cell.
// The slice is reused between ticks (reset to [:0]).
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a grid covering area, split into cells of cellSize.
// Positions outside area clamp into the edge cells.
func NewSpatialGrid(area Rect, cellSize float64) *SpatialGrid {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = 1
	}
	area = area.Normalized()
	cols := int(math.Ceil(area.W / cellSize))
	rows := int(math.Ceil(area.H / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		originX:     area.X,
		originY:     area.Y,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) anchored at r's top-left corner.
func (g *SpatialGrid) Insert(r Rect, index int) {
	col, row := g.posToCell(r.X, r.Y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood around
// r's top-left corner. Items are visited cell by cell, not in index order.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(r Rect, fn func(index int) bool) {
	col, row := g.posToCell(r.X, r.Y)

	for dr := -1; dr <= 1; dr++ {
		rr := row + dr
		if rr < 0 || rr >= g.rows {
			continue
		}
		rowOffset := rr * g.cols

		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts playfield coordinates to cell coordinates, clamped to the grid.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	fx := (x - g.originX) * g.invCellSize
	fy := (y - g.originY) * g.invCellSize
	if math.IsNaN(fx) {
		fx = 0
	}
	if math.IsNaN(fy) {
		fy = 0
	}

	col = int(math.Floor(Clamp(fx, 0, float64(g.cols-1))))
	row = int(math.Floor(Clamp(fy, 0, float64(g.rows-1))))
	return col, row
}
