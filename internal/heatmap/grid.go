package heatmap

// Cell accumulates the points that landed in one grid bucket.
type Cell struct {
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// Grid is a fixed-size bucketing of points. Cells are stored row-major.
type Grid struct {
	Cols  int    `json:"cols"`
	Rows  int    `json:"rows"`
	Cells []Cell `json:"cells"`
}

// BucketGrid buckets points into a cols x rows grid, summing count and weight
// per cell. Each point is normalized against its own viewport; points with an
// unusable viewport are skipped.
func BucketGrid(points []Point, cols, rows int) Grid {
	if cols <= 0 {
		cols = 16
	}
	if rows <= 0 {
		rows = 9
	}
	g := Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}

	for _, p := range points {
		if p.Viewport.Width <= 0 || p.Viewport.Height <= 0 {
			continue
		}
		col := p.X * cols / p.Viewport.Width
		row := p.Y * rows / p.Viewport.Height
		if col < 0 || row < 0 {
			continue
		}
		// cursor exactly on the right/bottom edge belongs to the last cell
		if col >= cols {
			col = cols - 1
		}
		if row >= rows {
			row = rows - 1
		}
		cell := &g.Cells[row*cols+col]
		cell.Count++
		weight := p.Weight
		if weight == 0 {
			weight = MoveWeight
		}
		cell.Weight += weight
	}
	return g
}

// At returns the cell at (col, row).
func (g Grid) At(col, row int) Cell {
	return g.Cells[row*g.Cols+col]
}

// MaxWeight reports the heaviest cell's weight.
func (g Grid) MaxWeight() float64 {
	var max float64
	for _, c := range g.Cells {
		if c.Weight > max {
			max = c.Weight
		}
	}
	return max
}

var regionNames = [3][3]string{
	{"top-left", "top-center", "top-right"},
	{"middle-left", "center", "middle-right"},
	{"bottom-left", "bottom-center", "bottom-right"},
}

// HottestRegion names the 3x3 quadrant containing the highest-weight cell.
// An empty grid has no hot region.
func (g Grid) HottestRegion() string {
	best := -1
	var bestWeight float64
	for i, c := range g.Cells {
		if c.Weight > bestWeight {
			bestWeight = c.Weight
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	col := best % g.Cols
	row := best / g.Cols
	v := row * 3 / g.Rows
	h := col * 3 / g.Cols
	return regionNames[v][h]
}
