package game

// SpatialCellSize is ~2x the projectile hit radius
const SpatialCellSize = 80.0

// SpatialGrid is a uniform grid over the XZ plane for broad-phase queries.
// It covers [-extent, extent] on both axes; positions outside clamp to the
// border cells. Cells hold roster indices.
type SpatialGrid struct {
	cellSize float64
	extent   float64
	cols     int
	cells    [][]int
}

// NewSpatialGrid creates a grid covering [-extent, extent]
func NewSpatialGrid(extent, cellSize float64) *SpatialGrid {
	cols := int(2*extent/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	return &SpatialGrid{
		cellSize: cellSize,
		extent:   extent,
		cols:     cols,
		cells:    make([][]int, cols*cols),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) col(v float64) int {
	c := int((v + g.extent) / g.cellSize)
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

// Insert adds an index at the given position
func (g *SpatialGrid) Insert(x, z float64, idx int) {
	i := g.col(z)*g.cols + g.col(x)
	g.cells[i] = append(g.cells[i], idx)
}

// QueryBuf appends indices in cells overlapping the square around (x,z)
// to buf and returns the extended slice
func (g *SpatialGrid) QueryBuf(x, z, radius float64, buf []int) []int {
	minCX, maxCX := g.col(x-radius), g.col(x+radius)
	minCZ, maxCZ := g.col(z-radius), g.col(z+radius)
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cz*g.cols+cx]...)
		}
	}
	return buf
}
