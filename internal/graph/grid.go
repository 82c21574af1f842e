package graph

import "github.com/san-kum/synapse/internal/field"

const minGridCells = 4096

// grid buckets particle indices into square cells one connection radius
// wide, so only particles in the same or adjacent cells can be linked.
type grid struct {
	cols, rows int
	size       float64
	cells      [][]int
}

// build fills the grid. It reports false when bucketing would not pay
// off and the caller should fall back to a pairwise scan.
func (gr *grid) build(ps []field.Particle, width, height, size float64) bool {
	if size <= 0 || width <= 0 || height <= 0 {
		return false
	}
	cols := int(width/size) + 1
	rows := int(height/size) + 1
	if cols < 3 && rows < 3 {
		return false
	}
	if cols*rows > max(minGridCells, 4*len(ps)) {
		return false
	}

	gr.cols, gr.rows, gr.size = cols, rows, size
	n := cols * rows
	if cap(gr.cells) < n {
		gr.cells = make([][]int, n)
	}
	gr.cells = gr.cells[:n]
	for i := range gr.cells {
		gr.cells[i] = gr.cells[i][:0]
	}
	for i := range ps {
		c := gr.index(gr.coord(ps[i].X, cols), gr.coord(ps[i].Y, rows))
		gr.cells[c] = append(gr.cells[c], i)
	}
	return true
}

func (gr *grid) coord(v float64, limit int) int {
	c := int(v / gr.size)
	if c < 0 {
		return 0
	}
	if c >= limit {
		return limit - 1
	}
	return c
}

func (gr *grid) index(cx, cy int) int { return cy*gr.cols + cx }

// halfNeighbourhood visits each unordered pair of adjacent cells once.
var halfNeighbourhood = [4][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// pairs calls fn once for every unordered pair (a < b) sharing or
// bordering a cell.
func (gr *grid) pairs(fn func(a, b int)) {
	for cy := 0; cy < gr.rows; cy++ {
		for cx := 0; cx < gr.cols; cx++ {
			cell := gr.cells[gr.index(cx, cy)]
			for i := 0; i < len(cell); i++ {
				for j := i + 1; j < len(cell); j++ {
					emit(cell[i], cell[j], fn)
				}
			}
			for _, d := range halfNeighbourhood {
				nx, ny := cx+d[0], cy+d[1]
				if nx < 0 || nx >= gr.cols || ny >= gr.rows {
					continue
				}
				other := gr.cells[gr.index(nx, ny)]
				for _, a := range cell {
					for _, b := range other {
						emit(a, b, fn)
					}
				}
			}
		}
	}
}

func emit(a, b int, fn func(a, b int)) {
	if a > b {
		a, b = b, a
	}
	fn(a, b)
}

func naivePairs(n int, fn func(a, b int)) {
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			fn(a, b)
		}
	}
}
