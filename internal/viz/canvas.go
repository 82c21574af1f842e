package viz

import (
	"math"
	"strings"

	"github.com/san-kum/synapse/internal/render"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// bayer is a 4x4 ordered dither matrix normalised to (0, 1).
var bayer = [4][4]float64{
	{0.5 / 16, 8.5 / 16, 2.5 / 16, 10.5 / 16},
	{12.5 / 16, 4.5 / 16, 14.5 / 16, 6.5 / 16},
	{3.5 / 16, 11.5 / 16, 1.5 / 16, 9.5 / 16},
	{15.5 / 16, 7.5 / 16, 13.5 / 16, 5.5 / 16},
}

// Canvas is a braille surface. Its device pixels are braille dots, so a
// Width×Height cell canvas is (2·Width)×(4·Height) pixels. Translucency
// is approximated with ordered dithering.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

var _ render.Surface = (*Canvas)(nil)

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid for w×h cells.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(0, w), max(0, h)
	c.Grid = make([][]rune, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, c.Width)
	}
	c.Clear()
}

func (c *Canvas) Size() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// plot lights (x, y) if alpha beats the dither threshold there.
func (c *Canvas) plot(x, y int, alpha float64) {
	if alpha <= 0 || x < 0 || y < 0 {
		return
	}
	if alpha >= 1 || alpha > bayer[y%4][x%4] {
		c.Set(x, y)
	}
}

// DrawLine draws a solid line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y1, 1)
}

func (c *Canvas) line(x0, y0, x1, y1 int, alpha float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.plot(x0, y0, alpha)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1 float64, s render.Stroke) {
	c.line(round(x0), round(y0), round(x1), round(y1), s.Alpha)
}

// FillCircle draws a dithered disc and, for a positive glow, a halo
// fading out over the glow radius. Any visible circle lights at least
// its centre dot.
func (c *Canvas) FillCircle(x, y, r float64, f render.Fill) {
	outer := r + f.Glow
	x0, x1 := int(math.Floor(x-outer)), int(math.Ceil(x+outer))
	y0, y1 := int(math.Floor(y-outer)), int(math.Ceil(y+outer))
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			d := math.Hypot(float64(px)+0.5-x, float64(py)+0.5-y)
			switch {
			case d <= r:
				c.plot(px, py, f.Alpha)
			case f.Glow > 0 && d <= outer:
				c.plot(px, py, f.Alpha*0.5*(1-(d-r)/f.Glow))
			}
		}
	}
	if f.Alpha > 0 {
		c.Set(int(math.Floor(x)), int(math.Floor(y)))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
