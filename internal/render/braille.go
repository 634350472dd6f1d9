package render

import (
	"math"
	"strings"
)

// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty); dot n sets bit n-1.
const brailleBase = '⠀'

// brailleDots maps [row][col] inside a cell to the bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// canvas is a dot grid backed by braille cells.
type canvas struct {
	cols, rows int
	cells      [][]rune
}

func newCanvas(cols, rows int) *canvas {
	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = make([]rune, cols)
		for j := range cells[i] {
			cells[i][j] = brailleBase
		}
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

// dotWidth and dotHeight are the canvas size in dots.
func (c *canvas) dotWidth() int  { return c.cols * 2 }
func (c *canvas) dotHeight() int { return c.rows * 4 }

// set turns on the dot at (x, y), y growing downwards. Out of range dots are
// ignored so callers can draw partially visible segments.
func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.dotWidth() || y >= c.dotHeight() {
		return
	}
	c.cells[y/4][x/2] |= rune(1) << brailleDots[y%4][x%2]
}

// line draws a segment with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// marker draws a small vertical tick centered on (x, y).
func (c *canvas) marker(x, y int) {
	c.set(x, y-1)
	c.set(x, y)
	c.set(x, y+1)
}

func (c *canvas) lines() []string {
	out := make([]string, c.rows)
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

func (c *canvas) String() string {
	return strings.Join(c.lines(), "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// finiteBounds returns the min and max of the finite values in ys whose x
// index is selected by keep. ok is false when there are none.
func finiteBounds(ys []float64, keep func(int) bool) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, v := range ys {
		if math.IsNaN(v) || math.IsInf(v, 0) || !keep(i) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	if lo == hi {
		// Flat series sit in the middle of the plot.
		pad := math.Max(math.Abs(lo)*0.1, 1)
		lo, hi = lo-pad, hi+pad
	}
	return lo, hi, true
}
