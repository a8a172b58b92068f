package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bridgeviz/internal/colormap"
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

const blankCell = 0x2800

// Canvas is a Braille pixel canvas with one color per character cell. Its
// size in sub-pixels is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colormap.RGB
	painted       [][]bool
	text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Colors:  make([][]colormap.RGB, h),
		painted: make([][]bool, h),
		text:    make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colormap.RGB, w)
		c.painted[i] = make([]bool, w)
		c.text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in sub-pixels.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets a pixel at sub-pixel (x, y) and paints its cell with col.
func (c *Canvas) Set(x, y int, col colormap.RGB) {
	row, cl, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cl] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cl] = col
	c.painted[row][cl] = true
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	row, cl, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cl] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][cl] == blankCell {
		c.painted[row][cl] = false
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blankCell
			c.painted[i][j] = false
			c.text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colormap.RGB) {
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
		c.Set(x0, y0, col)
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

// FillTriangle fills the triangle with corners a, b, c in sub-pixels.
func (c *Canvas) FillTriangle(a, b, d [2]int, col colormap.RGB) {
	minX := max(min(a[0], b[0], d[0]), 0)
	maxX := min(max(a[0], b[0], d[0]), c.SubWidth()-1)
	minY := max(min(a[1], b[1], d[1]), 0)
	maxY := min(max(a[1], b[1], d[1]), c.SubHeight()-1)

	edge := func(p, q [2]int, x, y int) int {
		return (q[0]-p[0])*(y-p[1]) - (q[1]-p[1])*(x-p[0])
	}
	area := edge(a, b, d[0], d[1])
	if area == 0 {
		c.DrawLine(a[0], a[1], b[0], b[1], col)
		c.DrawLine(b[0], b[1], d[0], d[1], col)
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0, w1, w2 := edge(b, d, x, y), edge(d, a, x, y), edge(a, b, x, y)
			if area > 0 && w0 >= 0 && w1 >= 0 && w2 >= 0 ||
				area < 0 && w0 <= 0 && w1 <= 0 && w2 <= 0 {
				c.Set(x, y, col)
			}
		}
	}
}

// Label writes text into character cells starting at the cell holding
// sub-pixel (x, y). Text overrides dots in the cells it covers.
func (c *Canvas) Label(x, y int, s string, col colormap.RGB) {
	row, cl, ok := c.cell(x, y)
	if !ok {
		return
	}
	for _, r := range s {
		if cl >= c.Width {
			return
		}
		c.text[row][cl] = r
		c.Colors[row][cl] = col
		c.painted[row][cl] = true
		cl++
	}
}

func (c *Canvas) glyph(row, col int) rune {
	if t := c.text[row][col]; t != 0 {
		return t
	}
	return c.Grid[row][col]
}

// String renders the canvas without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			b.WriteRune(c.glyph(row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with each run of equally colored cells styled
// through lipgloss.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := range c.Grid {
		var run strings.Builder
		var runColor colormap.RGB
		runPainted := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runPainted {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor.Hex())).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for col := range c.Grid[row] {
			p, clr := c.painted[row][col], c.Colors[row][col]
			if p != runPainted || (p && clr != runColor) {
				flush()
				runPainted, runColor = p, clr
			}
			run.WriteRune(c.glyph(row, col))
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
