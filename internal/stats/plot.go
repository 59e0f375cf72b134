package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " ┤"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var axisLabels = [...]string{"100%", "50%", "0%"}

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
	"\x1b[32m", // green
}

// braille dot bits indexed by [row][column] inside a 2x4 cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas is a grid of braille cells, each 2 dots wide and 4 dots tall.
// Every series draws on its own layer so cells can be coloured by owner.
type canvas struct {
	width, height int
	layers        [][][]uint8
}

func newCanvas(width, height, layers int) *canvas {
	c := &canvas{width: width, height: height, layers: make([][][]uint8, layers)}
	for i := range c.layers {
		c.layers[i] = make([][]uint8, height)
		for y := range c.layers[i] {
			c.layers[i][y] = make([]uint8, width)
		}
	}
	return c
}

func (c *canvas) dot(layer, x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.layers[layer][cy][cx] |= brailleBits[y%4][x%2]
}

// line draws between two dot positions with Bresenham's algorithm.
func (c *canvas) line(layer, x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.dot(layer, x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// cell merges all layers; owner is the first layer with a dot, or -1.
func (c *canvas) cell(x, y int) (rune, int) {
	var mask uint8
	owner := -1
	for i, layer := range c.layers {
		if m := layer[y][x]; m != 0 {
			mask |= m
			if owner < 0 {
				owner = i
			}
		}
	}
	return rune(0x2800 + int(mask)), owner
}

// PlotAccuracy draws percentage series on a fixed 0-100 scale. A width of
// zero fits the plot to the terminal.
func PlotAccuracy(w io.Writer, title string, series []Series, width, height int, color bool) error {
	var drawn []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			drawn = append(drawn, s)
		}
	}
	if len(drawn) == 0 {
		return nil
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	useColor := color && os.Getenv("NO_COLOR") == ""

	c := newCanvas(width, height, len(drawn))
	dotsHigh := height*4 - 1
	for i, s := range drawn {
		values := resample(s.Values, width*2)
		prevX, prevY := -1, 0
		for x, v := range values {
			y := int(math.Round((1 - clampPercent(v)/100) * float64(dotsHigh)))
			if prevX < 0 {
				c.dot(i, x, y)
			} else {
				c.line(i, prevX, prevY, x, y)
			}
			prevX, prevY = x, y
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	labelWidth := runewidth.StringWidth(axisLabels[0])
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(axisLabelFor(y, height), labelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			ch, owner := c.cell(x, y)
			if useColor && owner >= 0 {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, legend(drawn, useColor))
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - runewidth.StringWidth(axisLabels[0]) - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		return minPlotWidth
	}
	return plotWidth
}

// TerminalWidth returns the width of stdout, or a fallback when it is not
// a terminal.
func TerminalWidth() int {
	return terminalWidth()
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func axisLabelFor(row, height int) string {
	switch {
	case row == 0:
		return axisLabels[0]
	case row == height-1:
		return axisLabels[2]
	case height > 2 && row == height/2:
		return axisLabels[1]
	default:
		return ""
	}
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "⣿ " + s.Name
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "      " + strings.Join(parts, "   ")
}

// resample stretches or averages values to exactly n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == 0 || n <= 0:
		return nil
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) > n:
		for i := range out {
			lo := i * len(values) / n
			hi := (i + 1) * len(values) / n
			if hi <= lo {
				hi = lo + 1
			}
			var sum float64
			for _, v := range values[lo:hi] {
				sum += v
			}
			out[i] = sum / float64(hi-lo)
		}
	default:
		step := float64(len(values)-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * step
			lo := int(pos)
			if lo >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(lo)
			out[i] = values[lo] + (values[lo+1]-values[lo])*frac
		}
	}
	return out
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
