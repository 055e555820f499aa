// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/koch/internal/score"
)

// Curve is a named accuracy series in percent.
type Curve struct {
	Name   string
	Values []float64
}

type dash struct {
	name   string
	period int
	on     int
}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	return x%d.period < d.on
}

const (
	defaultPlotHeight     = 10
	minPlotWidth          = 10
	axisLabelWidth        = 4
	axisSeparator         = " │ "
	fixedScaleNote        = "Fixed scale 0-100%."
	colorReset            = "\x1b[0m"
	masteryColor          = "\x1b[32m"
	fallbackTerminalWidth = 80
	dotsPerCellX          = 2
	dotsPerCellY          = 4
)

var curveDashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dashdot", period: 8, on: 3},
}

var masteryDash = dash{name: "dotted", period: 2, on: 1}

var curveColors = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[34m"}

// brailleBits maps a dot position inside a cell to its bit in U+2800.
var brailleBits = [dotsPerCellX][dotsPerCellY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// canvas is a braille grid with one dot layer per curve and a final layer
// for the mastery line.
type canvas struct {
	width  int
	height int
	layers [][][]uint8
}

func newCanvas(width, height, layers int) *canvas {
	c := &canvas{width: width, height: height, layers: make([][][]uint8, layers)}
	for i := range c.layers {
		rows := make([][]uint8, height)
		for y := range rows {
			rows[y] = make([]uint8, width)
		}
		c.layers[i] = rows
	}
	return c
}

func (c *canvas) dotRows() int { return c.height * dotsPerCellY }

func (c *canvas) dotCols() int { return c.width * dotsPerCellX }

func (c *canvas) set(layer, x, y int) {
	if x < 0 || y < 0 || x >= c.dotCols() || y >= c.dotRows() {
		return
	}
	c.layers[layer][y/dotsPerCellY][x/dotsPerCellX] |= brailleBits[x%dotsPerCellX][y%dotsPerCellY]
}

// drawCurve spreads values over every dot column and joins them with lines.
func (c *canvas) drawCurve(layer int, values []float64, d dash) {
	points := fitToWidth(values, c.dotCols())
	prevX, prevY := -1, -1
	for x, v := range points {
		y := percentRow(v, c.dotRows())
		if prevX < 0 {
			if d.draws(x) {
				c.set(layer, x, y)
			}
		} else {
			bresenham(prevX, prevY, x, y, func(px, py int) {
				if d.draws(px) {
					c.set(layer, px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

func (c *canvas) drawThreshold(layer int, pct float64, d dash) {
	y := percentRow(pct, c.dotRows())
	for x := 0; x < c.dotCols(); x++ {
		if d.draws(x) {
			c.set(layer, x, y)
		}
	}
}

// cell returns the combined mask at a cell and the lowest layer that set it.
func (c *canvas) cell(x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, layer := range c.layers {
		bits := layer[y][x]
		if bits == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= bits
	}
	return mask, owner
}

// percentRow maps a percentage to a dot row, 100 at the top.
func percentRow(v float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	v = math.Max(0, math.Min(100, v))
	return int(math.Round((1 - v/100) * float64(rows-1)))
}

// PlotAccuracy renders accuracy curves on a fixed 0-100 scale with the
// mastery threshold drawn as a horizontal line.
func PlotAccuracy(w io.Writer, title string, curves []Curve, width, height int, forceColor bool) error {
	kept := make([]Curve, 0, len(curves))
	for _, c := range curves {
		if len(c.Values) > 0 {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	cv := newCanvas(width, height, len(kept)+1)
	for i, c := range kept {
		cv.drawCurve(i, c.Values, curveDashes[i%len(curveDashes)])
	}
	masteryLayer := len(kept)
	cv.drawThreshold(masteryLayer, score.MasteryThreshold, masteryDash)

	useColor := shouldUseColor(w, forceColor)
	colorOf := func(layer int) string {
		if layer == masteryLayer {
			return masteryColor
		}
		return curveColors[layer%len(curveColors)]
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	b.WriteString(fixedScaleNote)
	b.WriteByte('\n')
	labels := axisLabels(cv)
	for y := 0; y < height; y++ {
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := cv.cell(x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				b.WriteString(colorOf(owner))
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}

	entries := make([]string, 0, len(kept)+1)
	for i, c := range kept {
		entries = append(entries, legendEntry(c.Name, curveDashes[i%len(curveDashes)], useColor, colorOf(i)))
	}
	masteryName := fmt.Sprintf("Mastery %d%%", score.MasteryThreshold)
	entries = append(entries, legendEntry(masteryName, masteryDash, useColor, masteryColor))
	b.WriteString("Legend: ")
	b.WriteString(strings.Join(entries, "  "))
	b.WriteString("\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// axisLabels marks the top, the mastery line, the midpoint and the bottom.
func axisLabels(cv *canvas) []string {
	labels := make([]string, cv.height)
	mark := func(pct int) {
		row := percentRow(float64(pct), cv.dotRows()) / dotsPerCellY
		if labels[row] == "" {
			labels[row] = fmt.Sprintf("%d%%", pct)
		}
	}
	mark(100)
	mark(0)
	mark(score.MasteryThreshold)
	mark(50)
	return labels
}

func legendEntry(name string, d dash, useColor bool, color string) string {
	label := fmt.Sprintf("%c %s (%s)", rune(0x2801), name, d.name)
	if useColor {
		return color + label + colorReset
	}
	return label
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisLabelWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTerminalWidth
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// fitToWidth averages buckets when there are more values than columns and
// interpolates linearly when there are fewer.
func fitToWidth(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			lo := i * n / width
			hi := max((i+1)*n/width, lo+1)
			var sum float64
			for _, v := range values[lo:hi] {
				sum += v
			}
			out[i] = sum / float64(hi-lo)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(n-1) / float64(width-1)
		for i := range out {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx] + (values[idx+1]-values[idx])*frac
		}
	}
	return out
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
