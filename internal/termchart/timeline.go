package termchart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	pointGlyph   = '●'
	focusGlyph   = '◉'
	lineGlyph    = '·'
	maxXTicks    = 6
	maxRows      = 48
	defaultLineC = "#667eea"
)

// timelineChart plots points on a linear x axis against integer y rows and
// joins them in input order.
type timelineChart struct {
	*baseChart
}

type cell struct {
	r     rune
	style lipgloss.Style
}

func (c *timelineChart) Draw(width int) string {
	if c.destroyed {
		return ""
	}
	lines := []string{}
	if t := c.title(); t != "" {
		lines = append(lines, t)
	}
	points := c.data.Points
	if len(points) == 0 {
		lines = append(lines, emptyStyle.Render("Nothing to chart."))
		return strings.Join(lines, "\n")
	}

	yLo := int(math.Ceil(c.data.YMin))
	yHi := int(math.Floor(c.data.YMax))
	if yHi < yLo {
		yLo, yHi = yHi, yLo
	}
	if yHi-yLo+1 > maxRows {
		yLo = yHi - maxRows + 1
	}
	rows := yHi - yLo + 1

	gutter := 0
	ticks := make([]string, rows)
	for r := 0; r < rows; r++ {
		ticks[r] = c.yTick(float64(yHi - r))
		if w := lipgloss.Width(ticks[r]); w > gutter {
			gutter = w
		}
	}

	plotWidth := width - gutter - 2
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}

	xMin, xMax := 0.0, c.data.XMax
	for _, p := range points {
		if p.X < xMin {
			xMin = p.X
		}
		if p.X > xMax {
			xMax = p.X
		}
	}
	span := xMax - xMin
	if span <= 0 {
		span = 1
	}
	col := func(x float64) int {
		v := int(math.Round((x - xMin) / span * float64(plotWidth-1)))
		return clamp(v, 0, plotWidth-1)
	}
	row := func(y float64) int {
		return clamp(yHi-int(math.Round(y)), 0, rows-1)
	}

	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, plotWidth)
	}

	lineHex := c.data.Line
	if lineHex == "" {
		lineHex = defaultLineC
	}
	lineStyle := colorStyle(lineHex)
	for i := 1; i < len(points); i++ {
		c0, r0 := col(points[i-1].X), row(points[i-1].Y)
		c1, r1 := col(points[i].X), row(points[i].Y)
		steps := abs(c1 - c0)
		if d := abs(r1 - r0); d > steps {
			steps = d
		}
		for s := 1; s < steps; s++ {
			t := float64(s) / float64(steps)
			cx := c0 + int(math.Round(t*float64(c1-c0)))
			cy := r0 + int(math.Round(t*float64(r1-r0)))
			if grid[cy][cx].r == 0 {
				grid[cy][cx] = cell{r: lineGlyph, style: lineStyle}
			}
		}
	}
	for i, p := range points {
		glyph, style := pointGlyph, colorStyle(p.Color)
		if i == c.focused {
			glyph, style = focusGlyph, style.Bold(true)
		}
		grid[row(p.Y)][col(p.X)] = cell{r: glyph, style: style}
	}

	for r, cells := range grid {
		var b strings.Builder
		b.WriteString(axisStyle.Render(padLeft(ticks[r], gutter)))
		b.WriteString(axisStyle.Render(" │"))
		for _, cl := range cells {
			if cl.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(cl.style.Render(string(cl.r)))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	lines = append(lines, axisStyle.Render(strings.Repeat(" ", gutter)+" └"+strings.Repeat("─", plotWidth)))
	lines = append(lines, axisStyle.Render(strings.Repeat(" ", gutter+2)+c.xTickLine(xMin, span, plotWidth)))
	return strings.Join(lines, "\n")
}

func (c *timelineChart) yTick(v float64) string {
	if c.data.Calls.YTick == nil {
		return ""
	}
	return c.data.Calls.YTick(v)
}

// xTickLine spreads up to maxXTicks labels across the axis, skipping any
// that would overlap the previous one.
func (c *timelineChart) xTickLine(xMin, span float64, plotWidth int) string {
	format := c.data.Calls.XTick
	if format == nil {
		return ""
	}
	n := maxXTicks
	if plotWidth < 40 {
		n = 3
	}
	line := []rune(strings.Repeat(" ", plotWidth+8))
	next := 0
	for k := 0; k < n; k++ {
		frac := float64(k) / float64(n-1)
		label := []rune(format(xMin + frac*span))
		if len(label) == 0 {
			continue
		}
		pos := int(math.Round(frac * float64(plotWidth-1)))
		if k == n-1 {
			pos -= len(label) - 1
		}
		if pos < next {
			continue
		}
		if pos < 0 {
			pos = 0
		}
		copy(line[pos:], label)
		next = pos + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
