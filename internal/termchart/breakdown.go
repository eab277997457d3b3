package termchart

import (
	"strings"

	"github.com/csheth/emotionscope/internal/chart"
)

// breakdownChart is the terminal stand-in for a doughnut chart: one
// proportional bar split by value, followed by a legend.
type breakdownChart struct {
	*baseChart
}

func (c *breakdownChart) Draw(width int) string {
	if c.destroyed {
		return ""
	}
	lines := []string{}
	if t := c.title(); t != "" {
		lines = append(lines, t)
	}
	points := c.data.Points
	total := 0.0
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	if len(points) == 0 || total == 0 {
		lines = append(lines, emptyStyle.Render("Nothing to chart."))
		return strings.Join(lines, "\n")
	}

	barWidth := width - 2
	if barWidth < minPlotWidth {
		barWidth = minPlotWidth
	}
	cells := apportion(points, total, barWidth)

	var bar strings.Builder
	for i, p := range points {
		if cells[i] == 0 {
			continue
		}
		glyph := "█"
		style := colorStyle(p.Color)
		if i == c.focused {
			glyph = "▓"
		}
		bar.WriteString(style.Render(strings.Repeat(glyph, cells[i])))
	}
	lines = append(lines, bar.String())

	for i, p := range points {
		marker := colorStyle(p.Color).Render("■")
		text := c.label(i)
		if i == c.focused {
			text = focusedStyle.Render(text)
		}
		lines = append(lines, marker+" "+text)
	}
	return strings.Join(lines, "\n")
}

// apportion splits width cells by value using largest remainders so the
// segments always fill the bar exactly.
func apportion(points []chart.Point, total float64, width int) []int {
	cells := make([]int, len(points))
	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 0, len(points))
	used := 0
	for i, p := range points {
		if p.Value <= 0 {
			continue
		}
		exact := p.Value / total * float64(width)
		cells[i] = int(exact)
		used += cells[i]
		rems = append(rems, rem{idx: i, frac: exact - float64(cells[i])})
	}
	for left := width - used; left > 0 && len(rems) > 0; left-- {
		best := 0
		for j := range rems {
			if rems[j].frac > rems[best].frac {
				best = j
			}
		}
		cells[rems[best].idx]++
		rems[best].frac = -1
	}
	return cells
}
