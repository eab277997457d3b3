// Package termchart draws chart.Dataset values as styled terminal text.
package termchart

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/emotionscope/internal/chart"
)

const (
	minPlotWidth = 12
	fallbackHex  = "#999999"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	axisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	focusedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
)

// Library creates terminal charts and counts the ones not yet destroyed.
type Library struct {
	mu   sync.Mutex
	live map[chart.Kind]int
}

// New returns an empty Library.
func New() *Library {
	return &Library{live: map[chart.Kind]int{}}
}

// NewChart implements chart.Library.
func (l *Library) NewChart(kind chart.Kind, data chart.Dataset) (chart.Chart, error) {
	base := &baseChart{lib: l, kind: kind, data: copyDataset(data), focused: -1}
	var c chart.Chart
	switch kind {
	case chart.KindBreakdown:
		c = &breakdownChart{baseChart: base}
	case chart.KindTimeline:
		c = &timelineChart{baseChart: base}
	default:
		return nil, fmt.Errorf("termchart: %w: %q", chart.ErrUnsupportedKind, kind)
	}
	l.mu.Lock()
	l.live[kind]++
	l.mu.Unlock()
	return c, nil
}

// Live reports how many charts of kind have been created and not destroyed.
func (l *Library) Live(kind chart.Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.live[kind]
}

func (l *Library) release(kind chart.Kind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.live[kind] > 0 {
		l.live[kind]--
	}
}

type baseChart struct {
	lib       *Library
	kind      chart.Kind
	data      chart.Dataset
	focused   int
	destroyed bool
}

func (c *baseChart) Kind() chart.Kind { return c.kind }

func (c *baseChart) Destroyed() bool { return c.destroyed }

func (c *baseChart) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.data = chart.Dataset{}
	c.lib.release(c.kind)
}

func (c *baseChart) Focus(i int) ([]string, bool) {
	if c.destroyed || i < 0 || i >= len(c.data.Points) {
		return nil, false
	}
	c.focused = i
	if c.data.Calls.Tooltip != nil {
		return c.data.Calls.Tooltip(i), true
	}
	return []string{c.label(i)}, true
}

func (c *baseChart) label(i int) string {
	if c.data.Calls.Label != nil {
		return c.data.Calls.Label(i)
	}
	return c.data.Points[i].Label
}

func (c *baseChart) title() string {
	if c.data.Title == "" {
		return ""
	}
	return titleStyle.Render(c.data.Title)
}

func colorStyle(hex string) lipgloss.Style {
	if hex == "" {
		hex = fallbackHex
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

func copyDataset(d chart.Dataset) chart.Dataset {
	d.Points = append([]chart.Point(nil), d.Points...)
	return d
}
