// Package render turns a report.View into chart datasets and text panels.
// The Adapter is the only owner of chart handles: it keeps at most one live
// chart per kind and destroys the previous one before installing a new one.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/csheth/emotionscope/internal/analysis"
	"github.com/csheth/emotionscope/internal/chart"
	"github.com/csheth/emotionscope/internal/emotion"
	"github.com/csheth/emotionscope/internal/report"
)

const timelineLineColor = "#667eea"

// Options control one render pass.
type Options struct {
	Width int
	// Focus is the timeline point whose tooltip is shown; negative hides it.
	Focus int
}

// Frame holds the rendered panels of one analysis.
type Frame struct {
	Stats     string
	Breakdown string
	Timeline  string
	Tooltip   []string
	List      string
	Cards     string
}

// Adapter binds views to a chart library.
type Adapter struct {
	lib    chart.Library
	scale  *emotion.Scale
	charts map[chart.Kind]chart.Chart
}

// New returns an Adapter holding no charts.
func New(lib chart.Library, scale *emotion.Scale) *Adapter {
	return &Adapter{lib: lib, scale: scale, charts: map[chart.Kind]chart.Chart{}}
}

// Replace destroys the chart currently held for kind, then creates a new one
// from data. If creation fails the slot stays empty.
func (a *Adapter) Replace(kind chart.Kind, data chart.Dataset) (chart.Chart, error) {
	if old, ok := a.charts[kind]; ok {
		old.Destroy()
		delete(a.charts, kind)
	}
	c, err := a.lib.NewChart(kind, data)
	if err != nil {
		return nil, fmt.Errorf("create %s chart: %w", kind, err)
	}
	a.charts[kind] = c
	return c, nil
}

// Chart returns the live chart of kind, if any.
func (a *Adapter) Chart(kind chart.Kind) (chart.Chart, bool) {
	c, ok := a.charts[kind]
	return c, ok
}

// Close destroys every held chart.
func (a *Adapter) Close() {
	for kind, c := range a.charts {
		c.Destroy()
		delete(a.charts, kind)
	}
}

// Bind rebuilds both charts for view, replacing whatever was shown before.
func (a *Adapter) Bind(view report.View) error {
	var errs []error
	if _, err := a.Replace(chart.KindBreakdown, a.breakdownDataset(view.Summary)); err != nil {
		errs = append(errs, err)
	}
	if _, err := a.Replace(chart.KindTimeline, a.timelineDataset(view.Timeline, view.DurationSeconds)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Draw renders the panels for view using the charts installed by Bind.
func (a *Adapter) Draw(view report.View, opts Options) Frame {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	frame := Frame{
		Stats: statsPanel(view, width),
		List:  listPanel(view.Entries, width),
		Cards: a.cardsPanel(view.Summary, width),
	}
	if c, ok := a.charts[chart.KindTimeline]; ok {
		if opts.Focus >= 0 {
			frame.Tooltip, _ = c.Focus(opts.Focus)
		}
		frame.Timeline = c.Draw(width)
	}
	if c, ok := a.charts[chart.KindBreakdown]; ok {
		frame.Breakdown = c.Draw(width)
	}
	return frame
}

// Render binds view and draws it in one step.
func (a *Adapter) Render(view report.View, opts Options) (Frame, error) {
	if err := a.Bind(view); err != nil {
		return Frame{}, err
	}
	return a.Draw(view, opts), nil
}

func (a *Adapter) breakdownDataset(summary analysis.Summary) chart.Dataset {
	entries := summary.Entries()
	points := make([]chart.Point, len(entries))
	for i, e := range entries {
		points[i] = chart.Point{Label: e.Label, Value: float64(e.Count), Color: a.scale.ColorOf(e.Label)}
	}
	return chart.Dataset{
		Title:  "Emotion Distribution",
		Points: points,
		Calls: chart.Callbacks{
			Label: func(i int) string {
				e := entries[i]
				return fmt.Sprintf("%s: %d (%d%%)", e.Label, e.Count, e.Percentage)
			},
		},
	}
}

// timelineDataset plots each point at its rank's position on the scale, so
// the y axis has one row per level however the ranks are spaced. The x axis
// runs to the end of the recording when that is known.
func (a *Adapter) timelineDataset(timeline []analysis.TimelinePoint, duration float64) chart.Dataset {
	pts := append([]analysis.TimelinePoint(nil), timeline...)
	points := make([]chart.Point, len(pts))
	for i, p := range pts {
		points[i] = chart.Point{Label: p.Emotion, X: p.X, Y: float64(a.scale.Position(p.Y)), Color: a.scale.ColorOf(p.Emotion)}
	}
	return chart.Dataset{
		Title:  "Emotion Over Time",
		Points: points,
		XMax:   duration,
		YMin:   0,
		YMax:   float64(a.scale.Len() + 1),
		Line:   timelineLineColor,
		Calls: chart.Callbacks{
			XTick: func(v float64) string {
				return fmt.Sprintf("%ds", int(math.Floor(v)))
			},
			YTick: func(v float64) string {
				rank, ok := a.scale.RankAt(int(v))
				if !ok {
					return ""
				}
				return a.scale.LabelOf(rank)
			},
			Tooltip: func(i int) []string {
				p := pts[i]
				return []string{
					"Time: " + analysis.FormatSeconds(p.X),
					"Emotion: " + p.Emotion,
					`Text: "` + p.Text + `"`,
				}
			},
		},
	}
}
