// Package chart defines the contract between the render adapter and a chart
// drawing library. Data flows in as a Dataset; text flows back out through
// the label, tick and tooltip callbacks the adapter supplies.
package chart

import "errors"

// Kind names a chart type. At most one live chart of each kind is expected.
type Kind string

const (
	KindBreakdown Kind = "breakdown"
	KindTimeline  Kind = "timeline"
)

// ErrUnsupportedKind is returned by a Library asked for a kind it cannot draw.
var ErrUnsupportedKind = errors.New("unsupported chart kind")

// Point is one plotted datum. Breakdown charts use Value; timeline charts use X and Y.
type Point struct {
	Label string
	Value float64
	X     float64
	Y     float64
	Color string
}

// Callbacks let the library ask the adapter for display text.
type Callbacks struct {
	// Label formats the legend entry for point i.
	Label func(i int) string
	// XTick and YTick format axis tick values. An empty result hides the tick.
	XTick func(v float64) string
	YTick func(v float64) string
	// Tooltip returns the lines shown when point i is focused.
	Tooltip func(i int) []string
}

// Dataset is everything a chart needs to draw.
type Dataset struct {
	Title  string
	Points []Point
	// XMax stretches the x axis past the last point. Zero fits the points.
	XMax  float64
	YMin  float64
	YMax  float64
	Line  string
	Calls Callbacks
}

// Chart is a live chart instance. Destroy releases it; a destroyed chart
// draws nothing.
type Chart interface {
	Kind() Kind
	Draw(width int) string
	// Focus highlights point i and returns its tooltip lines.
	Focus(i int) ([]string, bool)
	Destroy()
	Destroyed() bool
}

// Library creates charts.
type Library interface {
	NewChart(kind Kind, data Dataset) (Chart, error)
}
