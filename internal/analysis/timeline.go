package analysis

import (
	"fmt"
	"math"
)

// Ranker maps an emotion label to its ordinal rank.
type Ranker interface {
	RankOf(label string) int
}

// Project converts segments into timeline points, one per segment, in input
// order. Duplicate or out-of-order start times are passed through untouched.
func Project(scale Ranker, segments []Segment) []TimelinePoint {
	points := make([]TimelinePoint, len(segments))
	for i, seg := range segments {
		points[i] = TimelinePoint{
			X:       seg.StartSeconds,
			Y:       scale.RankOf(seg.Emotion),
			Emotion: seg.Emotion,
			Text:    seg.Text,
		}
	}
	return points
}

// FormatDuration renders seconds as m:ss. Both parts are truncated, never
// rounded, so 90.9 becomes "1:30".
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatSeconds is used for point tooltips and shares the duration format.
func FormatSeconds(seconds float64) string {
	return FormatDuration(seconds)
}
