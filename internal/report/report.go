package report

import (
	"github.com/csheth/emotionscope/internal/analysis"
	"github.com/csheth/emotionscope/internal/emotion"
)

// View is the render-ready snapshot of one analysis. A new analysis builds a
// fresh View; nothing here is updated in place.
type View struct {
	Duration string
	// DurationSeconds bounds the timeline's x axis.
	DurationSeconds float64
	SegmentCount    int
	Dominant        string
	Summary         analysis.Summary
	Timeline        []analysis.TimelinePoint
	Entries         []Entry
}

// Entry is one row of the chronological segment list.
type Entry struct {
	Timestamp string
	// Span is "start–end" when the segment has a known end, else "".
	Span       string
	Emotion    string
	Text       string
	Confidence float64
	Sentiment  string
	Color      string
}

// Build derives the full view model from a result. Aggregation and timeline
// projection read the same segments and share no state.
func Build(scale *emotion.Scale, result analysis.Result) View {
	summary := analysis.Aggregate(result.Segments)
	timeline := analysis.Project(scale, result.Segments)

	entries := make([]Entry, len(result.Segments))
	for i, seg := range result.Segments {
		ts := seg.Timestamp
		if ts == "" {
			ts = analysis.FormatSeconds(seg.StartSeconds)
		}
		entries[i] = Entry{
			Timestamp:  ts,
			Span:       span(seg),
			Emotion:    seg.Emotion,
			Text:       seg.Text,
			Confidence: seg.Confidence,
			Sentiment:  seg.Sentiment,
			Color:      scale.ColorOf(seg.Emotion),
		}
	}

	return View{
		Duration:        analysis.FormatDuration(result.Duration),
		DurationSeconds: result.Duration,
		SegmentCount:    len(result.Segments),
		Dominant:        summary.Dominant(),
		Summary:         summary,
		Timeline:        timeline,
		Entries:         entries,
	}
}

func span(seg analysis.Segment) string {
	if seg.EndSeconds <= seg.StartSeconds {
		return ""
	}
	return analysis.FormatSeconds(seg.StartSeconds) + "–" + analysis.FormatSeconds(seg.EndSeconds)
}
