package analysis

import "math"

// NoDominant is reported as the dominant emotion of an empty analysis.
const NoDominant = "N/A"

// Summary is the per-emotion breakdown of one Result, ordered by the first
// appearance of each label. It is never modified after Aggregate returns.
type Summary struct {
	entries []EmotionStats
	index   map[string]int
	total   int
}

// Aggregate counts segments per emotion in a single pass, then derives
// percentages and average confidences. An empty input yields an empty
// Summary without computing any ratio.
func Aggregate(segments []Segment) Summary {
	s := Summary{index: map[string]int{}, total: len(segments)}
	if len(segments) == 0 {
		return s
	}

	sums := make([]float64, 0, 8)
	for _, seg := range segments {
		i, ok := s.index[seg.Emotion]
		if !ok {
			i = len(s.entries)
			s.index[seg.Emotion] = i
			s.entries = append(s.entries, EmotionStats{Label: seg.Emotion})
			sums = append(sums, 0)
		}
		s.entries[i].Count++
		sums[i] += seg.Confidence
	}

	total := float64(len(segments))
	for i := range s.entries {
		e := &s.entries[i]
		e.Percentage = int(math.Round(float64(e.Count) / total * 100))
		e.AvgConfidence = roundTo(sums[i]/float64(e.Count), 2)
	}
	return s
}

// Entries returns a copy of the stats in first-appearance order.
func (s Summary) Entries() []EmotionStats {
	return append([]EmotionStats(nil), s.entries...)
}

// Get returns the stats for label, if any segment carried it.
func (s Summary) Get(label string) (EmotionStats, bool) {
	i, ok := s.index[label]
	if !ok {
		return EmotionStats{}, false
	}
	return s.entries[i], true
}

// Len is the number of distinct emotions.
func (s Summary) Len() int { return len(s.entries) }

// Total is the number of segments the summary was built from.
func (s Summary) Total() int { return s.total }

// Dominant returns the label with the highest count. Only a strictly larger
// count replaces the current leader, so on a tie the label whose first segment
// came earliest wins. An empty summary returns NoDominant.
func (s Summary) Dominant() string {
	dominant := NoDominant
	maxCount := 0
	for _, e := range s.entries {
		if e.Count > maxCount {
			maxCount = e.Count
			dominant = e.Label
		}
	}
	return dominant
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
