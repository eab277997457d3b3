package analysis

// Segment is one timestamped, emotion-labeled utterance. StartSeconds is
// authoritative for ordering and plotting; Timestamp is display text only.
type Segment struct {
	Timestamp    string  `json:"timestamp"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds,omitempty"`
	Text         string  `json:"text"`
	Emotion      string  `json:"emotion"`
	Confidence   float64 `json:"confidence"`
	Sentiment    string  `json:"sentiment,omitempty"`
}

// Result is the whole response for one analyzed recording. Segments are in
// chronological order and may be empty.
type Result struct {
	Duration float64   `json:"duration"`
	Segments []Segment `json:"results"`
}

// EmotionStats aggregates every segment that carries one label.
type EmotionStats struct {
	Label         string  `json:"label"`
	Count         int     `json:"count"`
	Percentage    int     `json:"percentage"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// TimelinePoint is a segment projected onto (seconds, ordinal rank).
// Emotion and Text ride along for tooltips only.
type TimelinePoint struct {
	X       float64 `json:"x"`
	Y       int     `json:"y"`
	Emotion string  `json:"emotion"`
	Text    string  `json:"text"`
}
