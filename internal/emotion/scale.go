package emotion

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Canonical labels produced by the analysis backend.
const (
	VerySad   = "Very Sad"
	Sad       = "Sad"
	Negative  = "Negative"
	Positive  = "Positive"
	Happy     = "Happy"
	VeryHappy = "Very Happy"
)

// NeutralGray is used for labels the scale does not know about.
const NeutralGray = "#999999"

var (
	ErrEmptyScale      = errors.New("emotion scale has no levels")
	ErrDuplicateLabel  = errors.New("duplicate emotion label")
	ErrDuplicateRank   = errors.New("duplicate emotion rank")
	ErrInvalidColor    = errors.New("invalid hex color")
	ErrUnknownFallback = errors.New("fallback rank is not part of the scale")

	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Level binds one emotion label to its ordinal rank and display color.
type Level struct {
	Label string `yaml:"label"`
	Rank  int    `yaml:"rank"`
	Color string `yaml:"color"`
}

// Scale is an immutable mapping between emotion labels, ordinal ranks and
// colors. The zero value is not usable; build one with New or Default.
type Scale struct {
	levels        []Level
	byLabel       map[string]Level
	byRank        map[int]Level
	position      map[int]int
	fallbackRank  int
	fallbackColor string
}

// Default returns the six-level scale the analysis backend emits.
func Default() *Scale {
	s, err := New([]Level{
		{Label: VerySad, Rank: 1, Color: "#c62828"},
		{Label: Sad, Rank: 2, Color: "#f44336"},
		{Label: Negative, Rank: 3, Color: "#ff9800"},
		{Label: Positive, Rank: 4, Color: "#8bc34a"},
		{Label: Happy, Rank: 5, Color: "#4caf50"},
		{Label: VeryHappy, Rank: 6, Color: "#2e7d32"},
	}, 3, NeutralGray)
	if err != nil {
		panic(err)
	}
	return s
}

// New validates levels and returns a Scale. fallbackRank is what RankOf
// returns for labels outside the scale and must belong to one of the levels.
func New(levels []Level, fallbackRank int, fallbackColor string) (*Scale, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyScale
	}
	if fallbackColor == "" {
		fallbackColor = NeutralGray
	}
	if !hexColor.MatchString(fallbackColor) {
		return nil, fmt.Errorf("fallback color %q: %w", fallbackColor, ErrInvalidColor)
	}

	s := &Scale{
		levels:        make([]Level, 0, len(levels)),
		byLabel:       make(map[string]Level, len(levels)),
		byRank:        make(map[int]Level, len(levels)),
		fallbackRank:  fallbackRank,
		fallbackColor: fallbackColor,
	}
	for _, lvl := range levels {
		lvl.Label = strings.TrimSpace(lvl.Label)
		if lvl.Label == "" {
			return nil, errors.New("emotion level is missing a label")
		}
		if _, ok := s.byLabel[lvl.Label]; ok {
			return nil, fmt.Errorf("%q: %w", lvl.Label, ErrDuplicateLabel)
		}
		if _, ok := s.byRank[lvl.Rank]; ok {
			return nil, fmt.Errorf("rank %d: %w", lvl.Rank, ErrDuplicateRank)
		}
		if !hexColor.MatchString(lvl.Color) {
			return nil, fmt.Errorf("%q color %q: %w", lvl.Label, lvl.Color, ErrInvalidColor)
		}
		s.byLabel[lvl.Label] = lvl
		s.byRank[lvl.Rank] = lvl
		s.levels = append(s.levels, lvl)
	}
	if _, ok := s.byRank[fallbackRank]; !ok {
		return nil, fmt.Errorf("rank %d: %w", fallbackRank, ErrUnknownFallback)
	}
	sort.Slice(s.levels, func(i, j int) bool { return s.levels[i].Rank < s.levels[j].Rank })
	s.position = make(map[int]int, len(s.levels))
	for i, lvl := range s.levels {
		s.position[lvl.Rank] = i + 1
	}
	return s, nil
}

// RankOf returns the ordinal rank of label, or the fallback rank when the
// label is unknown. It never fails so plotting survives label drift.
func (s *Scale) RankOf(label string) int {
	if lvl, ok := s.byLabel[label]; ok {
		return lvl.Rank
	}
	return s.fallbackRank
}

// LabelOf returns the label for rank, or "" when no level has that rank.
func (s *Scale) LabelOf(rank int) string {
	return s.byRank[rank].Label
}

// ColorOf returns the display color for label, falling back to gray.
func (s *Scale) ColorOf(label string) string {
	if lvl, ok := s.byLabel[label]; ok {
		return lvl.Color
	}
	return s.fallbackColor
}

// Levels returns a copy of the levels in ascending rank order.
func (s *Scale) Levels() []Level {
	return append([]Level(nil), s.levels...)
}

// Len is the number of levels.
func (s *Scale) Len() int { return len(s.levels) }

// Position returns the 1-based place of rank in ascending rank order, or 0
// when no level has that rank. Ranks only order the levels, so plots use
// positions and stay compact however sparse the ranks are.
func (s *Scale) Position(rank int) int { return s.position[rank] }

// RankAt returns the rank at 1-based position pos.
func (s *Scale) RankAt(pos int) (int, bool) {
	if pos < 1 || pos > len(s.levels) {
		return 0, false
	}
	return s.levels[pos-1].Rank, true
}
