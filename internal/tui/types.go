package tui

import (
	"github.com/csheth/emotionscope/internal/analyzer"
	"github.com/csheth/emotionscope/internal/report"
)

type stage int

const (
	stageIdle stage = iota
	stageLoading
	stageSuccess
	stageError
)

func (s stage) String() string {
	switch s {
	case stageIdle:
		return "idle"
	case stageLoading:
		return "loading"
	case stageSuccess:
		return "success"
	case stageError:
		return "error"
	default:
		return "unknown"
	}
}

const heroTagline = "See how a conversation feels, segment by segment."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	pathPlaceholder           = "path/to/recording.wav"
)

// FileSelectedMsg selects the audio file to analyze next.
type FileSelectedMsg struct {
	Path string
}

// AnalyzeRequestedMsg starts an analysis of the selected file.
type AnalyzeRequestedMsg struct{}

type analysisDoneMsg struct {
	requestID string
	view      report.View
	err       error
}

type healthResultMsg struct {
	health analyzer.Health
	err    error
}
