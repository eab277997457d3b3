package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/emotionscope/internal/analysis"
	"github.com/csheth/emotionscope/internal/analyzer"
	"github.com/csheth/emotionscope/internal/emotion"
	"github.com/csheth/emotionscope/internal/report"
)

const healthTimeout = 5 * time.Second

// Backend is the part of analyzer.Client the TUI depends on.
type Backend interface {
	Analyze(ctx context.Context, requestID, path string) (analysis.Result, error)
	Health(ctx context.Context) (analyzer.Health, error)
}

func analyzeJob(client Backend, scale *emotion.Scale, requestID, path string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		result, err := client.Analyze(ctx, requestID, path)
		if err != nil {
			return analysisDoneMsg{requestID: requestID, err: err}, err
		}
		return analysisDoneMsg{requestID: requestID, view: report.Build(scale, result)}, nil
	}
}

func healthJob(client Backend) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, healthTimeout)
		defer cancel()
		health, err := client.Health(ctx)
		return healthResultMsg{health: health, err: err}, err
	}
}
