package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type jobKind string

type jobStatus string

const (
	jobKindAnalyze jobKind = "analyze"
	jobKindHealth  jobKind = "health"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

// summary is the one-line status shown under the backend indicator.
func (s jobSnapshot) summary() string {
	switch s.Status {
	case "":
		return ""
	case jobStatusRunning:
		return fmt.Sprintf("Last job: %s running", s.Kind)
	case jobStatusFailed:
		return fmt.Sprintf("Last job: %s failed after %s", s.Kind, s.Duration.Round(10*time.Millisecond))
	}
	return fmt.Sprintf("Last job: %s %s in %s", s.Kind, s.Status, s.Duration.Round(10*time.Millisecond))
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs background work and reports start and completion as messages.
// Stop cancels the context handed to every runner still in flight.
type jobBus struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.SugaredLogger
}

func newJobBus(log *zap.SugaredLogger) *jobBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &jobBus{ctx: ctx, cancel: cancel, log: log}
}

func newJobID() string {
	return uuid.NewString()
}

func (b *jobBus) Start(kind jobKind, id string, runner jobRunner) tea.Cmd {
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}
	runCmd := func() tea.Msg {
		return b.run(kind, id, started, runner)
	}
	return tea.Sequence(startCmd, runCmd)
}

func (b *jobBus) run(kind jobKind, id string, started time.Time, runner jobRunner) jobResultEnvelope {
	payload, err := runner(b.ctx)
	snapshot := jobSnapshot{
		ID:          id,
		Kind:        kind,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
	} else {
		snapshot.Status = jobStatusSucceeded
	}
	snapshot.Duration = snapshot.CompletedAt.Sub(started)
	b.log.Infow("job finished",
		"kind", kind,
		"request_id", id,
		"status", snapshot.Status,
		"duration", snapshot.Duration,
		"error", snapshot.Err,
	)
	return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
}

func (b *jobBus) Stop() {
	b.cancel()
}
