package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/emotionscope/internal/analyzer"
	"github.com/csheth/emotionscope/internal/chart"
	"github.com/csheth/emotionscope/internal/emotion"
	"github.com/csheth/emotionscope/internal/logging"
	"github.com/csheth/emotionscope/internal/render"
	"github.com/csheth/emotionscope/internal/report"
	"github.com/csheth/emotionscope/internal/termchart"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Backend Backend
	// BackendURL is only displayed.
	BackendURL     string
	Scale          *emotion.Scale
	Charts         chart.Library
	Logger         *zap.SugaredLogger
	MaxUploadBytes int64
	// InitialPath, when set, is selected as soon as the program starts.
	InitialPath string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Scale == nil {
		config.Scale = emotion.Default()
	}
	if config.Charts == nil {
		config.Charts = termchart.New()
	}
	if config.Logger == nil {
		config.Logger = logging.Nop()
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = analyzer.DefaultMaxUploadBytes
	}

	layout := newPageLayout()

	pathInput := textinput.New()
	pathInput.Placeholder = pathPlaceholder
	pathInput.Prompt = "Audio file › "
	pathInput.CharLimit = 512
	pathInput.Width = layout.inputWidth
	pathInput.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true

	return &model{
		config:        config,
		stage:         stageIdle,
		layout:        layout,
		pathInput:     pathInput,
		spinner:       spin,
		viewport:      vp,
		adapter:       render.New(config.Charts, config.Scale),
		jobs:          newJobBus(config.Logger),
		log:           config.Logger,
		focus:         -1,
		backendStatus: "Checking backend…",
		infoMessage:   "Type the path to an audio file and press enter.",
	}
}

type model struct {
	config Config
	stage  stage
	layout pageLayout

	pathInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model

	adapter *render.Adapter
	jobs    *jobBus
	log     *zap.SugaredLogger

	selectedPath string
	pendingID    string
	view         *report.View
	focus        int

	backendStatus string
	backendErr    bool
	infoMessage   string
	fileError     string
	errorMessage  string
	renderError   string
	lastJob       jobSnapshot
	quitting      bool
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.config.Backend != nil {
		cmds = append(cmds, m.jobs.Start(jobKindHealth, newJobID(), healthJob(m.config.Backend)))
	} else {
		m.backendStatus = "No backend configured."
		m.backendErr = true
	}
	if path := strings.TrimSpace(m.config.InitialPath); path != "" {
		cmds = append(cmds, func() tea.Msg { return FileSelectedMsg{Path: path} })
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageSuccess {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.pathInput.Width = m.layout.inputWidth
		m.refreshViewport()
		return m, nil
	case jobSignalMsg:
		m.lastJob = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.lastJob = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case FileSelectedMsg:
		return m.selectFile(msg.Path)
	case AnalyzeRequestedMsg:
		return m.startAnalysis()
	case analysisDoneMsg:
		return m.finishAnalysis(msg)
	case healthResultMsg:
		m.applyHealth(msg)
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.pathInput.Focused() {
		switch key.Type {
		case tea.KeyEnter:
			return m.Update(FileSelectedMsg{Path: m.pathInput.Value()})
		case tea.KeyEsc:
			if m.selectedPath == "" {
				return m.quit()
			}
			m.pathInput.SetValue(m.selectedPath)
			m.pathInput.Blur()
			m.fileError = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "q", "esc":
		return m.quit()
	case "enter", "a":
		return m.Update(AnalyzeRequestedMsg{})
	case "o":
		if m.stage == stageLoading {
			m.infoMessage = "Wait for the current analysis to finish."
			return m, nil
		}
		m.fileError = ""
		return m, m.pathInput.Focus()
	case "left", "h":
		m.moveFocus(-1)
		return m, nil
	case "right", "l":
		m.moveFocus(1)
		return m, nil
	case "g":
		m.viewport.GotoTop()
		return m, nil
	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}
	if m.stage == stageSuccess {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m *model) selectFile(path string) (tea.Model, tea.Cmd) {
	path = strings.TrimSpace(path)
	if m.stage == stageLoading {
		m.fileError = "Wait for the current analysis to finish before choosing another file."
		return m, nil
	}
	if err := analyzer.CheckFile(path, m.config.MaxUploadBytes); err != nil {
		m.fileError = err.Error()
		m.log.Infow("file rejected", "path", path, "reason", err.Error())
		return m, nil
	}
	m.selectedPath = path
	m.fileError = ""
	m.errorMessage = ""
	m.clearResults()
	m.stage = stageIdle
	m.pathInput.SetValue(path)
	m.pathInput.Blur()
	m.infoMessage = fmt.Sprintf("Selected %s. Press enter or a to analyze.", filepath.Base(path))
	return m, nil
}

func (m *model) startAnalysis() (tea.Model, tea.Cmd) {
	if m.stage == stageLoading {
		return m, nil
	}
	if m.selectedPath == "" {
		m.fileError = "Choose an audio file to analyze."
		return m, m.pathInput.Focus()
	}
	if m.config.Backend == nil {
		m.stage = stageError
		m.errorMessage = analyzer.GenericTransportMessage
		return m, nil
	}
	id := newJobID()
	m.pendingID = id
	m.stage = stageLoading
	m.errorMessage = ""
	m.fileError = ""
	m.clearResults()
	m.infoMessage = fmt.Sprintf("Analyzing %s… longer recordings can take a few minutes.", filepath.Base(m.selectedPath))
	m.log.Infow("analysis requested", "request_id", id, "path", m.selectedPath)
	job := m.jobs.Start(jobKindAnalyze, id, analyzeJob(m.config.Backend, m.config.Scale, id, m.selectedPath))
	return m, tea.Batch(job, m.spinner.Tick)
}

func (m *model) finishAnalysis(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if m.stage != stageLoading || msg.requestID != m.pendingID {
		m.log.Infow("stale analysis response ignored", "request_id", msg.requestID, "pending", m.pendingID)
		return m, nil
	}
	m.pendingID = ""
	if msg.err != nil {
		m.stage = stageError
		m.errorMessage = analyzer.UserMessage(msg.err)
		m.infoMessage = "Press enter to retry or o to choose another file."
		m.log.Errorw("analysis failed", "request_id", msg.requestID, "error", msg.err)
		return m, nil
	}

	view := msg.view
	m.view = &view
	m.stage = stageSuccess
	m.focus = -1
	if len(view.Timeline) > 0 {
		m.focus = 0
	}
	m.renderError = ""
	if err := m.adapter.Bind(view); err != nil {
		m.renderError = fmt.Sprintf("Some charts could not be drawn: %v", err)
		m.log.Errorw("chart render failed", "request_id", msg.requestID, "error", err)
	}
	m.infoMessage = fmt.Sprintf("Analysis complete: %d segments, dominant emotion %s.", view.SegmentCount, view.Dominant)
	m.log.Infow("analysis rendered",
		"request_id", msg.requestID,
		"segments", view.SegmentCount,
		"dominant", view.Dominant,
	)
	m.viewport.GotoTop()
	m.refreshViewport()
	return m, nil
}

func (m *model) applyHealth(msg healthResultMsg) {
	if msg.err != nil {
		m.backendErr = true
		m.backendStatus = fmt.Sprintf("Backend unreachable at %s", m.config.BackendURL)
		m.log.Warnw("health check failed", "error", msg.err)
		return
	}
	m.backendErr = false
	switch {
	case msg.health.SentimentModelLoaded:
		m.backendStatus = fmt.Sprintf("Backend %s (sentiment model loaded)", msg.health.Status)
	default:
		m.backendStatus = fmt.Sprintf("Backend %s (sentiment model not loaded)", msg.health.Status)
	}
}

func (m *model) clearResults() {
	m.view = nil
	m.focus = -1
	m.renderError = ""
	m.adapter.Close()
	m.viewport.SetContent("")
}

func (m *model) moveFocus(delta int) {
	if m.stage != stageSuccess || m.view == nil || len(m.view.Timeline) == 0 {
		return
	}
	next := m.focus + delta
	if next < 0 {
		next = 0
	}
	if next >= len(m.view.Timeline) {
		next = len(m.view.Timeline) - 1
	}
	if next == m.focus {
		return
	}
	m.focus = next
	m.refreshViewport()
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.jobs.Stop()
	m.adapter.Close()
	m.log.Infow("quit", "stage", m.stage.String())
	return m, tea.Quit
}

func (m *model) refreshViewport() {
	if m.view == nil {
		return
	}
	frame := m.adapter.Draw(*m.view, render.Options{Width: m.viewport.Width, Focus: m.focus})
	m.viewport.SetContent(resultsContent(frame))
}
