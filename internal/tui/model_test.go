package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/emotionscope/internal/analysis"
	"github.com/csheth/emotionscope/internal/analyzer"
	"github.com/csheth/emotionscope/internal/chart"
	"github.com/csheth/emotionscope/internal/emotion"
	"github.com/csheth/emotionscope/internal/report"
	"github.com/csheth/emotionscope/internal/termchart"
)

type fakeBackend struct {
	mu       sync.Mutex
	result   analysis.Result
	err      error
	health   analyzer.Health
	requests []string
}

func (f *fakeBackend) Analyze(ctx context.Context, requestID, path string) (analysis.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, requestID)
	return f.result, f.err
}

func (f *fakeBackend) Health(ctx context.Context) (analyzer.Health, error) {
	return f.health, nil
}

func scenarioResult() analysis.Result {
	return analysis.Result{
		Duration: 15,
		Segments: []analysis.Segment{
			{Timestamp: "00:00", StartSeconds: 0, Text: "what a day", Emotion: emotion.Happy, Confidence: 90},
			{Timestamp: "00:05", StartSeconds: 5, Text: "really nice", Emotion: emotion.Happy, Confidence: 70},
			{Timestamp: "00:10", StartSeconds: 10, Text: "until it rained", Emotion: emotion.Sad, Confidence: 80},
		},
	}
}

func newTestModel(t *testing.T) (*model, *termchart.Library) {
	t.Helper()
	lib := termchart.New()
	teaModel, ok := New(Config{
		Backend:    &fakeBackend{result: scenarioResult()},
		BackendURL: "http://localhost:5000",
		Charts:     lib,
	}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel, lib
}

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func successView() report.View {
	return report.Build(emotion.Default(), scenarioResult())
}

func TestStartsIdleWithInputFocused(t *testing.T) {
	m, _ := newTestModel(t)
	if m.stage != stageIdle {
		t.Fatalf("stage = %v, want idle", m.stage)
	}
	if !m.pathInput.Focused() {
		t.Fatal("path input should start focused")
	}
	if m.view != nil || m.errorMessage != "" {
		t.Fatal("nothing should be shown before the first analysis")
	}
}

func TestFileSelection(t *testing.T) {
	m, _ := newTestModel(t)
	good := writeAudio(t, "talk.wav")

	m.Update(FileSelectedMsg{Path: good})
	if m.selectedPath != good || m.fileError != "" {
		t.Fatalf("selected = %q err = %q", m.selectedPath, m.fileError)
	}
	if m.pathInput.Focused() {
		t.Fatal("input should blur once a file is selected")
	}

	m.Update(FileSelectedMsg{Path: filepath.Join(t.TempDir(), "missing.wav")})
	if m.fileError == "" {
		t.Fatal("missing file should report an error")
	}
	if m.selectedPath != good {
		t.Fatalf("failed selection must keep the previous file, got %q", m.selectedPath)
	}
}

func TestEnterInInputSelectsFile(t *testing.T) {
	m, _ := newTestModel(t)
	good := writeAudio(t, "talk.mp3")
	m.pathInput.SetValue("  " + good + " ")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.selectedPath != good {
		t.Fatalf("selected = %q, want %q", m.selectedPath, good)
	}
}

func TestAnalyzeWithoutFileIsIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m.pathInput.Blur()
	m.Update(AnalyzeRequestedMsg{})
	if m.stage != stageIdle || m.pendingID != "" {
		t.Fatalf("stage = %v pending = %q", m.stage, m.pendingID)
	}
	if m.fileError == "" {
		t.Fatal("user should be told to choose a file")
	}
}

func TestAnalyzeIgnoresDoubleSubmit(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})

	_, cmd := m.Update(AnalyzeRequestedMsg{})
	if cmd == nil {
		t.Fatal("analysis should start a job")
	}
	if m.stage != stageLoading {
		t.Fatalf("stage = %v, want loading", m.stage)
	}
	first := m.pendingID
	if first == "" {
		t.Fatal("request should be tagged")
	}

	_, cmd = m.Update(AnalyzeRequestedMsg{})
	if cmd != nil {
		t.Fatal("second request while loading must be ignored")
	}
	if m.pendingID != first {
		t.Fatal("pending request id changed on double submit")
	}

	m.Update(FileSelectedMsg{Path: writeAudio(t, "other.wav")})
	if m.fileError == "" || m.stage != stageLoading {
		t.Fatal("file changes are refused while loading")
	}
}

func TestAnalysisSuccessRendersCharts(t *testing.T) {
	m, lib := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})
	m.Update(AnalyzeRequestedMsg{})

	m.Update(analysisDoneMsg{requestID: m.pendingID, view: successView()})
	if m.stage != stageSuccess {
		t.Fatalf("stage = %v, want success", m.stage)
	}
	if m.pendingID != "" {
		t.Fatal("loading should be cleared")
	}
	if lib.Live(chart.KindBreakdown) != 1 || lib.Live(chart.KindTimeline) != 1 {
		t.Fatalf("expected one chart of each kind, got %d/%d", lib.Live(chart.KindBreakdown), lib.Live(chart.KindTimeline))
	}
	if m.focus != 0 {
		t.Fatalf("focus = %d, want first point", m.focus)
	}

	out := m.View()
	for _, want := range []string{"Dominant Emotion", "Happy", "Emotion Over Time", "Time: 0:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.focus != 2 {
		t.Fatalf("focus should clamp at the last point, got %d", m.focus)
	}
	if !strings.Contains(m.viewport.View(), `Text: "until it rained"`) {
		t.Fatalf("tooltip should follow focus:\n%s", m.viewport.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.focus != 1 {
		t.Fatalf("focus = %d after left", m.focus)
	}
}

func TestReanalysisKeepsOneChartPerKind(t *testing.T) {
	m, lib := newTestModel(t)
	m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})
	for i := 0; i < 3; i++ {
		m.Update(AnalyzeRequestedMsg{})
		if lib.Live(chart.KindTimeline) != 0 {
			t.Fatal("results must be hidden while loading")
		}
		m.Update(analysisDoneMsg{requestID: m.pendingID, view: successView()})
		if lib.Live(chart.KindBreakdown) != 1 || lib.Live(chart.KindTimeline) != 1 {
			t.Fatalf("round %d: live charts %d/%d", i, lib.Live(chart.KindBreakdown), lib.Live(chart.KindTimeline))
		}
	}
}

func TestAnalysisFailureShowsMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"application", &analyzer.Error{Kind: analyzer.KindApplication, Message: "Unsupported file"}, "Unsupported file"},
		{"application without message", &analyzer.Error{Kind: analyzer.KindApplication}, analyzer.GenericApplicationMessage},
		{"transport", &analyzer.Error{Kind: analyzer.KindTransport, Err: errors.New("connection refused")}, analyzer.GenericTransportMessage},
		{"malformed", &analyzer.Error{Kind: analyzer.KindMalformed, Message: "results is missing"}, analyzer.GenericTransportMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, lib := newTestModel(t)
			m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})
			m.Update(AnalyzeRequestedMsg{})
			m.Update(analysisDoneMsg{requestID: m.pendingID, err: tc.err})
			if m.stage != stageError {
				t.Fatalf("stage = %v, want error", m.stage)
			}
			if m.errorMessage != tc.want {
				t.Fatalf("message = %q, want %q", m.errorMessage, tc.want)
			}
			if lib.Live(chart.KindTimeline) != 0 {
				t.Fatal("no charts on failure")
			}
			if !strings.Contains(m.View(), tc.want) {
				t.Fatal("error should be visible")
			}
		})
	}
}

func TestStaleResponseIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})
	m.Update(AnalyzeRequestedMsg{})

	m.Update(analysisDoneMsg{requestID: "some-older-request", view: successView()})
	if m.stage != stageLoading {
		t.Fatalf("stale response changed stage to %v", m.stage)
	}

	id := m.pendingID
	m.Update(analysisDoneMsg{requestID: id, err: errors.New("boom")})
	m.Update(analysisDoneMsg{requestID: id, view: successView()})
	if m.stage != stageError {
		t.Fatalf("duplicate completion must not override the first, stage = %v", m.stage)
	}
}

func TestSelectingFileHidesResults(t *testing.T) {
	m, lib := newTestModel(t)
	m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})
	m.Update(AnalyzeRequestedMsg{})
	m.Update(analysisDoneMsg{requestID: m.pendingID, view: successView()})

	m.Update(runeKey("o"))
	if !m.pathInput.Focused() {
		t.Fatal("o should open the file input")
	}
	m.Update(FileSelectedMsg{Path: writeAudio(t, "next.ogg")})
	if m.stage != stageIdle || m.view != nil {
		t.Fatalf("stage = %v, view hidden = %v", m.stage, m.view == nil)
	}
	if lib.Live(chart.KindBreakdown) != 0 {
		t.Fatal("hidden results should release their charts")
	}
}

func TestQuitDisposesCharts(t *testing.T) {
	m, lib := newTestModel(t)
	m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})
	m.Update(AnalyzeRequestedMsg{})
	m.Update(analysisDoneMsg{requestID: m.pendingID, view: successView()})

	_, cmd := m.Update(runeKey("q"))
	if !isQuit(cmd) {
		t.Fatal("q should quit")
	}
	if lib.Live(chart.KindBreakdown) != 0 || lib.Live(chart.KindTimeline) != 0 {
		t.Fatal("quitting should destroy every chart")
	}
	if m.View() != "" {
		t.Fatal("view should be blank after quit")
	}
}

func TestCtrlCQuitsFromInput(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Fatal("ctrl+c should quit")
	}
}

func TestTypingQInInputDoesNotQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(runeKey("q"))
	if m.quitting {
		t.Fatal("q typed into the path input must not quit")
	}
	if m.pathInput.Value() != "q" {
		t.Fatalf("input value = %q", m.pathInput.Value())
	}
}

func TestHealthStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(healthResultMsg{health: analyzer.Health{Status: "healthy", SentimentModelLoaded: true}})
	if m.backendErr || !strings.Contains(m.backendStatus, "sentiment model loaded") {
		t.Fatalf("status = %q", m.backendStatus)
	}
	m.Update(healthResultMsg{err: errors.New("refused")})
	if !m.backendErr || !strings.Contains(m.backendStatus, "http://localhost:5000") {
		t.Fatalf("status = %q", m.backendStatus)
	}
}

func TestAnalyzeJobBuildsView(t *testing.T) {
	backend := &fakeBackend{result: scenarioResult()}
	msg, err := analyzeJob(backend, emotion.Default(), "req-7", "talk.wav")(context.Background())
	if err != nil {
		t.Fatalf("job: %v", err)
	}
	done, ok := msg.(analysisDoneMsg)
	if !ok {
		t.Fatalf("payload = %T", msg)
	}
	if done.requestID != "req-7" || done.view.Dominant != emotion.Happy || done.view.SegmentCount != 3 {
		t.Fatalf("done = %#v", done)
	}
	if len(backend.requests) != 1 || backend.requests[0] != "req-7" {
		t.Fatalf("backend requests = %v", backend.requests)
	}

	backend.err = &analyzer.Error{Kind: analyzer.KindTransport}
	msg, err = analyzeJob(backend, emotion.Default(), "req-8", "talk.wav")(context.Background())
	if err == nil || msg.(analysisDoneMsg).err == nil {
		t.Fatal("failure should travel in the payload")
	}
}

func TestJobEnvelopeDeliversPayload(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(FileSelectedMsg{Path: writeAudio(t, "talk.wav")})
	m.Update(AnalyzeRequestedMsg{})

	runner := analyzeJob(m.config.Backend, m.config.Scale, m.pendingID, m.selectedPath)
	env := m.jobs.run(jobKindAnalyze, m.pendingID, time.Now(), runner)
	if env.Snapshot.Status != jobStatusSucceeded {
		t.Fatalf("status = %v", env.Snapshot.Status)
	}
	m.Update(env)
	if m.stage != stageSuccess {
		t.Fatalf("stage = %v", m.stage)
	}
	if m.lastJob.ID != env.Snapshot.ID {
		t.Fatal("last job snapshot not recorded")
	}
	if !strings.Contains(m.View(), "Last job: analyze succeeded in") {
		t.Fatalf("hero should show the last job:\n%s", m.View())
	}
}

func TestJobSnapshotSummary(t *testing.T) {
	tests := []struct {
		snap jobSnapshot
		want string
	}{
		{jobSnapshot{}, ""},
		{jobSnapshot{Kind: jobKindHealth, Status: jobStatusRunning}, "Last job: health running"},
		{jobSnapshot{Kind: jobKindAnalyze, Status: jobStatusSucceeded, Duration: 1234 * time.Millisecond}, "Last job: analyze succeeded in 1.23s"},
		{jobSnapshot{Kind: jobKindAnalyze, Status: jobStatusFailed, Duration: 2 * time.Second}, "Last job: analyze failed after 2s"},
	}
	for _, tt := range tests {
		if got := tt.snap.summary(); got != tt.want {
			t.Fatalf("summary(%+v) = %q, want %q", tt.snap, got, tt.want)
		}
	}
}

func TestInitialPathIsSelected(t *testing.T) {
	path := writeAudio(t, "start.m4a")
	m := New(Config{InitialPath: path}).(*model)
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should return commands")
	}
	m.Update(FileSelectedMsg{Path: path})
	if m.selectedPath != path {
		t.Fatalf("selected = %q", m.selectedPath)
	}
	if !m.backendErr {
		t.Fatal("missing backend should be reported")
	}
	m.Update(AnalyzeRequestedMsg{})
	if m.stage != stageError || m.errorMessage != analyzer.GenericTransportMessage {
		t.Fatalf("stage = %v message = %q", m.stage, m.errorMessage)
	}
}
