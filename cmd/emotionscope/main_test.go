package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("EMOTIONSCOPE_LOG_LEVEL", "error")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReportFromJSON(t *testing.T) {
	fixture := filepath.Join("testdata", "analysis_fixture.json")
	out, err := executeRoot(t, "report", "--from-json", fixture, "--width", "100")
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	for _, want := range []string{
		"0:42",
		"Dominant Emotion",
		"Happy: 2 (40%)",
		"Very Happy: 1 (20%)",
		"Emotion Over Time",
		"Occurrences:",
		"Avg Confidence:",
		`"We lost two customers over it."`,
		"Confidence: 97.3%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"success": true, "duration": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := executeRoot(t, "report", "--from-json", path)
	if err == nil || !strings.Contains(err.Error(), "Network error") {
		t.Fatalf("expected transport-style message, got %v", err)
	}
}

func TestReportNeedsExactlyOneSource(t *testing.T) {
	const want = "give exactly one of an audio file or --from-json"
	if _, err := executeRoot(t, "report"); err == nil || err.Error() != want {
		t.Fatalf("report without input: err = %v", err)
	}
	fixture := filepath.Join("testdata", "analysis_fixture.json")
	if _, err := executeRoot(t, "report", "clip.wav", "--from-json", fixture); err == nil || err.Error() != want {
		t.Fatalf("report with both inputs: err = %v", err)
	}
}

func TestReportUploadsAudio(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "analysis_fixture.json"))
	if err != nil {
		t.Fatal(err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Errorf("missing audio field: %v", err)
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	audio := filepath.Join(t.TempDir(), "standup.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := executeRoot(t, "report", audio, "--backend", server.URL)
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Detailed Timeline") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestReportShowsBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "Audio could not be decoded"}`))
	}))
	t.Cleanup(server.Close)

	audio := filepath.Join(t.TempDir(), "standup.mp3")
	if err := os.WriteFile(audio, []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := executeRoot(t, "report", audio, "--backend", server.URL)
	if err == nil || err.Error() != "Audio could not be decoded" {
		t.Fatalf("err = %v", err)
	}
}

func TestHealthCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "healthy", "sentiment_model_loaded": false}`))
	}))
	t.Cleanup(server.Close)

	out, err := executeRoot(t, "health", "--backend", server.URL)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "status: healthy") || !strings.Contains(out, "sentiment_model_loaded: false") {
		t.Fatalf("output = %q", out)
	}
}

func TestCustomScale(t *testing.T) {
	scalePath := filepath.Join(t.TempDir(), "scale.yaml")
	scale := "fallback_rank: 2\nfallback_color: \"#777777\"\nlevels:\n  - {label: Calm, rank: 1, color: \"#3366ff\"}\n  - {label: Neutral, rank: 2, color: \"#888888\"}\n  - {label: Tense, rank: 3, color: \"#ff3300\"}\n"
	if err := os.WriteFile(scalePath, []byte(scale), 0o644); err != nil {
		t.Fatal(err)
	}
	fixture := filepath.Join("testdata", "analysis_fixture.json")
	out, err := executeRoot(t, "report", "--from-json", fixture, "--scale", scalePath)
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Tense") && !strings.Contains(out, "Calm") {
		t.Fatalf("custom scale labels should appear on the timeline axis:\n%s", out)
	}
}
