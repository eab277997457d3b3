package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	log, err := New(dir, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debugw("hidden", "k", 1)
	log.Infow("analysis finished", "request_id", "abc")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"analysis finished"`) || !strings.Contains(out, `"request_id":"abc"`) {
		t.Fatalf("log output = %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatal("debug line should be filtered at info level")
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New(t.TempDir(), "chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := Stderr("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
