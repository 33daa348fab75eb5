package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, sync := New(Options{Path: path})
	log.Infow("session started", "player", 1)
	log.Debugw("hidden at info level")
	sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session started") || !strings.Contains(out, "INFO") {
		t.Fatalf("log missing entry: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at info level")
	}
}

func TestNew_DebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, sync := New(Options{Path: path, Debug: true})
	log.Debugw("tick detail", "tick", 3)
	sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "tick detail") {
		t.Fatalf("debug entry missing: %q", data)
	}
}
