package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := FileName(now); got != "1700000000123_app.log" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestNew_Format(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, "json").Info("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("json handler output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Errorf("unexpected record: %v", rec)
	}

	buf.Reset()
	New(&buf, slog.LevelWarn, "text").Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record should be filtered at warn level, got %q", buf.String())
	}
}

func TestSetup_WritesFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	dir := filepath.Join(t.TempDir(), "logs")
	now := time.UnixMilli(42)

	logger, f, err := Setup(Options{Dir: dir, Level: slog.LevelInfo, Format: "text"}, now)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	logger.Info("Finished chain.")
	_ = f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "42_app.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "Finished chain.") {
		t.Errorf("log file missing record: %q", data)
	}
}
