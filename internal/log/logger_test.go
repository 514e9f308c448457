package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/examcoach/examcoach/internal/config"
)

func TestNewWritesJSONLines(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "nested")

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("panel switched", Event(EventPanelActivated))
	_ = logger.Sync()

	f, err := os.Open(cfg.LogPath())
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("log file is empty")
	}
	var record map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["event"] != EventPanelActivated {
		t.Errorf("event = %v, want %q", record["event"], EventPanelActivated)
	}
	if record["msg"] != "panel switched" {
		t.Errorf("msg = %v, want %q", record["msg"], "panel switched")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Log.Level = "chatty"

	if _, err := New(cfg); err == nil {
		t.Error("New should fail for an unknown level")
	}
}

func TestDebugRecordsFilteredAtInfo(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.LogPath())
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read log: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("debug record written at info level: %s", data)
	}
}
