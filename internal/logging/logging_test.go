package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "meterup.log")

	logger, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("bill fetch started")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"msg":"bill fetch started"`) {
		t.Fatalf("log file = %q, want json message", string(data))
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meterup.log")

	logger, err := New(Config{Level: "chatty", Output: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Fatalf("debug enabled for unknown level, want info")
	}
	if !logger.Core().Enabled(0) {
		t.Fatalf("info disabled for unknown level")
	}
}
