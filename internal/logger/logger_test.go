package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Level: "info", Format: "json", Output: &buf})
	log.With("input", "products.json").Info("run finished", "records", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	if entry["msg"] != "run finished" {
		t.Errorf("msg = %v", entry["msg"])
	}

	if entry["input"] != "products.json" {
		t.Errorf("input = %v", entry["input"])
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Level: "warn", Output: &buf})
	log.Info("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message logged at warn level")
	}

	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message missing")
	}

	log.SetLevel("debug")
	log.Debug("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug message missing after SetLevel")
	}
}
