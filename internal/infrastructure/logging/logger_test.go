package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ovationworks/cueboard-core/internal/infrastructure/config"
)

func captureLogger(t *testing.T, cfg config.LoggingConfig) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithWriter(cfg, "test", &buf), &buf
}

func TestNew_JSONCarriesServiceFields(t *testing.T) {
	logger, buf := captureLogger(t, config.LoggingConfig{Level: "info", Format: "json"})

	logger.Info("relay send", "cue", "blackout")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["service"] != "cueboard" {
		t.Errorf("service = %v, want cueboard", entry["service"])
	}
	if entry["version"] != "test" {
		t.Errorf("version = %v, want test", entry["version"])
	}
	if entry["cue"] != "blackout" {
		t.Errorf("cue = %v, want blackout", entry["cue"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	logger, buf := captureLogger(t, config.LoggingConfig{Level: "warn", Format: "json"})

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info entry emitted at warn level: %s", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn entry suppressed at warn level")
	}
}

func TestNew_TextFormat(t *testing.T) {
	logger, buf := captureLogger(t, config.LoggingConfig{Level: "info", Format: "text"})

	logger.Info("starting")

	out := buf.String()
	if !strings.Contains(out, "msg=starting") {
		t.Errorf("text output missing message: %s", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("text format produced JSON: %s", out)
	}
}

func TestComponent_TagsEntries(t *testing.T) {
	logger, buf := captureLogger(t, config.LoggingConfig{Level: "info", Format: "json"})

	logger.Component("relay").Info("sent")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["component"] != "relay" {
		t.Errorf("component = %v, want relay", entry["component"])
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"DeBuG", slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := levelFor(tt.input); got != tt.want {
			t.Errorf("levelFor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("expected non-nil default logger")
	}
}
