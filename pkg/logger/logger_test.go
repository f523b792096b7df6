package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLogger_ValidLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := InitLogger(tt.level, &buf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			logger := GetLogger()
			if logger == nil {
				t.Fatal("GetLogger() returned nil")
			}
		})
	}
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger("invalid", nil)
	if err == nil {
		t.Error("expected error for invalid log level, got nil")
	}
}

func TestInitLogger_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitLogger("info", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	GetLogger().Info("hello from test")

	if !strings.Contains(buf.String(), "hello from test") {
		t.Errorf("log output not written to the given writer, got %q", buf.String())
	}
}

func TestInitLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := InitLogger("warn", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	GetLogger().Info("should be filtered")
	GetLogger().Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message logged despite warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing")
	}
}
