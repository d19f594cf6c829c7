package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" Info ", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{Date("202401"), "date", "202401"},
		{PrevDate("202312"), "prev_date", "202312"},
		{Community("7"), "community", "7"},
		{PrevCommunity("3"), "prev_community", "3"},
		{RunID("abc"), "run_id", "abc"},
		{Similarity(0.5), "similarity", 0.5},
		{Universe(10), "universe", 10},
		{Count(3), "count", 3},
		{Threshold(0.2), "threshold", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("field = %+v, want {%s %v}", tt.field, tt.key, tt.value)
			}
		})
	}

	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
	if f := Duration("timeout", 5*time.Second); f.Value != "5s" {
		t.Errorf("Duration() = %+v", f)
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("snapshot loaded", Date("202401"), Count(12))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "snapshot loaded" {
		t.Errorf("Message = %v, want 'snapshot loaded'", entry.Message)
	}
	if entry.Fields["date"] != "202401" {
		t.Errorf("Fields[date] = %v, want 202401", entry.Fields["date"])
	}
	if entry.Fields["count"] != float64(12) {
		t.Errorf("Fields[count] = %v, want 12", entry.Fields["count"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_NonFiniteFloats(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("supernode", Float64("rich_club", math.NaN()), Float64("radius", math.Inf(1)))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("NaN field must not break JSON output: %v (%s)", err, buf.String())
	}
	if entry.Fields["rich_club"] != "NaN" {
		t.Errorf("rich_club = %v, want NaN", entry.Fields["rich_club"])
	}
	if entry.Fields["radius"] != "+Inf" {
		t.Errorf("radius = %v, want +Inf", entry.Fields["radius"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("tracker"), RunID("run-1"))
	logger.SetLevel(ErrorLevel)

	child.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("Child must observe parent's level change, got %q", buf.String())
	}

	child.Error("kept", Date("202402"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["component"] != "tracker" || entry.Fields["run_id"] != "run-1" {
		t.Errorf("Preset fields missing: %v", entry.Fields)
	}
	if entry.Fields["date"] != "202402" {
		t.Errorf("date field = %v, want 202402", entry.Fields["date"])
	}
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, InfoLevel)

	logger.Warn("snapshot skipped", Date("202403"), Int("attempt", 1))

	line := buf.String()
	for _, want := range []string{`level=WARN`, `msg="snapshot skipped"`, `date="202403"`, `attempt=1`} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
	// Keys are sorted for stable output
	if strings.Index(line, "attempt=") > strings.Index(line, "date=") {
		t.Errorf("Expected sorted keys in %q", line)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	if logger.With(Count(1)) == nil {
		t.Error("With() returned nil")
	}
	if logger.GetLevel() != InfoLevel {
		t.Error("Expected InfoLevel")
	}
}

func TestSetDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))

	DefaultLogger().Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("Expected default logger to write to buffer, got %q", buf.String())
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	op := StartTimer(logger, "describe", Date("202401"))
	if d := op.End(Count(4)); d < 0 {
		t.Errorf("Negative duration %v", d)
	}

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("Expected latency field")
	}
	if entry.Fields["count"] != float64(4) {
		t.Errorf("count = %v, want 4", entry.Fields["count"])
	}

	buf.Reset()
	op.EndError(errors.New("failed"))
	if !strings.Contains(buf.String(), `"level":"ERROR"`) || !strings.Contains(buf.String(), "failed") {
		t.Errorf("Expected error entry, got %q", buf.String())
	}
}
