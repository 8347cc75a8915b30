// Tests for the structured security logger.
package security

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
)

// newBufferLogger returns a logger writing into the supplied buffer.
func newBufferLogger(buf *bytes.Buffer) *Logger {
	logger := NewLogger()
	logger.output = log.New(buf, "", 0)
	return logger
}

// TestLogger_JSONFormat tests that logs are output in valid JSON format.
func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.Info("Test message")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}

	if entry.Message != "Test message" {
		t.Errorf("Expected message 'Test message', got %q", entry.Message)
	}

	if entry.Level != LogLevelInfo {
		t.Errorf("Expected level INFO, got %q", entry.Level)
	}

	if entry.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

// TestLogger_Levels tests different log levels.
func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(*Logger, string)
		expected LogLevel
	}{
		{"Info", func(l *Logger, m string) { l.Info(m) }, LogLevelInfo},
		{"Warn", func(l *Logger, m string) { l.Warn(m) }, LogLevelWarning},
		{"Error", func(l *Logger, m string) { l.Error(m, nil) }, LogLevelError},
		{"Critical", func(l *Logger, m string) { l.Critical(m, nil) }, LogLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newBufferLogger(&buf)

			tt.logFunc(logger, "message")

			var entry LogEntry
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Log output is not valid JSON: %v", err)
			}

			if entry.Level != tt.expected {
				t.Errorf("Expected level %q, got %q", tt.expected, entry.Level)
			}
		})
	}
}

// TestLogger_ErrorField tests that a wrapped error lands in the error field.
func TestLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.Error("query failed", errors.New("connection refused"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}

	if entry.Error != "connection refused" {
		t.Errorf("Expected error field 'connection refused', got %q", entry.Error)
	}
}

// TestLogger_SecurityEvent tests the structured security event shape.
func TestLogger_SecurityEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.SecurityEvent(EventPolicyDenied, "local", "192.0.2.1", "curl/8.0",
		map[string]interface{}{
			"table":     "employees",
			"operation": "delete",
		})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}

	if entry.Event != EventPolicyDenied {
		t.Errorf("Expected event POLICY_DENIED, got %q", entry.Event)
	}
	if entry.Actor != "local" {
		t.Errorf("Expected actor 'local', got %q", entry.Actor)
	}
	if entry.IPAddress != "192.0.2.1" {
		t.Errorf("Expected IP 192.0.2.1, got %q", entry.IPAddress)
	}
	if entry.Details["table"] != "employees" {
		t.Errorf("Expected details.table 'employees', got %v", entry.Details["table"])
	}
}

// TestLogger_OneLinePerEntry tests that entries are newline-delimited JSON.
func TestLogger_OneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.Info("first")
	logger.Warn("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	for _, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("Line is not valid JSON: %v", err)
		}
	}
}
