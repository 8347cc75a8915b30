// Structured JSON logging for security-relevant events.
package security

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// LogLevel indicates the severity of a log entry.
type LogLevel string

const (
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// SecurityEventType labels notable security events for monitoring.
type SecurityEventType string

const (
	EventPolicyDenied        SecurityEventType = "POLICY_DENIED"
	EventRateLimitExceeded   SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventConstraintViolation SecurityEventType = "CONSTRAINT_VIOLATION"
	EventValidationFailure   SecurityEventType = "VALIDATION_FAILURE"
)

// LogEntry is the JSON document written for every log line.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Event     SecurityEventType      `json:"event,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Logger writes structured JSON log entries, one object per line.
type Logger struct {
	output *log.Logger
}

// NewLogger creates a logger writing to stdout.
func NewLogger() *Logger {
	return &Logger{
		output: log.New(os.Stdout, "", 0),
	}
}

func (l *Logger) write(entry LogEntry) {
	entry.Timestamp = time.Now().UTC()

	b, err := json.Marshal(entry)
	if err != nil {
		// Fall back to plain text rather than dropping the event.
		l.output.Printf(`{"level":"ERROR","message":"failed to marshal log entry: %v"}`, err)
		return
	}
	l.output.Println(string(b))
}

// Info logs an informational message.
func (l *Logger) Info(message string) {
	l.write(LogEntry{Level: LogLevelInfo, Message: message})
}

// Warn logs a warning message.
func (l *Logger) Warn(message string) {
	l.write(LogEntry{Level: LogLevelWarning, Message: message})
}

// Error logs an error with its message. err may be nil.
func (l *Logger) Error(message string, err error) {
	entry := LogEntry{Level: LogLevelError, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// Critical logs an error that requires operator attention. err may be nil.
func (l *Logger) Critical(message string, err error) {
	entry := LogEntry{Level: LogLevelCritical, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// SecurityEvent logs a structured security event with actor context.
func (l *Logger) SecurityEvent(event SecurityEventType, actor, ip, userAgent string, details map[string]interface{}) {
	l.write(LogEntry{
		Level:     LogLevelWarning,
		Message:   string(event),
		Event:     event,
		Actor:     actor,
		IPAddress: ip,
		UserAgent: userAgent,
		Details:   details,
	})
}
