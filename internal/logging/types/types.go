// Package types holds the logging contracts shared by the logger and its adapters.
package types

import "time"

// LogLevel orders entries by severity; entries below the logger level are dropped
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = [...]string{"debug", "info", "warn", "error", "fatal"}

func (l LogLevel) String() string {
	if l < DebugLevel || l > FatalLevel {
		return "info"
	}
	return levelNames[l]
}

// LogEntry is what a logger hands to each adapter
type LogEntry struct {
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogAdapter is one output of a logger: stdout, a file.
type LogAdapter interface {
	Name() string
	Write(entry *LogEntry) error
	// Health reports whether the adapter can still accept writes
	Health() error
	Close() error
}

// Logger is what the rest of the module logs through. Request handlers
// derive per-request loggers with WithField("request_id", ...).
type Logger interface {
	Debug(message string, fields ...map[string]interface{})
	Info(message string, fields ...map[string]interface{})
	Warn(message string, fields ...map[string]interface{})
	Error(message string, fields ...map[string]interface{})
	Fatal(message string, fields ...map[string]interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger

	SetLevel(level LogLevel)
	GetLevel() LogLevel
	Close() error
}
