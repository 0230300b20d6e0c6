package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"jobportal-web/internal/logging/types"
)

// sink is shared by a logger and every logger derived from it through
// WithField/WithFields, so adapter and level changes apply to all of them.
type sink struct {
	mu       sync.RWMutex
	adapters map[string]types.LogAdapter
	level    LogLevel
}

// MultiLogger is the main implementation of the Logger interface
type MultiLogger struct {
	sink   *sink
	fields map[string]interface{}
}

// NewMultiLogger creates a new MultiLogger instance
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{
		sink: &sink{
			adapters: make(map[string]types.LogAdapter),
			level:    InfoLevel,
		},
		fields: make(map[string]interface{}),
	}
}

// NewNopLogger returns a logger with no adapters; every entry is dropped.
func NewNopLogger() *MultiLogger {
	l := NewMultiLogger()
	l.SetLevel(FatalLevel + 1)
	return l
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.Log(DebugLevel, message, fields...)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.Log(InfoLevel, message, fields...)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.Log(WarnLevel, message, fields...)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.Log(ErrorLevel, message, fields...)
}

// Fatal logs a fatal message, closes every adapter and exits
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.Log(FatalLevel, message, fields...)
	l.Close()
	os.Exit(1)
}

// Log logs a message at the specified level
func (l *MultiLogger) Log(level LogLevel, message string, fields ...map[string]interface{}) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	if level < l.sink.level {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    l.mergeFields(fields...),
	}

	for name, adapter := range l.sink.adapters {
		if err := adapter.Write(entry); err != nil {
			// stderr, not the logger itself, to avoid recursion
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

// WithField returns a new logger with the specified field
func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	fields := l.copyFields()
	fields[key] = value

	return &MultiLogger{sink: l.sink, fields: fields}
}

// WithFields returns a new logger with the specified fields
func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	merged := l.copyFields()
	for k, v := range fields {
		merged[k] = v
	}

	return &MultiLogger{sink: l.sink, fields: merged}
}

func (l *MultiLogger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

func (l *MultiLogger) GetLevel() LogLevel {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	return l.sink.level
}

// AddAdapter adds a new log adapter
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	name := adapter.Name()
	if _, exists := l.sink.adapters[name]; exists {
		return fmt.Errorf("adapter %s already exists", name)
	}

	l.sink.adapters[name] = adapter
	return nil
}

// RemoveAdapter closes and removes a log adapter
func (l *MultiLogger) RemoveAdapter(adapterName string) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	adapter, exists := l.sink.adapters[adapterName]
	if !exists {
		return fmt.Errorf("adapter %s not found", adapterName)
	}

	if err := adapter.Close(); err != nil {
		return fmt.Errorf("failed to close adapter %s: %w", adapterName, err)
	}

	delete(l.sink.adapters, adapterName)
	return nil
}

// Close closes all adapters
func (l *MultiLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	var failures []string
	for name, adapter := range l.sink.adapters {
		if err := adapter.Close(); err != nil {
			failures = append(failures, fmt.Sprintf("adapter %s: %v", name, err))
		}
	}

	if len(failures) > 0 {
		sort.Strings(failures)
		return fmt.Errorf("failed to close adapters: %s", strings.Join(failures, ", "))
	}

	return nil
}

func (l *MultiLogger) copyFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return fields
}

func (l *MultiLogger) mergeFields(additional ...map[string]interface{}) map[string]interface{} {
	fields := l.copyFields()

	for _, fieldMap := range additional {
		for k, v := range fieldMap {
			fields[k] = v
		}
	}

	return fields
}

// ParseLogLevel parses a string log level into LogLevel
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
