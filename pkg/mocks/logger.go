package mocks

import (
	"fmt"
	"sync"

	"github.com/user/orionbanner/pkg/ports"
)

// LogEntry is one recorded log line.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Message   string
}

// Logger records formatted messages. Loggers derived with WithComponent
// share the same record.
type Logger struct {
	component string
	store     *logStore
}

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates a recording logger.
func NewLogger() *Logger {
	return &Logger{store: &logStore{}}
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.add(ports.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.add(ports.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.add(ports.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.add(ports.LevelError, msg, args) }

func (l *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, store: l.store}
}

func (l *Logger) add(level ports.LogLevel, msg string, args []interface{}) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.entries = append(l.store.entries, LogEntry{
		Level:     level,
		Component: l.component,
		Message:   fmt.Sprintf(msg, args...),
	})
}

// Entries returns the recorded lines at or above level.
func (l *Logger) Entries(level ports.LogLevel) []LogEntry {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	var out []LogEntry
	for _, e := range l.store.entries {
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns the number of warn-level lines.
func (l *Logger) Warnings() int {
	n := 0
	for _, e := range l.Entries(ports.LevelWarn) {
		if e.Level == ports.LevelWarn {
			n++
		}
	}
	return n
}

var _ ports.Logger = (*Logger)(nil)
