package mocks

import (
	"fmt"
	"sync"

	"github.com/user/chromakey/pkg/ports"
)

// LogEntry is one message recorded by Logger.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Message   string
}

// Logger is a mock implementation of ports.Logger that records formatted
// messages. Loggers derived with WithComponent share the same record.
type Logger struct {
	component string
	log       *entries
}

type entries struct {
	mu   sync.Mutex
	list []LogEntry
}

// NewLogger creates a new mock Logger.
func NewLogger() *Logger {
	return &Logger{log: &entries{}}
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.add(ports.LevelDebug, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.add(ports.LevelInfo, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.add(ports.LevelWarn, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.add(ports.LevelError, msg, args) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, log: m.log}
}

func (m *Logger) add(level ports.LogLevel, msg string, args []interface{}) {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	m.log.list = append(m.log.list, LogEntry{
		Level:     level,
		Component: m.component,
		Message:   fmt.Sprintf(msg, args...),
	})
}

// Entries returns the recorded messages at the given level.
func (m *Logger) Entries(level ports.LogLevel) []LogEntry {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	var out []LogEntry
	for _, e := range m.log.list {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

var _ ports.Logger = (*Logger)(nil)
