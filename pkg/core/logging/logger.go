// ============================================================================
// occlum-exec - Client for the Occlum execution service
// ============================================================================
//
// Package:     logging
// Description: Key/value logger facade over zerolog
// License:     MIT
// ============================================================================

package logging

import (
	"github.com/rs/zerolog"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a named component logger
type Logger struct {
	zl   zerolog.Logger
	name string
}

// New creates a logger for a component. Loggers created before Configure
// still follow the configured output and level.
func New(name string) *Logger {
	return &Logger{
		zl:   zerolog.New(output).With().Timestamp().Str("component", name).Logger(),
		name: name,
	}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a logger that drops entries below level
func (l *Logger) WithLevel(level Level) *Logger {
	return &Logger{
		zl:   l.zl.Level(level.zerolog()),
		name: l.name,
	}
}

// With returns a logger that adds the key-value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		zl:   l.zl.With().Fields(toFields(keysAndValues...)).Logger(),
		name: l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.zl.Debug().Fields(toFields(keysAndValues...)).Msg(msg)
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.zl.Info().Fields(toFields(keysAndValues...)).Msg(msg)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.zl.Warn().Fields(toFields(keysAndValues...)).Msg(msg)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.zl.Error().Fields(toFields(keysAndValues...)).Msg(msg)
}

// toFields converts key-value pairs to a field map, skipping non-string keys
// and a trailing orphan key
func toFields(keysAndValues ...interface{}) map[string]interface{} {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
