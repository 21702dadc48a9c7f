// ============================================================================
// occlum-exec - Client for the Occlum execution service
// ============================================================================
//
// Package:     logging
// Description: Process-wide logger configuration
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LoggerConfig holds configuration for all loggers of the process
type LoggerConfig struct {
	// Log level (debug, info, warn, error)
	Level string

	// Output format: "console" or "json"
	Format string

	// Destination, stderr when nil
	Output io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  "info",
		Format: "console",
	}
}

// switchWriter lets loggers created at package init follow Configure
type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

var output = &switchWriter{w: consoleWriter(os.Stderr)}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Configure applies cfg to every logger, including ones created earlier
func Configure(cfg LoggerConfig) {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}

	if strings.EqualFold(cfg.Format, "json") {
		output.set(w)
	} else {
		output.set(consoleWriter(w))
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level).zerolog())
}

// ParseLevel converts a level name to a Level, defaulting to info
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error", "fatal":
		return LevelError
	default:
		return LevelInfo
	}
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
}
