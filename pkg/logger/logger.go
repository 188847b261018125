package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger provides leveled logging for extraction workers.
// It is safe for concurrent use.
type Logger struct {
	level   LogLevel
	verbose bool
	out     *log.Logger
}

// NewLogger creates a logger writing to stderr
func NewLogger(level string, verbose bool) *Logger {
	return NewLoggerWithWriter(os.Stderr, level, verbose)
}

// NewLoggerWithWriter creates a logger writing to w
func NewLoggerWithWriter(w io.Writer, level string, verbose bool) *Logger {
	return &Logger{
		level:   parseLogLevel(level),
		verbose: verbose,
		out:     log.New(w, "", log.LstdFlags),
	}
}

// Debug logs debug information (only in debug mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.log("DEBUG", fmt.Sprintf(format, args...))
	}
}

// Info logs informational messages (only in verbose mode)
func (l *Logger) Info(format string, args ...interface{}) {
	if l.verbose && l.level <= LevelInfo {
		l.log("INFO", fmt.Sprintf(format, args...))
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.log("WARN", fmt.Sprintf(format, args...))
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.log("ERROR", fmt.Sprintf(format, args...))
	}
}

// Progress logs step-by-step details, only in verbose mode
func (l *Logger) Progress(emoji, format string, args ...interface{}) {
	if l.verbose {
		l.out.Printf("%s %s", emoji, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) log(level, message string) {
	l.out.Printf("[%s] %s", level, message)
}

// parseLogLevel converts string level to LogLevel
func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// DefaultLogger returns a default logger instance
func DefaultLogger() *Logger {
	return NewLogger("info", false)
}

// Discard returns a logger that drops everything, used by tests and embedders
func Discard() *Logger {
	return NewLoggerWithWriter(io.Discard, "error", false)
}
