package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is a logging severity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides leveled logging throughout the application. Info, warn and
// debug lines go to out, errors go to errOut.
type Logger struct {
	level Level
	out   *log.Logger
	err   *log.Logger
	color bool
}

// NewLoggerWithWriters creates a Logger with explicit sinks. Colour codes are
// only emitted when out is a terminal-like *os.File.
func NewLoggerWithWriters(out, errOut io.Writer, level Level) *Logger {
	_, isFile := out.(*os.File)
	return &Logger{
		level: level,
		out:   log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
		color: isFile,
	}
}

// NewNopLogger discards everything; handy in tests.
func NewNopLogger() *Logger {
	return NewLoggerWithWriters(io.Discard, io.Discard, LevelError+1)
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) tag(name, color string) string {
	if !l.color {
		return fmt.Sprintf("%-5s", name)
	}
	return fmt.Sprintf("\033[%sm%-5s\033[0m", color, name)
}

func (l *Logger) write(dst *log.Logger, level Level, tag, format string, args ...any) {
	if level < l.level {
		return
	}
	dst.Printf("[%s] %s %s", l.timestamp(), tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.write(l.out, LevelInfo, l.tag("INFO", "32"), format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.write(l.out, LevelWarn, l.tag("WARN", "33"), format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.write(l.err, LevelError, l.tag("ERROR", "31"), format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.write(l.out, LevelDebug, l.tag("DEBUG", "36"), format, args...)
}
