// Package xlog is the small structured logger the library-cache
// orchestrator writes diagnostics through: build failures, library-cache
// timeout notices, and unreadable or mismatched cache files. Parse failures
// are not logged here; the cmd/typeguessd commands return them as errors.
// It wraps a plain io.Writer so tests
// can capture output, and colors level prefixes the way a terminal-facing
// CLI does.
package xlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Level is a log severity.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "INFO"
}

// Field is one structured key/value pair appended after the message.
type Field struct {
	Key   string
	Value any
}

// F builds a Field inline at the call site: xlog.F("file", path).
func F(key string, value any) Field { return Field{Key: key, Value: value} }

// Logger writes leveled, colored lines to an underlying writer. The zero
// value is not usable; use New or Default.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	// color is looked up per level at write time so tests toggling
	// color.NoColor mid-run behave like the teacher's color.NoColor dance.
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger { return &Logger{w: w} }

var defaultOnce sync.Once
var defaultLogger *Logger

// Default returns a process-wide Logger writing to stderr, built once.
func Default() *Logger {
	defaultOnce.Do(func() { defaultLogger = New(os.Stderr) })
	return defaultLogger
}

func colorFor(level Level) *color.Color {
	switch level {
	case LevelWarn:
		return color.New(color.FgYellow, color.Bold)
	case LevelError:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan, color.Bold)
	}
}

func (l *Logger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := colorFor(level).Sprintf("[%s]", level.String())
	fmt.Fprintf(l.w, "%s %s", prefix, msg)
	for _, f := range fields {
		fmt.Fprintf(l.w, " %s=%v", f.Key, f.Value)
	}
	fmt.Fprintln(l.w)
}

func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }
