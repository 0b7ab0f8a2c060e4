// Package logging provides the leveled logger passed to every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is a log severity. Lower values are more severe.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel converts a level name to a Level. Unknown names map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

var levelColors = map[Level]*color.Color{
	LevelError: color.New(color.FgRed, color.Bold),
	LevelWarn:  color.New(color.FgYellow),
	LevelInfo:  color.New(color.FgCyan),
	LevelDebug: color.New(color.FgHiBlack),
}

// sink is the shared output of a logger and all loggers derived from it.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	file  *os.File
	color bool
}

// Logger writes leveled, timestamped lines tagged with a component name.
// A nil *Logger is a valid no-op logger.
type Logger struct {
	sink      *sink
	level     Level
	component string
}

// Options configures New.
type Options struct {
	// Level is the most verbose level written.
	Level Level
	// Output receives log lines. Nil means stderr; io.Discard silences console output.
	Output io.Writer
	// FilePath, when set, additionally appends log lines to this file.
	FilePath string
	// Color forces level coloring on or off. Nil detects from the output.
	Color *bool
}

// New creates a logger. Parent directories of FilePath are created if needed.
func New(opts Options) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	s := &sink{out: out}
	if opts.Color != nil {
		s.color = *opts.Color
	} else if f, ok := out.(*os.File); ok {
		s.color = f == os.Stderr && !color.NoColor
	}

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.file = f
	}

	return &Logger{sink: s, level: opts.Level}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return nil
}

// With returns a logger sharing the same output, tagged with component.
func (l *Logger) With(component string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sink: l.sink, level: l.level, component: component}
}

// Level returns the configured level.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelError
	}
	return l.level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.sink != nil && level <= l.level
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05.000")
	tag := level.String()

	var prefix string
	if l.component != "" {
		prefix = "[" + l.component + "] "
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	consoleTag := tag
	if l.sink.color {
		consoleTag = levelColors[level].Sprint(tag)
	}
	fmt.Fprintf(l.sink.out, "[%s] [%s] %s%s\n", timestamp, consoleTag, prefix, msg)

	if l.sink.file != nil {
		fmt.Fprintf(l.sink.file, "[%s] [%s] %s%s\n", timestamp, tag, prefix, msg)
		l.sink.file.Sync()
	}
}

// Close closes the log file, if any.
// Safe to call on a nil logger or a logger without a file.
func (l *Logger) Close() error {
	if l == nil || l.sink == nil || l.sink.file == nil {
		return nil
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}
