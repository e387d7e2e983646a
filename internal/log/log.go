// Package log writes debug logs for cursorword.
//
// Each line carries a timestamp, level, category and key=value fields.
// Nothing is written until one of the Init functions runs, which the CLI
// only does under --debug (or CURSORWORD_DEBUG=true). Every line is also
// published on a broker so a TUI can show it live.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/cursorword/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Category groups related log messages.
type Category string

const (
	CatConfig    Category = "config"    // config loading, reloads and edits
	CatSegment   Category = "segment"   // dictionary loading, segmentation fallbacks
	CatSearch    Category = "search"    // pattern compilation and scans
	CatHighlight Category = "highlight" // live and persistent passes
	CatStore     Category = "store"     // document state database
	CatWatcher   Category = "watcher"   // document file events
	CatUI        Category = "ui"
	CatCache     Category = "cache"
	CatTrace     Category = "trace"
)

const timeLayout = "2006-01-02T15:04:05"

type sink struct {
	mu       sync.Mutex
	w        io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	stdMu sync.RWMutex
	std   *sink
)

func install(w io.Writer) {
	stdMu.Lock()
	defer stdMu.Unlock()
	if std != nil && std.broker != nil {
		std.broker.Close()
	}
	std = &sink{w: w, enabled: true, minLevel: LevelDebug, broker: pubsub.NewBroker[string]()}
}

func current() *sink {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// Init appends log lines to the file at path. The returned func closes it.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G304: user-chosen debug log
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	install(f)
	return func() { _ = f.Close() }, nil
}

// InitWithTeaLog opens path through tea.LogToFile, so Bubble Tea's own
// output lands in the same file.
func InitWithTeaLog(path, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	install(f)
	return func() { _ = f.Close() }, nil
}

// InitWriter sends log lines to w. Tests use it to capture output.
func InitWriter(w io.Writer) {
	install(w)
}

// SetEnabled toggles logging on or off.
func SetEnabled(enabled bool) {
	if s := current(); s != nil {
		s.mu.Lock()
		s.enabled = enabled
		s.mu.Unlock()
	}
}

// SetMinLevel drops lines below level.
func SetMinLevel(level Level) {
	if s := current(); s != nil {
		s.mu.Lock()
		s.minLevel = level
		s.mu.Unlock()
	}
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }
func Info(cat Category, msg string, fields ...any)  { write(LevelInfo, cat, msg, fields) }
func Warn(cat Category, msg string, fields ...any)  { write(LevelWarn, cat, msg, fields) }
func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the error field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	write(LevelError, cat, msg, append(fields, "error", err))
}

func write(level Level, cat Category, msg string, fields []any) {
	s := current()
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || level < s.minLevel {
		return
	}

	// 2026-10-19T10:45:00 [DEBUG] [search] message key=value word="two words"
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", time.Now().Format(timeLayout), level, cat, msg)
	for i := 0; i < len(fields); i += 2 {
		if i+1 == len(fields) {
			fmt.Fprintf(&b, " %v=<missing>", fields[i])
			break
		}
		fmt.Fprintf(&b, " %v=%s", fields[i], formatValue(fields[i+1]))
	}
	b.WriteByte('\n')
	line := b.String()

	if s.w != nil {
		_, _ = io.WriteString(s.w, line)
	}
	s.broker.Publish(pubsub.LoggedEvent, line)
}

// formatValue quotes values that would otherwise be ambiguous in a
// key=value line.
func formatValue(v any) string {
	str := fmt.Sprint(v)
	if str == "" || strings.ContainsAny(str, " \t\n\"=") {
		return fmt.Sprintf("%q", str)
	}
	return str
}

// LogEvent is a published log line.
type LogEvent = pubsub.Event[string]

// LogListener delivers log lines to a Bubble Tea program.
type LogListener = pubsub.ContinuousListener[string]

// NewListener subscribes to log lines until ctx is done. It returns nil
// before any Init.
func NewListener(ctx context.Context) *LogListener {
	s := current()
	if s == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, s.broker)
}
