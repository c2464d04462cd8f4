package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level orders log entries by importance. Entries below the logger's level
// are dropped.
type Level int

const (
	Trace Level = iota
	Info
	Warn
	Silent
)

func (lv Level) String() string {
	switch lv {
	case Trace:
		return "TRACE"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	default:
		return "SILENT"
	}
}

// Logger is a handle passed to the components that need to report. It is
// never global: each session builds its own and hands it down.
//
// Identical consecutive entries are folded into a single line carrying a
// repeat count, which keeps per-access warnings (a ROM hammering the
// unusable region, say) from flooding the output.
type Logger struct {
	mu  sync.Mutex
	out *log.Logger

	level    Level
	deferred Level
	pending  bool

	last    string
	repeats int
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", log.Ltime), level: level}
}

// Default returns a logger on stderr at Info.
func Default() *Logger { return New(os.Stderr, Info) }

// Discard returns a logger that drops everything.
func Discard() *Logger { return New(io.Discard, Silent) }

// SetLevel changes the level immediately and cancels any deferred change.
func (l *Logger) SetLevel(lv Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = lv
	l.pending = false
}

// Level returns the current level.
func (l *Logger) Level() Level {
	if l == nil {
		return Silent
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Defer schedules lv to take effect on the next Release.
func (l *Logger) Defer(lv Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deferred = lv
	l.pending = true
}

// Release applies a deferred level, if any. It is called once the boot
// image has been unmapped so that boot code is not traced.
func (l *Logger) Release() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.pending {
		return
	}
	l.level = l.deferred
	l.pending = false
	l.emit(fmt.Sprintf("%s: %s: level now %s", Info, "log", l.level))
}

// Enabled reports whether entries at lv would be written.
func (l *Logger) Enabled(lv Level) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return lv >= l.level && lv != Silent
}

func (l *Logger) Tracef(tag, format string, args ...interface{}) {
	l.logf(Trace, tag, format, args...)
}

func (l *Logger) Infof(tag, format string, args ...interface{}) {
	l.logf(Info, tag, format, args...)
}

func (l *Logger) Warnf(tag, format string, args ...interface{}) {
	l.logf(Warn, tag, format, args...)
}

// Flush writes out a pending repeat count.
func (l *Logger) Flush() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushRepeats()
}

func (l *Logger) logf(lv Level, tag, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if lv < l.level || l.level == Silent {
		return
	}
	detail := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " ")
	l.emit(fmt.Sprintf("%s: %s: %s", lv, tag, detail))
}

// emit must be called with mu held.
func (l *Logger) emit(line string) {
	if line == l.last {
		l.repeats++
		return
	}
	l.flushRepeats()
	l.last = line
	l.out.Print(line)
}

func (l *Logger) flushRepeats() {
	if l.repeats > 0 {
		l.out.Printf("%s (repeat x%d)", l.last, l.repeats)
		l.repeats = 0
	}
}
