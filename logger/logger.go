package logger

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// knownFrames is the number of frames between a caller and runtime.Callers:
// runtime.Callers, AppLogger.log and the exported AppLogger method.
const knownFrames = 3

// LogContextKey is the attribute key a [*LogContext] is logged under.
const LogContextKey = "log_context"

// The Logger interface defines the levels a logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	LogLevel() slog.Level
}

// The SkipLogger interface defines a Logger that scrolls back
// the number of frames provided in order to ascertain the call site.
type SkipLogger interface {
	AddSkip(i int) SkipLogger
	Skip() int
	Logger
}

// AppLogger implements Logger using log/slog.
type AppLogger struct {
	l    *slog.Logger
	skip int
}

// New constructs an AppLogger backed by l.
// If l is nil, [log/slog.Default] is used.
func New(l *slog.Logger, opts ...LoggerOptFn) SkipLogger {
	if l == nil {
		l = slog.Default()
	}

	al := &AppLogger{l: l}
	for _, opt := range opts {
		opt(al)
	}

	return al
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
//
// Use Skip to get the current skip amount
// when needing to add to it with AddSkip.
func (l *AppLogger) AddSkip(i int) SkipLogger {
	newl := *l
	newl.skip = i
	return &newl
}

// Debug writes a debug log.
func (l *AppLogger) Debug(msg string, ctx *LogContext) { l.log(slog.LevelDebug, msg, ctx) }

// Error writes an error log.
func (l *AppLogger) Error(msg string, ctx *LogContext) { l.log(slog.LevelError, msg, ctx) }

// Info writes an info log.
func (l *AppLogger) Info(msg string, ctx *LogContext) { l.log(slog.LevelInfo, msg, ctx) }

// Warn writes a warning log.
func (l *AppLogger) Warn(msg string, ctx *LogContext) { l.log(slog.LevelWarn, msg, ctx) }

// LogLevel returns the lowest level the AppLogger emits.
func (l *AppLogger) LogLevel() slog.Level {
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.l.Enabled(context.Background(), lvl) {
			return lvl
		}
	}

	return slog.LevelError
}

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (l *AppLogger) Skip() int { return l.skip }

// log builds the record by hand so the source attribute
// points at the caller of the exported method, not at AppLogger.
func (l *AppLogger) log(level slog.Level, msg string, ctx *LogContext) {
	c := context.Background()
	if !l.l.Enabled(c, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(knownFrames+l.skip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if ctx != nil {
		r.AddAttrs(slog.Any(LogContextKey, ctx))
	}

	_ = l.l.Handler().Handle(c, r)
}
