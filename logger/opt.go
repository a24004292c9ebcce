package logger

import (
	"log/slog"
	"path"
	"strconv"

	"github.com/fatih/color"
)

// A LoggerOptFn is a functional option configuring an AppLogger when constructing a new one.
type LoggerOptFn func(*AppLogger)

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *AppLogger) {
		l.skip = skip
	}
}

// ColorizeLevel colors the level of a log message in terminal output.
// Use it as, or within, a [log/slog.HandlerOptions.ReplaceAttr].
func ColorizeLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}

	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var colorizer func(string, ...any) string
	switch {
	case lvl >= slog.LevelError:
		colorizer = color.RedString
	case lvl >= slog.LevelWarn:
		colorizer = color.YellowString
	case lvl >= slog.LevelInfo:
		colorizer = color.BlueString
	default:
		colorizer = color.WhiteString
	}

	return slog.String(a.Key, colorizer("%s", lvl.String()))
}

// TruncSourceAttr shortens the source attribute of a log message
// to the file, its parent directory and the line number.
// Use it as, or within, a [log/slog.HandlerOptions.ReplaceAttr].
//
//	/home/app/snowtrail/snowflake/provider.go:12 => snowflake/provider.go:12
func TruncSourceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey || len(groups) > 0 {
		return a
	}

	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}

	return slog.String(a.Key, immediateFilepath(src.File)+":"+strconv.Itoa(src.Line))
}

// immediateFilepath trims file down to its parent directory and itself.
func immediateFilepath(file string) string {
	dir, name := path.Split(file)
	if dir == "" {
		return name
	}

	return path.Join(path.Base(dir), name)
}
