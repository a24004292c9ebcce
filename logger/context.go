package logger

import (
	"fmt"
	"log/slog"
	"runtime"
)

const callerTmpl = "%s:%d"

var (
	_ slog.LogValuer = LogContext{}
)

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller names the code that spawned the process doing the logging.
	//
	// Caller helps goroutines identify the callers of the process that spawned it.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	//
	// Values implementing [log/slog.LogValuer] are resolved by the handler,
	// so secrets ought to be masked there.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error
}

// LogValue converts LogContext into a group,
// eliminating zero-value fields.
//
// LogValue implements [log/slog.LogValuer].
func (lc LogContext) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 3)
	if lc.Caller != "" {
		attrs = append(attrs, slog.String("caller", lc.Caller))
	}

	if lc.Error != nil {
		attrs = append(attrs, slog.String("error", lc.Error.Error()))
	}

	if len(lc.Data) > 0 {
		data := make([]slog.Attr, 0, len(lc.Data))
		for k, v := range lc.Data {
			data = append(data, slog.Any(k, v))
		}

		attrs = append(attrs, slog.Attr{Key: "data", Value: slog.GroupValue(data...)})
	}

	return slog.GroupValue(attrs...)
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
//
//	myFunc() { 		<- returns this caller
//		func() {
//			CurrentCaller()
//		}()
//	}
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}
