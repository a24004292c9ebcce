/*
Package logger provides logging functionality to a snowtrail app by defining the required behavior in [Logger]
and providing an implementation of it with [AppLogger].

# Overview

The Logger interface outputs messages at certain levels of importance,
expressed as [log/slog.Level] values.
[AppLogger] sits on top of a [*log/slog.Logger],
so the handler that logger was built with decides the format and the minimum level.

# LogContext

Every method accepts an optional [*LogContext].
It carries data inessential to the message proper,
such as the error that instigated the log or the caller that spawned a goroutine,
and is logged as a group under [LogContextKey].

# SentryLogger

[SentryLogger] wraps a [SkipLogger] and ships warnings and errors to Sentry
whenever their [LogContext] carries an error.

# SkipLogger

Sometimes the file and line number in a log needs to be configurable.
[SkipLogger] sets the number of frames to skip back in order to reach the desired caller.
*/
package logger
