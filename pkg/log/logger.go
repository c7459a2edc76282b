// Package log provides the structured logging facade for the carprice
// pipeline. It exposes a minimal slog-style interface backed by zerolog's
// console writer, so a single analytical run produces human-readable
// output while error types that implement zerolog.LogObjectMarshaler are
// still logged with their structured fields.
package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the structured logging interface used across the pipeline.
// Fields are alternating key/value pairs, as in log/slog.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a Logger that includes the given fields in every
	// subsequent message.
	With(fields ...any) Logger
}

var (
	mu   sync.RWMutex
	root = newZerologLogger(defaultZerolog())
)

func defaultZerolog() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// SetupLogger configures the package-level logger with the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func SetupLogger(loglevel string) {
	level, err := zerolog.ParseLevel(loglevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()

	mu.Lock()
	defer mu.Unlock()
	root = newZerologLogger(zl)
}

// GetLogger returns the package-level logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// GetLoggerWithName returns the package-level logger with a "component"
// field attached, e.g. GetLoggerWithName("ensemble.extratrees").
func GetLoggerWithName(name string) Logger {
	return GetLogger().With("component", name)
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

func newZerologLogger(zl zerolog.Logger) *zerologLogger {
	return &zerologLogger{zl: zl}
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return newZerologLogger(ctx.Logger())
}

func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	i := 0
	// A bare error as the first field becomes the event's error.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			if obj, ok := err.(zerolog.LogObjectMarshaler); ok {
				e = e.Object("error", obj)
			} else {
				e = e.Err(err)
			}
			i = 1
		}
	}
	for ; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			if obj, ok := v.(zerolog.LogObjectMarshaler); ok {
				e = e.Object(key, obj)
			} else {
				e = e.AnErr(key, v)
			}
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
