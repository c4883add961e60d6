package logger

import (
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Options struct {
	Buffer io.Writer
	Level  Level
	Type   Type
}

var DefaultLogger = New(Options{os.Stdout, DefaultLevel, TypeText})

type logger struct {
	buffer io.Writer
	*slog.Logger
}

func New(opts Options) Logger {
	if opts.Buffer == nil {
		opts.Buffer = os.Stdout
	}
	var handler slog.Handler
	switch opts.Type {
	case TypeJSON:
		handler = slog.NewJSONHandler(opts.Buffer, &slog.HandlerOptions{
			Level: levels[opts.Level],
		})
	case TypeText:
		fallthrough
	default:
		handler = slog.NewTextHandler(opts.Buffer, &slog.HandlerOptions{
			Level: levels[opts.Level],
		})
	}
	return &logger{
		buffer: opts.Buffer,
		Logger: slog.New(handler),
	}
}

// With returns a logger that adds args to every record. Loggers that are
// not built by New are returned unchanged.
func With(l Logger, args ...any) Logger {
	if base, ok := l.(*logger); ok {
		return &logger{buffer: base.buffer, Logger: base.Logger.With(args...)}
	}
	return l
}

type nop struct{}

// Nop discards everything.
var Nop Logger = nop{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}
