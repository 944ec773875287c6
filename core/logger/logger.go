package logger

import (
	"io"
	"log/slog"
	"os"
)

// Option configures a logger created by New.
type Option func(*options)

type options struct {
	level  slog.Leveler
	output io.Writer
}

// WithLevel sets the minimum level. Default is slog.LevelInfo.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		if level != nil {
			o.level = level
		}
	}
}

// WithOutput sets the destination writer. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// New creates a logger. Without options it writes text records at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	return slog.New(slog.NewTextHandler(o.output, &slog.HandlerOptions{Level: o.level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
