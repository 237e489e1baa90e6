// Package logger builds the process-wide slog.Logger.
//
// Records fan out to the console handler at the configured level, to a JSON
// handler on stderr for errors, and optionally to a size-rotated JSON file.
package logger

import (
	"io"
	"log/slog"
	"os"

	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level  string
	Format string
	// File enables an additional rotated JSON log when non-empty.
	File string

	Stdout io.Writer
	Stderr io.Writer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// ParseLevel converts debug/info/warn/error (any case) into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, oops.With("log_level", s).Wrap(apperrors.ErrInvalidLogLevel)
	}
	return level, nil
}

// New returns the logger and a closer for the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	format := FormatPlain
	if opts.Format != "" {
		format, err = ParseFormat(opts.Format)
		if err != nil {
			return nil, nil, oops.With("log_format", opts.Format).Wrap(apperrors.ErrInvalidLogFormat)
		}
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var console slog.Handler
	consoleOpts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJson:
		console = slog.NewJSONHandler(stdout, consoleOpts)
	default:
		console = slog.NewTextHandler(stdout, consoleOpts)
	}

	handlers := []slog.Handler{
		console,
		slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: slog.LevelError}),
	}

	var closer io.Closer = closerFunc(func() error { return nil })
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: level}))
		closer = rotating
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
