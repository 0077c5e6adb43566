package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	LogLevel  string `doc:"log from debug, info, warn or error"`
	LogFile   string `doc:"append logs to file"`
	LogFormat string `doc:"format logs as text or json"         default:"text"`
	LogSource bool   `doc:"add source file and line to logs"`
}

var errDiscard = errors.New("discard logs")

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

func output(option string) (io.Writer, error) {
	switch option {
	case "", "-":
		return os.Stdout, nil
	case os.DevNull:
		return nil, errDiscard
	default:
		return os.OpenFile(option, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	}
}

// New builds a logger from options. Invalid options fall back to their
// default and the fallback is reported through the returned logger.
func New(options *Options) *slog.Logger {
	level, ok := level(options.LogLevel)
	if !ok {
		options.LogLevel = ""
		logger := New(options)
		logger.Warn("could not parse logger level")
		return logger
	}
	opts := slog.HandlerOptions{Level: level, AddSource: options.LogSource}

	out, err := output(options.LogFile)
	switch {
	case errors.Is(err, errDiscard):
		return slog.New(slog.DiscardHandler)
	case err != nil:
		options.LogFile = ""
		logger := New(options)
		logger.Warn("could not open logger file", "err", err)
		return logger
	}

	switch strings.ToLower(options.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(out, &opts))
	case "text":
		return slog.New(slog.NewTextHandler(out, &opts))
	default:
		options.LogFormat = "text"
		logger := New(options)
		logger.Warn("could not parse logger format")
		return logger
	}
}
