package logger

import (
	"log/slog"
	"os"

	multi "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger. With a file path the stream is
// duplicated into a size-rotated JSON file next to the stdout
// handler.
func New(level, file string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if file == "" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    64,
		MaxBackups: 32,
		MaxAge:     30,
		Compress:   true,
	}

	return slog.New(multi.Fanout(
		slog.NewJSONHandler(os.Stdout, opts),
		slog.NewJSONHandler(rotated, opts),
	))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
