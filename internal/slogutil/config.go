// Package slogutil configures the process logger: level parsing, optional
// file rotation and context-carried attributes.
package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dinecat/dinecat/internal/config"
)

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup configures slog from the log config. With no file configured it logs
// to the console only; with a file it logs to both, rotating the file via
// lumberjack. The returned logger carries context attributes added with
// With/WithAttrs.
func Setup(logConfig config.LogConfig) *slog.Logger {
	var writer io.Writer = os.Stdout

	if logConfig.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   logConfig.File,
			MaxSize:    logConfig.MaxSize,    // MB
			MaxBackups: logConfig.MaxBackups, // number of old files
			MaxAge:     logConfig.MaxAge,     // days
			Compress:   logConfig.Compress,
		}
		writer = io.MultiWriter(os.Stdout, fileWriter)
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(logConfig.Level),
	})

	return slog.New(WrapHandler(handler))
}
