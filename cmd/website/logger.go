package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mvicenzino/kidzart/cmd/website/internal/configuration"
)

func setupLogger(config *configuration.Config, version string) {
	var (
		handler slog.Handler
	)

	options := &slog.HandlerOptions{
		Level: parseLogLevel(config.LogLevel),
	}

	if version == "development" {
		handler = slog.NewTextHandler(os.Stdout, options)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, options)
	}

	slog.SetDefault(slog.New(handler).With("app", appName))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug

	case "warn", "warning":
		return slog.LevelWarn

	case "error":
		return slog.LevelError

	default:
		return slog.LevelInfo
	}
}
