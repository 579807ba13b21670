package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nhle/kaneo-sync/internal/model"
)

const logLevelEnvKey = "KANEO_SYNC_LOG_LEVEL"

// levelSetting is a log level together with where it came from.
type levelSetting struct {
	origin string // "--log-level", the env key, "log_level", or "" for the default
	raw    string
}

// resolveLogLevel picks the first non-blank level in precedence order:
// flag, environment, config file.
func resolveLogLevel(flagLevel, envLevel, configLevel string) levelSetting {
	candidates := []levelSetting{
		{origin: "--log-level", raw: flagLevel},
		{origin: logLevelEnvKey, raw: envLevel},
		{origin: "log_level", raw: configLevel},
	}
	for _, c := range candidates {
		if strings.TrimSpace(c.raw) != "" {
			return c
		}
	}
	return levelSetting{raw: model.DefaultLogLevel}
}

// setupLogging installs a text logger writing to w as the slog default.
// A bad --log-level is an error. A bad env or config level falls back to
// the default and comes back as a warning for the caller to print.
func setupLogging(w io.Writer, flagLevel, configLevel string) (string, error) {
	setting := resolveLogLevel(flagLevel, os.Getenv(logLevelEnvKey), configLevel)

	level, err := parseLogLevel(setting.raw)
	var warning string
	if err != nil {
		if setting.origin == "--log-level" {
			return "", fmt.Errorf("invalid --log-level %q", setting.raw)
		}
		warning = fmt.Sprintf("warning: invalid %s=%q; defaulting to %s",
			setting.origin, setting.raw, model.DefaultLogLevel)
		level, _ = parseLogLevel(model.DefaultLogLevel)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return warning, nil
}

// parseLogLevel accepts slog's level names, case-insensitively, plus
// "warning".
func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "warning" {
		value = "warn"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}
