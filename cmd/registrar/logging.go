package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"push-registrar/cmd/config"
	"push-registrar/internal/infra/node"
	"push-registrar/internal/logger"
)

var (
	logLevelMapping = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
)

// setupLogging installs the default slog logger. The text format writes
// through slog directly; json and console go through zap.
func setupLogging(general config.GeneralConfig) error {
	if general.LogFormat == "json" || general.LogFormat == "console" {
		return logger.Install(
			logger.Config{Level: general.LogLevel, Format: general.LogFormat},
			slog.String("version", node.Version),
		)
	}

	level, ok := logLevelMapping[general.LogLevel]
	if !ok {
		return fmt.Errorf("unknown log level %q", general.LogLevel)
	}

	baseHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: level, ReplaceAttr: slogReplaceAttr})
	handler := baseHandler.WithAttrs([]slog.Attr{slog.String("version", node.Version)})
	slog.SetDefault(slog.New(handler))
	return nil
}

func slogReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source := a.Value.Any().(*slog.Source)
		source.File = filepath.Base(source.File)
		return slog.Any(a.Key, source)
	}
	return a
}
