package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Format is json or console.
	Format string
}

// New builds the zap logger every slog record ends up in.
func New(config Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.Encoding = "json"
	if config.Format == "console" {
		zapConfig.Encoding = "console"
	}
	zapConfig.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	return zapConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// Install makes a zap backed handler the slog default. attrs are added to
// every record.
func Install(config Config, attrs ...slog.Attr) error {
	zapLogger, err := New(config)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(NewHandler(zapLogger.Core()).WithAttrs(attrs)))
	return nil
}

var _ slog.Handler = (*Handler)(nil)

// Handler forwards slog records to a zap core.
type Handler struct {
	core   zapcore.Core
	fields []zapcore.Field
	groups []string
}

func NewHandler(core zapcore.Core) *Handler {
	return &Handler{core: core}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.core.Enabled(toZapLevel(level))
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	entry := zapcore.Entry{
		Level:   toZapLevel(record.Level),
		Time:    record.Time,
		Message: record.Message,
	}

	checked := h.core.Check(entry, nil)
	if checked == nil {
		return nil
	}

	fields := make([]zapcore.Field, 0, len(h.fields)+record.NumAttrs())
	fields = append(fields, h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, h.toField(attr))
		return true
	})

	checked.Write(fields...)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	for _, attr := range attrs {
		clone.fields = append(clone.fields, h.toField(attr))
	}
	return clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *Handler) clone() *Handler {
	return &Handler{
		core:   h.core,
		fields: append([]zapcore.Field(nil), h.fields...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *Handler) toField(attr slog.Attr) zapcore.Field {
	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return zap.String(key, value.String())
	case slog.KindInt64:
		return zap.Int64(key, value.Int64())
	case slog.KindUint64:
		return zap.Uint64(key, value.Uint64())
	case slog.KindFloat64:
		return zap.Float64(key, value.Float64())
	case slog.KindBool:
		return zap.Bool(key, value.Bool())
	case slog.KindDuration:
		return zap.Duration(key, value.Duration())
	case slog.KindTime:
		return zap.Time(key, value.Time())
	case slog.KindGroup:
		group := make(map[string]any, len(value.Group()))
		for _, member := range value.Group() {
			group[member.Key] = member.Value.Resolve().Any()
		}
		return zap.Any(key, group)
	default:
		if err, ok := value.Any().(error); ok {
			return zap.NamedError(key, err)
		}
		return zap.Any(key, value.Any())
	}
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
