// Package log builds the zap loggers used across the module and emits
// structured records from plain field maps.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

// ParseLevel accepts the LogLevel names, case-sensitively. An empty string is LogInfo.
func ParseLevel(s string) (LogLevel, error) {
	switch LogLevel(s) {
	case "":
		return LogInfo, nil
	case LogInfo, LogWarn, LogError, LogDebug:
		return LogLevel(s), nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogWarn:
		return zap.WarnLevel
	case LogError:
		return zap.ErrorLevel
	case LogDebug:
		return zap.DebugLevel
	default:
		return zap.InfoLevel
	}
}

// Emit writes msg at level with fields converted to zap.Any.
// Unknown levels are logged at info.
func Emit(logger *zap.Logger, level LogLevel, msg string, fields map[string]interface{}) {
	zfields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}

	switch level {
	case LogInfo:
		logger.Info(msg, zfields...)
	case LogWarn:
		logger.Warn(msg, zfields...)
	case LogError:
		logger.Error(msg, zfields...)
	case LogDebug:
		logger.Debug(msg, zfields...)
	default:
		logger.Info(msg, zfields...)
	}
}

// New builds a JSON production logger, or a console development logger, that
// records entries at level and above.
func New(level LogLevel, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	return cfg.Build()
}

// Sync flushes logger, ignoring the error stdout and stderr report on some platforms.
func Sync(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		logger.Warn("failed to sync logger", zap.Error(err))
	}
}
