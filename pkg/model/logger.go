package model

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging operations
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	IsLevelEnabled(level LogLevel) bool
}

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// ParseLogLevel converts a level name (debug, info, warn, error) to a
// LogLevel. Unrecognised names map to LogLevelInfo.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// DefaultLogger implements the Logger interface on top of a zap logger
type DefaultLogger struct {
	level  LogLevel
	logger *zap.SugaredLogger
}

// NewDefaultLogger creates a DefaultLogger writing console-encoded entries
// to stderr at the specified level
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return &DefaultLogger{level: level, logger: logger.Sugar()}
}

// NewZapLogger adapts an existing zap logger. The level only gates
// IsLevelEnabled; the zap core applies its own level as well.
func NewZapLogger(logger *zap.Logger, level LogLevel) *DefaultLogger {
	return &DefaultLogger{level: level, logger: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	if l.level <= LogLevelDebug {
		l.logger.Debugf(format, args...)
	}
}

// Info logs an informational message
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	if l.level <= LogLevelInfo {
		l.logger.Infof(format, args...)
	}
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(format string, args ...interface{}) {
	if l.level <= LogLevelWarn {
		l.logger.Warnf(format, args...)
	}
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	if l.level <= LogLevelError {
		l.logger.Errorf(format, args...)
	}
}

// IsLevelEnabled returns true if the given log level is enabled
func (l *DefaultLogger) IsLevelEnabled(level LogLevel) bool {
	return l.level <= level
}

// Sync flushes buffered entries
func (l *DefaultLogger) Sync() error {
	return l.logger.Sync()
}

// NoOpLogger is a logger implementation that discards all log messages
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug discards the debug message
func (l *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info discards the informational message
func (l *NoOpLogger) Info(format string, args ...interface{}) {}

// Warn discards the warning message
func (l *NoOpLogger) Warn(format string, args ...interface{}) {}

// Error discards the error message
func (l *NoOpLogger) Error(format string, args ...interface{}) {}

// IsLevelEnabled always returns false for NoOpLogger
func (l *NoOpLogger) IsLevelEnabled(level LogLevel) bool {
	return false
}

var (
	// DefaultLoggerInstance is the default logger used by the package
	DefaultLoggerInstance Logger = NewDefaultLogger(LogLevelInfo)
)

// SetDefaultLogger sets the default logger instance
func SetDefaultLogger(logger Logger) {
	DefaultLoggerInstance = logger
}

// GetDefaultLogger returns the current default logger instance
func GetDefaultLogger() Logger {
	return DefaultLoggerInstance
}
