package model

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core), LogLevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message %d", 1)
	logger.Error("error message")

	if logs.FilterMessage("debug message").Len() != 0 {
		t.Error("Expected debug message to be filtered")
	}
	if logs.FilterMessage("info message").Len() != 0 {
		t.Error("Expected info message to be filtered")
	}
	if logs.FilterMessage("warn message 1").Len() != 1 {
		t.Error("Expected formatted warn message to be logged")
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Error("Expected error message to be logged")
	}

	if logger.IsLevelEnabled(LogLevelInfo) {
		t.Error("Expected info to be disabled at warn level")
	}
	if !logger.IsLevelEnabled(LogLevelError) {
		t.Error("Expected error to be enabled at warn level")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"warn":    LogLevelWarn,
		"error":   LogLevelError,
		"bogus":   LogLevelInfo,
	}
	for name, expected := range tests {
		if got := ParseLogLevel(name); got != expected {
			t.Errorf("ParseLogLevel(%q) = %d, expected %d", name, got, expected)
		}
	}
}

func TestDefaultLoggerSwap(t *testing.T) {
	original := GetDefaultLogger()
	defer SetDefaultLogger(original)

	noop := NewNoOpLogger()
	SetDefaultLogger(noop)
	if GetDefaultLogger() != Logger(noop) {
		t.Error("Expected default logger to be replaced")
	}
	if noop.IsLevelEnabled(LogLevelError) {
		t.Error("Expected NoOpLogger to report every level disabled")
	}
}
