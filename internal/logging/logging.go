// Package logging builds the one process-wide structured logger both CLI
// modes narrate through, in place of the teacher's bare log.Printf calls.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. debug enables zap's development
// encoder (human-readable, colorized level, caller line); otherwise it
// uses the production JSON encoder suited to piping through log collectors.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	return zap.NewProduction()
}

// Noop returns a logger that discards everything, for tests that need a
// logger but don't care about its narration.
func Noop() *zap.Logger {
	return zap.NewNop()
}
