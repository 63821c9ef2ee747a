// Package logger builds the zap loggers shared by the muka CLI and the tool
// server. Normal runs log JSON so pipeline output stays machine-readable
// next to the CSV and workbook artifacts; --verbose switches to the console
// development config for debugging a classification run.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New instantiates the process logger. verbose selects the development
// config (console encoding, debug level); otherwise production JSON with
// ISO8601 timestamps.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Must is a helper that panics when the logger cannot be created.
func Must(logger *zap.Logger, err error) *zap.Logger {
	if err != nil {
		panic(err)
	}
	return logger
}

// Named returns a child logger for one pipeline stage (ingest, classify,
// analyze, export). A nil base degrades to a no-op logger so library code
// never has to nil-check.
func Named(base *zap.Logger, component string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(component)
}
