// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the process-wide zap logger used for
// diagnostics. Output always goes to stderr.
package logging

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/aatmin/pkg/types"
)

type contextKey string

const loggerKey = contextKey("logger")

var global *zap.SugaredLogger

// Init builds the global logger from cfg, writing to stderr.
func Init(cfg types.LoggingConfig) {
	global = New(cfg, os.Stderr)
}

// New builds a console logger writing to w at the configured level.
// Unknown levels fall back to warn.
func New(cfg types.LoggingConfig, w io.Writer) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), ParseLevel(cfg.Level))
	return zap.New(core).Sugar()
}

// ParseLevel maps a level name to a zapcore.Level, defaulting to warn.
func ParseLevel(name string) zapcore.Level {
	if name == "" {
		name = types.DefaultLogLevel
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

// Sync flushes buffered entries.
func Sync() error {
	if global != nil {
		return global.Sync()
	}
	return nil
}

// Get returns the logger stored in ctx, the global logger, or a no-op
// logger if Init was never called.
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
			return l
		}
	}
	if global == nil {
		return zap.NewNop().Sugar()
	}
	return global
}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}
