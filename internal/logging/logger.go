// Package logging backs the Nakama runtime.Logger interface with zap so the
// dealer logs the same way inside and outside a Nakama process.
package logging

import (
	"fmt"
	"sort"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger at the given level ("debug", "info", ...).
// Development mode switches to the human-readable console encoder.
func New(level string, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

type runtimeLogger struct {
	sugar  *zap.SugaredLogger
	fields map[string]interface{}
}

// NewRuntimeLogger adapts z to runtime.Logger. Messages are printf-style.
func NewRuntimeLogger(z *zap.Logger) runtime.Logger {
	return &runtimeLogger{
		sugar:  z.WithOptions(zap.AddCallerSkip(1)).Sugar(),
		fields: map[string]interface{}{},
	}
}

// Nop returns a logger that discards everything.
func Nop() runtime.Logger {
	return NewRuntimeLogger(zap.NewNop())
}

func (l *runtimeLogger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *runtimeLogger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *runtimeLogger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *runtimeLogger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

func (l *runtimeLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *runtimeLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		merged[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return &runtimeLogger{sugar: l.sugar.With(args...), fields: merged}
}

func (l *runtimeLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}
