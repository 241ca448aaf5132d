package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	level string
	sugar *zap.SugaredLogger
}

func New(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}

	return &Logger{
		level: level,
		sugar: base.Sugar(),
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{level: "info", sugar: zap.NewNop().Sugar()}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.sugar.Fatalf(msg, args...)
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{level: l.level, sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
