
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	s *zap.SugaredLogger
}

// New returns a logger writing to stdout.
func New() *Logger {
	core := zapcore.NewCore(encoder(), zapcore.Lock(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel)
	return &Logger{s: zap.New(core).Sugar()}
}

// NewWithFile tees logs to stdout and a size-rotated file.
func NewWithFile(path string) *Logger {
	rotated := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	core := zapcore.NewTee(
		zapcore.NewCore(encoder(), zapcore.Lock(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel),
		zapcore.NewCore(encoder(), zapcore.AddSync(rotated), zapcore.InfoLevel),
	)
	return &Logger{s: zap.New(core).Sugar()}
}

func encoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func (l *Logger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

// Sync flushes buffered log entries; call before process exit.
func (l *Logger) Sync() { _ = l.s.Sync() }
