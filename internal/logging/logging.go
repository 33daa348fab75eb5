// Package logging builds the zap logger the client writes through.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log output goes.
type Options struct {
	Path       string // rotating log file; empty disables the file
	Debug      bool   // debug level, plus a copy on stderr
	MaxSizeMB  int
	MaxBackups int
}

// New returns a sugared logger writing to a rotating file and, in debug
// mode, to stderr as well. The returned func flushes the logger.
func New(o Options) (*zap.SugaredLogger, func()) {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	level := zapcore.InfoLevel
	if o.Debug {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if o.Path != "" {
		if o.MaxSizeMB == 0 {
			o.MaxSizeMB = 10
		}
		if o.MaxBackups == 0 {
			o.MaxBackups = 3
		}
		lj := &lumberjack.Logger{
			Filename:   o.Path,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(lj), level))
	}
	if o.Debug || o.Path == "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	sugar := logger.Sugar()
	return sugar, func() { _ = sugar.Sync() }
}
