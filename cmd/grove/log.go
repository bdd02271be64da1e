package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type logger struct {
	*zap.Logger
}

/*
newLogger takes a verbose flag and a log file path and returns a logger
that writes human readable lines to STDERR, or JSON lines to a rotated file
when a path is given. Debug messages are only written when verbose.
*/
func newLogger(verbose bool, logFile string) *logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	var core zapcore.Core
	if logFile == "" {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), level)
	} else {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		})
		core = zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), w, level)
	}
	return &logger{zap.New(core)}
}

// Logf logs a debug message built with the format and arguments
func (l *logger) Logf(format string, a ...interface{}) {
	l.Sugar().Debugf(format, a...)
}
