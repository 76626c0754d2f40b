// Package logger provides the zap backed implementation of the
// manager.Logger interface.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	log *zap.SugaredLogger
}

// NewLogger logs to stderr. Debug messages are dropped unless debug
// is set (the -d flag).
func NewLogger(debug bool) *Logger {
	config := zap.NewDevelopmentConfig()

	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	// The event stream owns stdout, logs must not interleave with it.
	config.OutputPaths = []string{"stderr"}
	config.DisableStacktrace = true

	log, err := config.Build()
	if err != nil {
		panic(err)
	}

	return &Logger{log: log.Sugar()}
}

// NewNopLogger discards everything. Used in tests.
func NewNopLogger() *Logger {
	return &Logger{log: zap.NewNop().Sugar()}
}

func (self *Logger) Log(format string, a ...interface{}) {
	self.log.Infof(format, a...)
}

func (self *Logger) Error(format string, a ...interface{}) {
	self.log.Errorf(format, a...)
}

func (self *Logger) Warn(format string, a ...interface{}) {
	self.log.Warnf(format, a...)
}

func (self *Logger) Debug(format string, a ...interface{}) {
	self.log.Debugf(format, a...)
}

func (self *Logger) Sync() {
	self.log.Sync()
}
