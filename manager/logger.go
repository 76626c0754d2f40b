package manager

// Logger is what the tracer needs from a logger. The userspace/logger
// package provides the zap backed implementation.
type Logger interface {
	Log(format string, a ...interface{})
	Error(format string, a ...interface{})
	Warn(format string, a ...interface{})
	Debug(format string, a ...interface{})
}
