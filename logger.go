package goseq

import "log"

// Logger provides a simple interface for program lifecycle logging
type Logger interface {
	// Debug logs a message at debug level
	Debug(format string, args ...interface{})

	// Info logs a message at info level
	Info(format string, args ...interface{})

	// Warn logs a message at warning level
	Warn(format string, args ...interface{})

	// Error logs a message at error level
	Error(format string, args ...interface{})
}

// DefaultLogger is a no-op logger implementation
type DefaultLogger struct{}

// Debug implements Logger.Debug
func (l *DefaultLogger) Debug(format string, args ...interface{}) {}

// Info implements Logger.Info
func (l *DefaultLogger) Info(format string, args ...interface{}) {}

// Warn implements Logger.Warn
func (l *DefaultLogger) Warn(format string, args ...interface{}) {}

// Error implements Logger.Error
func (l *DefaultLogger) Error(format string, args ...interface{}) {}

// NewDefaultLogger creates a new default no-op logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// StdLogger writes log messages to a standard library log.Logger with a
// level prefix. If target is nil, the standard logger is used.
type StdLogger struct {
	target *log.Logger
}

// NewStdLogger creates a logger backed by the standard library.
func NewStdLogger(target *log.Logger) *StdLogger {
	if target == nil {
		target = log.Default()
	}
	return &StdLogger{target: target}
}

// Debug implements Logger.Debug
func (l *StdLogger) Debug(format string, args ...interface{}) {
	l.target.Printf("[DEBUG] "+format, args...)
}

// Info implements Logger.Info
func (l *StdLogger) Info(format string, args ...interface{}) {
	l.target.Printf("[INFO] "+format, args...)
}

// Warn implements Logger.Warn
func (l *StdLogger) Warn(format string, args ...interface{}) {
	l.target.Printf("[WARN] "+format, args...)
}

// Error implements Logger.Error
func (l *StdLogger) Error(format string, args ...interface{}) {
	l.target.Printf("[ERROR] "+format, args...)
}
