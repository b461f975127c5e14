// Package utils provides common utilities shared across packages
package utils

// Logger defines a common logging interface used throughout the application
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NoopLogger is a logger implementation that does nothing
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...interface{}) {}
func (NoopLogger) Info(string, ...interface{})  {}
func (NoopLogger) Warn(string, ...interface{})  {}
func (NoopLogger) Error(string, ...interface{}) {}

// DebugEnabled is false: nothing is ever written.
func (NoopLogger) DebugEnabled() bool { return false }

// DebugEnabled reports whether l writes Debug messages. Loggers that cannot
// say are assumed to.
func DebugEnabled(l Logger) bool {
	if d, ok := l.(interface{ DebugEnabled() bool }); ok {
		return d.DebugEnabled()
	}
	return true
}
