package types

import "log"

// Logger is the minimal logging contract used throughout the engine,
// grounded on _examples/bittoy-rule's use of a narrow logging interface
// rather than binding every package directly to one logging library.
type Logger interface {
	Printf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}

// stdLogger wraps the standard library logger. Debugf is a no-op unless
// debug is enabled, avoiding a third logging dependency for what is, in
// this runtime, low-volume diagnostic output (spec §7: soft-degradation
// logging only, never on the hot propagation path).
type stdLogger struct {
	l     *log.Logger
	debug bool
}

func (s *stdLogger) Printf(format string, v ...interface{}) {
	s.l.Printf(format, v...)
}

func (s *stdLogger) Debugf(format string, v ...interface{}) {
	if s.debug {
		s.l.Printf(format, v...)
	}
}

// DefaultLogger returns a Logger writing to the standard logger's default
// destination with debug output suppressed.
func DefaultLogger() Logger {
	return &stdLogger{l: log.Default()}
}

// NewDebugLogger returns a Logger with debug output enabled.
func NewDebugLogger() Logger {
	return &stdLogger{l: log.Default(), debug: true}
}
