// Package telnetlog provides logging utilities for the telnet engine.
package telnetlog

import "log"

// DebugEnabled controls whether Debug() produces output.
// It defaults to false; this package does not set it from flags or
// the environment.
var DebugEnabled bool

// Debug logs a message only when DebugEnabled is true.
func Debug(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}

// Info logs an informational message. Always emitted.
func Info(format string, args ...any) {
	log.Printf("INFO: "+format, args...)
}

// Warn logs a recoverable protocol warning.
func Warn(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}

// Error logs a non-recoverable condition.
func Error(format string, args ...any) {
	log.Printf("ERROR: "+format, args...)
}
