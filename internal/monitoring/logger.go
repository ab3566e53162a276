// Package monitoring holds the diagnostic logger shared by the axis engine,
// the store and the HTTP layer.
package monitoring

import "log"

// LogFunc matches log.Printf.
type LogFunc func(format string, v ...interface{})

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced with SetLogger.
var Logf LogFunc = log.Printf

// SetLogger replaces the package logger and returns the previous one so
// callers can restore it. Passing nil installs a no-op logger.
func SetLogger(f LogFunc) LogFunc {
	prev := Logf
	if f == nil {
		Logf = Discard
		return prev
	}
	Logf = f
	return prev
}

// Discard drops every message.
func Discard(string, ...interface{}) {}
