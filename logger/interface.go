// Package logger defines the structured logging contract used by the library
// and provides a zerolog-backed implementation of it.
package logger

import "time"

// Logger is the contract for structured logging throughout the library.
// Drivers and applications may supply their own implementation; the library
// never logs through anything else.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a single structured log event under construction. Field methods
// return the event so calls can be chained; Msg sends the event.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
	Bytes(key string, val []byte) LogEvent
}
