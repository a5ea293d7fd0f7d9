// Package logx is the firmware logging front. Each service owns a Logger
// with a short module prefix; output goes through the platform backend
// (fmt on the host, println on MCU targets).
package logx

import "sync/atomic"

// Level gates which records reach the backend.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var current atomic.Uint32

func init() { current.Store(uint32(LevelInfo)) }

// SetLevel sets the global log level.
func SetLevel(l Level) { current.Store(uint32(l)) }

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "off", "none":
		return LevelOff
	default:
		return LevelInfo
	}
}

// Logger tags records with a module prefix, e.g. "[datastore]".
type Logger struct {
	prefix string
}

func New(module string) *Logger { return &Logger{prefix: "[" + module + "] "} }

func (l *Logger) Debugf(format string, args ...any) { l.emit(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.emit(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.emit(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.emit(LevelError, format, args...) }

func (l *Logger) emit(lv Level, format string, args ...any) {
	if uint32(lv) < current.Load() {
		return
	}
	write(l.prefix, format, args...)
}
