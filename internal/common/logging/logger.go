package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry so that callers get a stable API regardless of how the
// underlying logger was configured.
type Logger struct {
	underlying *logrus.Entry
}

// FromLogrus returns a Logger that writes through the supplied logrus entry.
func FromLogrus(entry *logrus.Entry) *Logger {
	return &Logger{underlying: entry}
}

// Entry exposes the wrapped logrus entry, e.g. for handing to a logctx.Context.
func (l *Logger) Entry() *logrus.Entry {
	return l.underlying
}

func (l *Logger) Debug(args ...any) {
	l.underlying.Debug(args...)
}

func (l *Logger) Info(args ...any) {
	l.underlying.Info(args...)
}

func (l *Logger) Warn(args ...any) {
	l.underlying.Warn(args...)
}

func (l *Logger) Error(args ...any) {
	l.underlying.Error(args...)
}

func (l *Logger) Fatal(args ...any) {
	l.underlying.Fatal(args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.underlying.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.underlying.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.underlying.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.underlying.Errorf(format, args...)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.underlying.Fatalf(format, args...)
}

// WithField returns a new Logger with the key-value pair added as a new field
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{underlying: l.underlying.WithField(key, value)}
}

// WithFields returns a new Logger with all key-value pairs in the map added as new fields
func (l *Logger) WithFields(args map[string]any) *Logger {
	return &Logger{underlying: l.underlying.WithFields(args)}
}

// WithError returns a new Logger with the error added as a field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{underlying: l.underlying.WithError(err)}
}

// WithStacktrace returns a new Logger obtained by adding error information and, if available, a stack trace
// as fields to the provided Logger
func (l *Logger) WithStacktrace(err error) *Logger {
	return &Logger{underlying: EntryWithStacktrace(l.underlying, err)}
}
