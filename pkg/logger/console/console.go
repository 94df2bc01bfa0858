// Package console provides a logger.Instance backed by charmbracelet/log,
// writing human-readable output to stderr.
package console

import (
	"os"

	"github.com/charmbracelet/log"
)

type Logger struct {
	inner *log.Logger
}

type Options struct {
	Debug bool
}

func New(opts Options) *Logger {
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	return &Logger{
		inner: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Level:           level,
		}),
	}
}

func (l *Logger) Debug(message string, keyvals ...any) {
	l.inner.Debug(message, keyvals...)
}

func (l *Logger) Info(message string, keyvals ...any) {
	l.inner.Info(message, keyvals...)
}

func (l *Logger) Warn(message string, keyvals ...any) {
	l.inner.Warn(message, keyvals...)
}

func (l *Logger) Error(message string, keyvals ...any) {
	l.inner.Error(message, keyvals...)
}

func (l *Logger) Fatal(message string, keyvals ...any) {
	l.inner.Fatal(message, keyvals...)
}
