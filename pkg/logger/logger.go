// Package logger wraps logrus with the JSON-line format used across the
// services: every entry carries service, hostname and an action name, plus
// any fields chained on.
package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is a cheap value; chained methods return copies with extra fields.
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger for one service. Output is one JSON object per line
// on stdout.
func New(service string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	if os.Getenv("LOG_LEVEL") == "debug" {
		l.SetLevel(logrus.DebugLevel)
	}

	hostname, _ := os.Hostname()
	return Logger{entry: l.WithFields(logrus.Fields{
		"service":  service,
		"hostname": hostname,
	})}
}

// Action tags subsequent log lines with an action name, e.g. "order_created".
func (l Logger) Action(action string) Logger {
	return Logger{entry: l.entry.WithField("action", action)}
}

// With attaches an extra structured field.
func (l Logger) With(key string, value any) Logger {
	return Logger{entry: l.entry.WithField(key, value)}
}

func (l Logger) Info(msg string) {
	l.entry.Info(msg)
}

func (l Logger) Debug(msg string) {
	l.entry.Debug(msg)
}

func (l Logger) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l Logger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}
