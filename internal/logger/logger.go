// Package logger wraps a logrus logger shared by all parts of digger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	mu   sync.Mutex
	once sync.Once
)

// Init configures the shared logger. An unknown level falls back to warn.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(os.Stderr, level)
}

// newLogger builds a text logger writing to w.
func newLogger(w io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	return l
}

// ParseLevel maps a level name to a logrus level. Unknown names map to warn.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// Get returns the shared logger, initializing it from DIGGER_LOG_LEVEL on first use.
func Get() *logrus.Logger {
	once.Do(func() {
		mu.Lock()
		initialized := log != nil
		mu.Unlock()
		if !initialized {
			Init(os.Getenv("DIGGER_LOG_LEVEL"))
		}
	})
	mu.Lock()
	defer mu.Unlock()
	return log
}

// SetOutput redirects the shared logger. Tests use it to capture output.
func SetOutput(w io.Writer) {
	Get().SetOutput(w)
}

// WithField adds a field to the logger.
func WithField(key string, value any) *logrus.Entry {
	return Get().WithField(key, value)
}

// WithFields adds multiple fields to the logger.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Get().WithFields(fields)
}

// WithError adds an error field to the logger.
func WithError(err error) *logrus.Entry {
	return Get().WithError(err)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	Get().Debugf(format, args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...any) {
	Get().Infof(format, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...any) {
	Get().Warnf(format, args...)
}
