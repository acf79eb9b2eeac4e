package log

import (
	"github.com/sirupsen/logrus"
)

// logger is the process-wide logger; swappable for tests.
var logger = logrus.New() //nolint:gochecknoglobals

// SetLevel configures the active log level from the driver's configured string; one of "info", "debug" or "trace".
// Unrecognized values fall back to "info". This exists on top of logrus specifically because the driver's
// configuration contract (S3_DRIVER_LOGLEVEL) includes "trace", a level the standard library "log" package has no
// notion of.
func SetLevel(level string) {
	switch level {
	case "trace":
		logger.SetLevel(logrus.TraceLevel)
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// Errorf logs a message at error level.
func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

// Warnf logs a message at warn level.
func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

// Infof logs a message at info level.
func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

// Debugf logs a message at debug level.
func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

// Tracef logs a message at trace level.
func Tracef(format string, args ...any) {
	logger.Tracef(format, args...)
}
