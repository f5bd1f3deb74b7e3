// Package logging provides the application-level structured logger.
// Per-request logs are emitted by the HTTP logger middleware; this logger
// covers everything else (startup, services, CLI).
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a JSON logrus logger writing to stdout. The level comes from
// LOG_LEVEL (default info); an unparseable value falls back to info.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
