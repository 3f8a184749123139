// Package logging constructs the application logger. The logger is built
// once in main and passed down explicitly; no package keeps a global.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a configured logrus logger. Debug mode enables debug-level
// output with a human-readable format; otherwise logs are JSON at info
// level, which is what the deployment environment scrapes.
func New(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if debug {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}
