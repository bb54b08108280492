package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.Formatter = newTextFormatter()
}

func newTextFormatter() *logrus.TextFormatter {
	return &logrus.TextFormatter{
		TimestampFormat: "Jan 02 15:04:05",
		FullTimestamp:   true,
		DisableColors:   true,
	}
}

// Get returns the process wide logger.
func Get() *logrus.Logger {
	return log
}

// WithPrefix returns an entry tagged with the component that logs.
func WithPrefix(prefix string) *logrus.Entry {
	return log.WithField("prefix", prefix)
}

// Configure sets the level (debug, info, warn, error) and format (text, json).
// Empty values keep the current setting.
func Configure(level, format string) error {

	switch strings.ToLower(level) {
	case "":
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	default:
		return fmt.Errorf("unknown log level '%s'", level)
	}

	switch strings.ToLower(format) {
	case "":
	case "text":
		log.SetFormatter(newTextFormatter())
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format '%s'", format)
	}

	return nil
}

func SetOutput(w io.Writer) {
	log.SetOutput(w)
}
