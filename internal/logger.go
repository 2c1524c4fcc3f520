package internal

import (
	"github.com/sirupsen/logrus"
)

// Logger can be modified by external for testing
var Logger = logrus.New()

func SetLogLevel(level string) {
	switch level {
	case "TRACE":
		Logger.SetLevel(logrus.TraceLevel)
	case "DEBUG":
		Logger.SetLevel(logrus.DebugLevel)
	case "INFO":
		Logger.SetLevel(logrus.InfoLevel)
	case "WARN":
		Logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.WithField("level", level).Warn("Unknown log level, keep current level")
	}
}

// SetLogFormat switches output format. "json" is for log collectors of
// scheduled runs, "text" is for terminals.
func SetLogFormat(format string) {
	switch format {
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		Logger.SetFormatter(&logrus.TextFormatter{})
	default:
		Logger.WithField("format", format).Warn("Unknown log format, keep current format")
	}
}
