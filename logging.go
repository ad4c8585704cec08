package grx

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	WithField(string, interface{}) Logger
	With(map[string]interface{}) Logger

	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
}

// NewLogger builds a logrus backed Logger. Level and formatter are taken from
// grx.log.level (DEBUG, INFO, WARN, ERROR) and grx.log.formatter (text, json).
func NewLogger(conf Config, out io.Writer) Logger {
	l := logrus.New()
	if out != nil {
		l.SetOutput(out)
	}
	if conf == nil {
		conf = NewConfig(nil)
	}

	switch strings.ToUpper(conf.GetStringDefault("grx.log.level", "INFO")) {
	case "DEBUG":
		l.SetLevel(logrus.DebugLevel)
	case "WARN":
		l.SetLevel(logrus.WarnLevel)
	case "ERROR":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}

	switch conf.GetStringDefault("grx.log.formatter", "text") {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FullTimestamp:   true,
		})
	}

	return &logrusLoggerWrapper{l}
}

// NopLogger discards everything.
func NopLogger() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusLoggerWrapper{l}
}

type logrusLoggerWrapper struct {
	*logrus.Logger
}

func (l *logrusLoggerWrapper) WithField(field string, value interface{}) Logger {
	return &logrusEntryWrapper{l.Logger.WithField(field, value)}
}

func (l *logrusLoggerWrapper) With(fields map[string]interface{}) Logger {
	return &logrusEntryWrapper{l.Logger.WithFields(fields)}
}

type logrusEntryWrapper struct {
	*logrus.Entry
}

func (e *logrusEntryWrapper) WithField(field string, value interface{}) Logger {
	return &logrusEntryWrapper{e.Entry.WithField(field, value)}
}

func (e *logrusEntryWrapper) With(fields map[string]interface{}) Logger {
	return &logrusEntryWrapper{e.Entry.WithFields(fields)}
}
