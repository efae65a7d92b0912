package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// Logger provides leveled, timestamped logging. Everything goes to stdout;
// when a log file is attached, the same lines are appended there without
// color codes so the file stays grep-friendly.
type Logger struct {
	log  *logrus.Logger
	file *os.File
}

// NewLogger creates a new logger writing to stdout
func NewLogger(verbose, quiet, noColor bool) *Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
		DisableColors:   noColor,
	})

	switch {
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	case quiet:
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{log: log}
}

// AttachFile opens path in append mode and mirrors all log lines to it
func (l *Logger) AttachFile(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	l.file = f
	l.log.AddHook(&fileHook{
		writer: f,
		formatter: &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableColors:   true,
		},
	})
	return nil
}

// Close releases the attached log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...interface{}) {
	l.log.WithField("result", "ok").Infof(format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// Debug logs a debug message (only if verbose is enabled)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// fileHook mirrors every entry to a secondary writer with its own formatter
type fileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}
