package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// AppLogger provides leveled logging to stdout and a dated log file.
type AppLogger struct {
	log  *logrus.Logger
	file *os.File
}

// NewLogger creates a new logger. The level string matches the LOG_LEVEL
// configuration value; debug forces the debug level regardless.
func NewLogger(logPath, level string, debug bool) (*AppLogger, error) {
	// Ensure directory exists
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(parseLevel(level, debug))

	return &AppLogger{
		log:  log,
		file: file,
	}, nil
}

func parseLevel(level string, debug bool) logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Close closes the logger
func (l *AppLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Info logs an info message
func (l *AppLogger) Info(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

// Error logs an error message
func (l *AppLogger) Error(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

// Debug logs a debug message
func (l *AppLogger) Debug(format string, v ...interface{}) {
	l.log.Debugf(format, v...)
}

// Warn logs a warning message
func (l *AppLogger) Warn(format string, v ...interface{}) {
	l.log.Warnf(format, v...)
}

// GetLogPath returns the default log path
func GetLogPath() string {
	return filepath.Join(".", "logs", fmt.Sprintf("app-%s.log", time.Now().Format("2006-01-02")))
}
