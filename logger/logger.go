/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides leveled logging for rowq, backed by logrus.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level defines log levels
type Level int

const (
	// DEBUG debug level, displays detailed debug information
	DEBUG Level = iota
	// INFO info level, displays general information
	INFO
	// WARN warning level, displays warning information
	WARN
	// ERROR error level, only displays error information
	ERROR
	// OFF disables logging
	OFF
)

// String returns string representation of log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case OFF:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "OFF", "NONE":
		return OFF, nil
	}
	return INFO, fmt.Errorf("invalid log level %q", name)
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case DEBUG:
		return logrus.DebugLevel
	case INFO:
		return logrus.InfoLevel
	case WARN:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

func fromLogrusLevel(l logrus.Level) Level {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return DEBUG
	case logrus.InfoLevel:
		return INFO
	case logrus.WarnLevel:
		return WARN
	default:
		return ERROR
	}
}

// Logger interface defines basic methods for logging
type Logger interface {
	// Debug records debug level logs
	Debug(format string, args ...interface{})
	// Info records info level logs
	Info(format string, args ...interface{})
	// Warn records warning level logs
	Warn(format string, args ...interface{})
	// Error records error level logs
	Error(format string, args ...interface{})
	// SetLevel sets the log level
	SetLevel(level Level)
	// WithField returns a logger that attaches key=value to every entry
	WithField(key string, value interface{}) Logger
}

// logrusLogger is the default implementation
type logrusLogger struct {
	entry *logrus.Entry
	off   *bool
}

// NewLogger creates a new logger writing to output.
//
// Example:
//
//	log := NewLogger(INFO, os.Stderr)
//	log.Info("loaded %d rows", n)
func NewLogger(level Level, output io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(&lineFormatter{})
	off := false
	ll := &logrusLogger{entry: logrus.NewEntry(l), off: &off}
	ll.SetLevel(level)
	return ll
}

// NewLogrusLogger wraps an existing logrus logger, keeping its formatter and
// output.
func NewLogrusLogger(l *logrus.Logger) Logger {
	off := false
	return &logrusLogger{entry: logrus.NewEntry(l), off: &off}
}

func (l *logrusLogger) Debug(format string, args ...interface{}) {
	if !*l.off {
		l.entry.Debugf(format, args...)
	}
}

func (l *logrusLogger) Info(format string, args ...interface{}) {
	if !*l.off {
		l.entry.Infof(format, args...)
	}
}

func (l *logrusLogger) Warn(format string, args ...interface{}) {
	if !*l.off {
		l.entry.Warnf(format, args...)
	}
}

func (l *logrusLogger) Error(format string, args ...interface{}) {
	if !*l.off {
		l.entry.Errorf(format, args...)
	}
}

// SetLevel applies to every logger derived with WithField.
func (l *logrusLogger) SetLevel(level Level) {
	*l.off = level >= OFF
	if !*l.off {
		l.entry.Logger.SetLevel(level.logrusLevel())
	}
}

// Level reports the current level.
func (l *logrusLogger) Level() Level {
	if *l.off {
		return OFF
	}
	return fromLogrusLevel(l.entry.Logger.GetLevel())
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value), off: l.off}
}

// lineFormatter renders "[time] [LEVEL] message key=value ...".
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] [%s] %s",
		entry.Time.Format("2006-01-02 15:04:05.000"),
		fromLogrusLevel(entry.Level),
		entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// discardLogger is a logger that discards all log output
type discardLogger struct{}

// NewDiscardLogger creates a logger that discards all logs
func NewDiscardLogger() Logger {
	return &discardLogger{}
}

func (d *discardLogger) Debug(format string, args ...interface{}) {}
func (d *discardLogger) Info(format string, args ...interface{})  {}
func (d *discardLogger) Warn(format string, args ...interface{})  {}
func (d *discardLogger) Error(format string, args ...interface{}) {}
func (d *discardLogger) SetLevel(level Level)                     {}
func (d *discardLogger) WithField(string, interface{}) Logger     { return d }

// Global default logger
var defaultInstance Logger = NewLogger(INFO, os.Stderr)

// SetDefault sets the global default logger
func SetDefault(logger Logger) {
	defaultInstance = logger
}

// GetDefault gets the global default logger
func GetDefault() Logger {
	return defaultInstance
}

// Debug uses the default logger to record debug information
func Debug(format string, args ...interface{}) {
	defaultInstance.Debug(format, args...)
}

// Info uses the default logger to record information
func Info(format string, args ...interface{}) {
	defaultInstance.Info(format, args...)
}

// Warn uses the default logger to record warnings
func Warn(format string, args ...interface{}) {
	defaultInstance.Warn(format, args...)
}

// Error uses the default logger to record errors
func Error(format string, args ...interface{}) {
	defaultInstance.Error(format, args...)
}
