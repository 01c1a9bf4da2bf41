package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"glance/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	out  io.Writer
	json bool
	file string
}

// WithOutput sends log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile tees log lines into the file at path in addition to the output.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// Logger is a thin wrapper over a logrus logger carrying preset fields.
type Logger struct {
	base   *logrus.Logger
	file   *os.File
	fields logrus.Fields
}

// NewLogger builds a logger. Without options it writes logfmt text to stdout.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{base: logrus.New(), fields: logrus.Fields{}}
	out := o.out
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0755); err == nil {
			f, err := os.OpenFile(o.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "logging to %s failed: %v\n", o.file, err)
			} else {
				l.file = f
				out = io.MultiWriter(o.out, f)
			}
		}
	}

	l.base.SetOutput(out)
	l.base.SetLevel(logrus.DebugLevel)
	if o.json {
		l.base.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		l.base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	prev := logger
	logger = NewLogger(opts...)
	if prev != nil && prev.file != nil {
		prev.file.Close()
	}
}

// SetDebug toggles emission of debug entries for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// DebugEnabled reports whether debug entries are emitted.
func DebugEnabled() bool {
	return isDebug.Load()
}

// With returns a child logger carrying the additional fields.
func (l *Logger) With(fields ...Field) *Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{base: l.base, file: l.file, fields: merged}
}

// WithError attaches err and, for application errors, its kind and subject.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error())}

	var fileErr *errors.FileError
	var decodeErr *errors.DecodeError
	var configErr *errors.ConfigError
	switch {
	case errors.As(err, &fileErr):
		fields = append(fields, F("error_kind", int(fileErr.Kind())), F("path", fileErr.Path()))
	case errors.As(err, &decodeErr):
		fields = append(fields, F("error_kind", int(decodeErr.Kind())))
		if decodeErr.Format() != "" {
			fields = append(fields, F("format", decodeErr.Format()))
		}
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", int(configErr.Kind())), F("param", configErr.Param()))
	case errors.KindOf(err) != errors.Unknown:
		fields = append(fields, F("error_kind", int(errors.KindOf(err))))
	}
	return l.With(fields...)
}

// Info logs msg at info level
func (l *Logger) Info(msg string) {
	l.log(logrus.InfoLevel, 2, msg)
}

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(logrus.InfoLevel, 2, fmt.Sprintf(format, args...))
}

// Warn logs msg at warn level
func (l *Logger) Warn(msg string) {
	l.log(logrus.WarnLevel, 2, msg)
}

// Warnf logs a formatted message at warn level
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(logrus.WarnLevel, 2, fmt.Sprintf(format, args...))
}

// Error logs msg at error level
func (l *Logger) Error(msg string) {
	l.log(logrus.ErrorLevel, 2, msg)
}

// Errorf logs a formatted message at error level
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, 2, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.log(logrus.DebugLevel, 2, msg)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.log(logrus.DebugLevel, 2, fmt.Sprintf(format, args...))
	}
}

// log emits one entry; skip counts frames between log and the user call site.
func (l *Logger) log(level logrus.Level, skip int, msg string) {
	entry := l.base.WithFields(l.fields)
	if _, file, line, ok := runtime.Caller(skip); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

// Package-level helpers write through the configured global logger.

func Info(msg string) {
	logger.log(logrus.InfoLevel, 2, msg)
}

func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, 2, fmt.Sprintf(format, args...))
}

func Warn(msg string) {
	logger.log(logrus.WarnLevel, 2, msg)
}

func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, 2, fmt.Sprintf(format, args...))
}

func Error(msg string) {
	logger.log(logrus.ErrorLevel, 2, msg)
}

func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, 2, fmt.Sprintf(format, args...))
}

func Debug(msg string) {
	if isDebug.Load() {
		logger.log(logrus.DebugLevel, 2, msg)
	}
}

func Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		logger.log(logrus.DebugLevel, 2, fmt.Sprintf(format, args...))
	}
}

// LogWithFields returns the global logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the global logger annotated with err.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	logger.WithError(err).log(logrus.ErrorLevel, 2, msg)
}
