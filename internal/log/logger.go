package log

import (
	"fmt"
	"io"
	"os"

	"desktop-cleaner/internal/errors"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05"

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sends log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally writes every line to a size-rotated file at path.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// Logger is a thin wrapper over a logrus entry.
type Logger struct {
	entry *logrus.Entry
	file  *lumberjack.Logger
}

// NewLogger builds a Logger writing to stdout unless told otherwise.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableColors:   true,
		})
	}

	l := &Logger{}
	out := o.out
	if o.file != "" {
		l.file = &lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = io.MultiWriter(o.out, l.file)
	}
	base.SetOutput(out)
	l.entry = logrus.NewEntry(base)

	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases the rotating log file, if any.
func Close() error {
	return logger.Close()
}

// SetDebug enables or disables debug lines.
func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// Close releases the rotating log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Info(msg string)  { l.entry.Info(msg) }
func (l *Logger) Warn(msg string)  { l.entry.Warn(msg) }
func (l *Logger) Error(msg string) { l.entry.Error(msg) }

func (l *Logger) Debug(msg string) {
	if isDebug {
		l.entry.Debug(msg)
	}
}

func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.entry.Debugf(format, args...)
	}
}

// Info logs a formatted message
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Infof logs a formatted message
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Debug(msg)
		return
	}
	logger.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Error(msg)
		return
	}
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Warn(msg)
		return
	}
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// LogWithFields returns the package logger with extra fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError attaches err and, for application errors, its kind and
// path or parameter.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// WithError returns a child logger carrying the error fields described at
// LogWithError.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error())}

	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	switch {
	case errors.As(err, &fileErr):
		fields = append(fields, F("error_kind", fileErr.Kind().String()))
		if fileErr.Path() != "" {
			fields = append(fields, F("path", fileErr.Path()))
		}
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", configErr.Kind().String()))
		if configErr.Param() != "" {
			fields = append(fields, F("param", configErr.Param()))
		}
	default:
		fields = append(fields, F("error_kind", errors.KindOf(err).String()))
	}

	return l.With(fields...)
}

// LogError is shorthand for LogWithError(err).Error(msg).
func LogError(err error, msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	LogWithError(err).Error(msg)
}
