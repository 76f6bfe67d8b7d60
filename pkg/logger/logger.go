// Package logger provides structured logging with context support.
//
// It wraps charmbracelet/log and provides:
// - Structured logging (JSON or text format)
// - Log levels (Debug, Info, Warn, Error, Fatal)
// - Context propagation (request ID, user ID, trace ID)
// - Field-based logging
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Level represents the severity of a log entry.
type Level int

const (
	// DebugLevel for debug messages.
	DebugLevel Level = iota
	// InfoLevel for informational messages.
	InfoLevel
	// WarnLevel for warning messages.
	WarnLevel
	// ErrorLevel for error messages.
	ErrorLevel
	// FatalLevel for fatal messages (calls os.Exit(1)).
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a textual level ("debug", "info", ...) to a Level.
// Unknown values fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

func (l Level) charm() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	case FatalLevel:
		return charmlog.FatalLevel
	default:
		return charmlog.InfoLevel
	}
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Logger is the main logger interface.
type Logger interface {
	// Level management
	SetLevel(level Level)
	GetLevel() Level

	// Basic logging
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// Context logging
	WithContext(ctx context.Context) Logger
	WithFields(fields ...Field) Logger

	// Writer interface
	Writer() io.Writer
}

// Format selects the output encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatText writes human readable lines, used in development.
	FormatText Format = "text"
)

// Config holds logger configuration.
type Config struct {
	Level  Level
	Output io.Writer
	Format Format
	Caller bool // Include caller information
}

// DefaultConfig returns default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  InfoLevel,
		Output: os.Stdout,
		Format: FormatJSON,
		Caller: true,
	}
}

// charmLogger implements Logger on top of charmbracelet/log.
type charmLogger struct {
	base   *charmlog.Logger
	output io.Writer
	// level is shared by every logger derived through WithFields.
	level *levelBox
}

type levelBox struct {
	mu    sync.RWMutex
	level Level
}

// New creates a new logger with the given configuration.
func New(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	formatter := charmlog.JSONFormatter
	if cfg.Format == FormatText {
		formatter = charmlog.TextFormatter
	}

	base := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		ReportCaller:    cfg.Caller,
		CallerOffset:    1,
		Formatter:       formatter,
		Level:           cfg.Level.charm(),
	})

	return &charmLogger{
		base:   base,
		output: cfg.Output,
		level:  &levelBox{level: cfg.Level},
	}
}

// Default returns a logger with default configuration.
func Default() Logger {
	return New(DefaultConfig())
}

// SetLevel sets the minimum log level.
func (l *charmLogger) SetLevel(level Level) {
	l.level.mu.Lock()
	defer l.level.mu.Unlock()
	l.level.level = level
	l.base.SetLevel(level.charm())
}

// GetLevel returns the current log level.
func (l *charmLogger) GetLevel() Level {
	l.level.mu.RLock()
	defer l.level.mu.RUnlock()
	return l.level.level
}

// Debug logs a debug message.
func (l *charmLogger) Debug(msg string, fields ...Field) {
	l.sync().Debug(msg, keyvals(fields)...)
}

// Info logs an info message.
func (l *charmLogger) Info(msg string, fields ...Field) {
	l.sync().Info(msg, keyvals(fields)...)
}

// Warn logs a warning message.
func (l *charmLogger) Warn(msg string, fields ...Field) {
	l.sync().Warn(msg, keyvals(fields)...)
}

// Error logs an error message.
func (l *charmLogger) Error(msg string, fields ...Field) {
	l.sync().Error(msg, keyvals(fields)...)
}

// Fatal logs a fatal message and exits.
func (l *charmLogger) Fatal(msg string, fields ...Field) {
	l.sync().Fatal(msg, keyvals(fields)...)
}

// WithContext returns a logger with context fields.
func (l *charmLogger) WithContext(ctx context.Context) Logger {
	return l.WithFields(extractContextFields(ctx)...)
}

// WithFields returns a logger with additional fields.
func (l *charmLogger) WithFields(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &charmLogger{
		base:   l.base.With(keyvals(fields)...),
		output: l.output,
		level:  l.level,
	}
}

// Writer returns the logger's output writer.
func (l *charmLogger) Writer() io.Writer {
	return l.output
}

// sync makes the derived charm logger observe level changes made on a parent.
func (l *charmLogger) sync() *charmlog.Logger {
	want := l.GetLevel().charm()
	if l.base.GetLevel() != want {
		l.base.SetLevel(want)
	}
	return l.base
}

func keyvals(fields []Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// Context keys for logger fields.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	traceIDKey   contextKey = "trace_id"
)

// extractContextFields extracts logger fields from context.
func extractContextFields(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	var fields []Field

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, Field{Key: "request_id", Value: requestID})
	}

	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		fields = append(fields, Field{Key: "user_id", Value: userID})
	}

	if traceID, ok := ctx.Value(traceIDKey).(string); ok && traceID != "" {
		fields = append(fields, Field{Key: "trace_id", Value: traceID})
	}

	return fields
}

// WithRequestID adds request ID to context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID adds user ID to context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithTraceID adds trace ID to context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error creates an error field.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any creates a field with any value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

var (
	globalMu sync.RWMutex
	global   = Default()
)

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// L returns the global logger.
func L() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return New(&Config{Level: FatalLevel, Output: io.Discard, Format: FormatJSON})
}
