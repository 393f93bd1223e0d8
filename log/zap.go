package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around zap.Logger so the rest of the code
// doesn't import zap directly.
type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

type (
	Field = zap.Field
	Level = zapcore.Level
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// field helpers
var (
	String     = zap.String
	Int        = zap.Int
	Int64      = zap.Int64
	Bool       = zap.Bool
	Float32    = zap.Float32
	Float64    = zap.Float64
	Time       = zap.Time
	Duration   = zap.Duration
	Any        = zap.Any
	ErrorField = zap.Error
)

var std = New("console", InfoLevel)

func Default() *Logger { return std }

// ResetDefault replaces the package level logger.
func ResetDefault(l *Logger) {
	std = l
}

func ParseLevel(arg string) (Level, error) {
	return zapcore.ParseLevel(arg)
}

// New creates a logger writing to stderr.
// format is either "json" or "console".
func New(format string, level Level) *Logger {
	atom := zap.NewAtomicLevelAt(level)
	var enc zapcore.Encoder
	if format == "json" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), atom)
	return &Logger{
		l:     zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		level: atom,
	}
}

// InitDefault configures the package level logger from config values.
func InitDefault(levelArg, format string) (*Logger, error) {
	level, err := ParseLevel(levelArg)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelArg, err)
	}
	l := New(format, level)
	ResetDefault(l)
	return l, nil
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) SetLevel(level Level)              { l.level.SetLevel(level) }
func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Sync() error                       { return l.l.Sync() }

func Debug(msg string, fields ...Field) { std.l.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { std.l.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { std.l.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { std.l.Error(msg, fields...) }
func Sync() error                       { return std.l.Sync() }
