// Package logger builds the zap loggers used across docvet. Logs go to stderr
// so that validation reports on stdout stay machine-consumable.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"docvet/internal/config"
)

// Format names accepted in log.format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Component names for named loggers.
const (
	ComponentCLI       = "cli"
	ComponentRunner    = "runner"
	ComponentServer    = "server"
	ComponentStore     = "store"
	ComponentNotifier  = "notifier"
	ComponentPackager  = "packager"
	ComponentLocalizer = "localizer"
	ComponentSeeder    = "seeder"
	ComponentWatcher   = "watcher"
)

var mu sync.Mutex

func levelOf(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05 MST"))
}

func encoderFor(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if strings.ToLower(format) == FormatJSON {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = timeEncoder
	encoderConfig.ConsoleSeparator = " | "
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// New builds a logger writing to w. When cfg.File is set, entries are also
// written as JSON to a size-rotated file.
func New(cfg config.LogConfig, w io.Writer) *zap.Logger {
	level := zap.NewAtomicLevelAt(levelOf(cfg.Level))
	cores := []zapcore.Core{
		zapcore.NewCore(encoderFor(cfg.Format), zapcore.AddSync(w), level),
	}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(encoderFor(FormatJSON), zapcore.AddSync(rotator), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// Initialize replaces the global zap loggers with one built from cfg.
func Initialize(cfg config.LogConfig) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := New(cfg, os.Stderr)
	zap.ReplaceGlobals(l)
	return l
}

// For returns a named sugared logger for a component.
func For(component string) *zap.SugaredLogger {
	return zap.S().Named(component)
}

// Sync flushes buffered entries of the global logger.
func Sync() {
	_ = zap.L().Sync()
}
