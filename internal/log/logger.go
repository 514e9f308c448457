// Package log builds the structured logger used across examcoach.
// The TUI owns the terminal, so records go to a rotating JSON file only.
package log

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/examcoach/examcoach/internal/config"
)

// Event names attached to log records under the "event" key.
const (
	EventRequestStarted  = "request_started"
	EventRequestFinished = "request_finished"
	EventOperationBegin  = "operation_begin"
	EventOperationEnd    = "operation_end"
	EventPanelActivated  = "panel_activated"
	EventChartBound      = "chart_bound"
	EventChartDisposed   = "chart_disposed"
)

// Event returns the zap field naming a log event.
func Event(name string) zap.Field {
	return zap.String("event", name)
}

// New creates a logger writing JSON lines to cfg.LogPath(), rotated by
// lumberjack. Creates the data directory if it does not already exist.
func New(cfg *config.Config) (*zap.Logger, error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Log.Level, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   true,
	})

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}

// Nop returns a logger that discards everything. Used by tests and when
// the log file cannot be opened.
func Nop() *zap.Logger {
	return zap.NewNop()
}
