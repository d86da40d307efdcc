// Package logger wraps the zap logger shared by the server and client.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the process-wide zap logger. Log is a no-op logger until
// Init or InitFile succeeds.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger with a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production JSON logger writing to stderr at level.
func (l *Logger) Init(level string) error {
	return l.build(level, "stderr")
}

// InitFile is like Init but writes to path. The client uses it because
// the terminal belongs to the UI.
func (l *Logger) InitFile(level, path string) error {
	if path == "" {
		return fmt.Errorf("empty log path")
	}
	return l.build(level, path)
}

func (l *Logger) build(level, output string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = zl
	return nil
}
