// Package log builds the logr.Logger used across symmirror, backed by zap.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stderr selects standard error as the log destination.
const Stderr = "-"

// New returns a logger writing to dest: Stderr, a file path opened for
// append, or nowhere when dest is empty. Verbose enables V(1) messages.
// The returned close function flushes and releases the destination.
func New(dest string, verbose bool) (logr.Logger, func() error, error) {
	switch dest {
	case "":
		return logr.Discard(), func() error { return nil }, nil
	case Stderr:
		logger, sync := NewWithWriter(os.Stderr, verbose)
		return logger, sync, nil
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("open log file %s: %w", dest, err)
	}
	logger, sync := NewWithWriter(f, verbose)
	return logger, func() error {
		_ = sync()
		return f.Close()
	}, nil
}

// NewWithWriter returns a console-encoded logger writing to w.
func NewWithWriter(w io.Writer, verbose bool) (logr.Logger, func() error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	zl := zap.New(core)
	return zapr.NewLogger(zl), zl.Sync
}
