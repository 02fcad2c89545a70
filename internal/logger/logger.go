package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var std *zap.SugaredLogger

// Init builds the global logger. When path is non-empty the log is written
// there (parent directories are created); otherwise it goes to stderr.
func Init(path string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if path != "" {
		if err := ensureParentDir(path); err != nil {
			return err
		}
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	log, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return err
	}
	std = log.Sugar()
	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	if std != nil {
		_ = std.Sync()
	}
}

// Infof logs informational messages.
func Infof(format string, args ...any) { get().Infof(format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { get().Warnf(format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { get().Errorf(format, args...) }

func get() *zap.SugaredLogger {
	if std == nil {
		// Fallback for code paths that log before Init (mostly tests).
		_ = Init("")
	}
	return std
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
