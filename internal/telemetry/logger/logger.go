// Package logger configures the process-wide structured logger. It
// supports console output plus optional rotated file output, mirroring
// this pack's usual split between a human-readable console encoder and a
// JSON file encoder fed through a size/age-bounded rotator.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/devraj-k/bytekv/internal/bytekverr"
)

// Config controls logger construction.
type Config struct {
	Level string // "debug", "info", "warn", "error"

	// FilePath, if non-empty, enables rotated file logging in addition
	// to console output.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a *zap.Logger from cfg and a closer that flushes and
// releases its resources. Callers should defer closer() at startup.
func New(cfg Config) (*zap.Logger, func() error, error) {
	level := parseLevel(cfg.Level)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	}

	var rotator *lumberjack.Logger
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o750); err != nil {
			return nil, nil, bytekverr.Wrap(err, bytekverr.CodeLoggingFailed, "failed to create log directory")
		}
		rotator = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    defaultInt(cfg.MaxSizeMB, 100),
			MaxBackups: defaultInt(cfg.MaxBackups, 5),
			MaxAge:     defaultInt(cfg.MaxAgeDays, 28),
			Compress:   true,
		}
		jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), level))
	}

	core := zapcore.NewTee(cores...)
	logger := zap.New(core, zap.AddCaller())

	closer := func() error {
		syncErr := logger.Sync()
		if rotator != nil {
			if err := rotator.Close(); err != nil {
				return bytekverr.Wrap(err, bytekverr.CodeLoggingFailed, "failed to close log file")
			}
		}
		if syncErr != nil && !isBenignSyncError(syncErr) {
			return bytekverr.Wrap(syncErr, bytekverr.CodeLoggingFailed, "failed to sync logger")
		}
		return nil
	}

	return logger, closer, nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func defaultInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// isBenignSyncError filters the "invalid argument" / "inappropriate
// ioctl for device" errors zap's Sync reliably returns for os.Stdout on
// some platforms; they don't indicate a real logging failure.
func isBenignSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}
