// File: internal/platform/logger/zap.go
package logger

import (
	"strings"

	"bridgex_waitlist/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects how a logger is built.
type Options struct {
	Level string
	// Format is "json" or "console".
	Format string
	// Production switches to zap's production defaults.
	Production bool
}

// New initializes the server's Zap logger from the application configuration.
func New(cfg *config.Config) (*zap.Logger, error) {
	return NewWithOptions(Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Production: cfg.GinMode == "release",
	})
}

// NewWithOptions builds a logger without a full server config. The CLI uses it.
func NewWithOptions(opts Options) (*zap.Logger, error) {
	var zapConfig zap.Config
	if opts.Production {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	if strings.ToLower(opts.Format) == "json" {
		zapConfig.Encoding = "json"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	} else {
		zapConfig.Encoding = "console"
	}

	return zapConfig.Build()
}

// ParseLevel maps a level name to a zap level. Unknown names give info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	}
	return zapcore.InfoLevel
}
