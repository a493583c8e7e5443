// Package logging builds the zap logger used by the CLI.
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/sep-scraper/pkg/types"
)

// New returns a console logger writing to w at the named level
// (debug, info, warn, error). Unknown levels fall back to warn so a normal
// run prints only problems.
func New(w io.Writer, level string) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core)
}

// ParseLevel converts a level name to a zapcore.Level.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Warnings logs each extraction warning at warn level.
func Warnings(log *zap.Logger, url string, warnings []types.Warning) {
	for _, w := range warnings {
		log.Warn(w.Message, zap.String("component", w.Component), zap.String("url", url))
	}
}

