// Package logging provides the structured logger that cmd/heartbeat
// builds and hands to the orchestrator. Most other packages keep the
// teacher repo's plain log.Printf style; this wrapper exists only
// where cycle/step telemetry benefits from structured fields.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-profile zap.Logger writing JSON to stdout,
// or a development-profile console logger when dev is true.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	return zap.NewProduction()
}

// Cycle returns a child logger scoped to one heartbeat cycle.
func Cycle(base *zap.Logger, cycleID string) *zap.Logger {
	return base.With(zap.String("cycle_id", cycleID))
}
