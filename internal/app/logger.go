package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"courier/internal/config"
)

// NewLogger builds a JSON logger in production and a colored console logger otherwise.
func NewLogger(cfg config.ServerConfig) (*zap.Logger, error) {
	var zc zap.Config

	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return zc.Build()
}
