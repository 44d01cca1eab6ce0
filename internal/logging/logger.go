// Package logging holds the process-wide zap logger.
//
// Library code logs through Logger, which is a no-op until Init is called, so
// embedding the converter stays silent unless the host opts in.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the shared logger. It is replaced by Init and is never nil.
var Logger = zap.NewNop()

// Init builds the logger for mode. "release" selects zap's production JSON
// config; anything else a development console config with colored levels.
func Init(mode string) error {
	logger, err := New(mode)
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

// New builds a logger for mode without installing it.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	// stdout carries converter output in server mode.
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// Sync flushes any buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
