// Package logger wires a zap logger for the whole service.  Production mode
// emits JSON; anything else gets the human-readable development encoder.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init builds the global logger for the given environment.  Call once from
// main before anything logs.
func Init(env string) {
	var err error
	if env == "prod" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log, err = cfg.Build()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
}

// Get returns the global logger, falling back to a no-op logger so library
// code and tests never nil-panic when Init was not called.
func Get() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Sugar returns the sugared variant for printf-style call sites such as the
// broker reconnect loop.
func Sugar() *zap.SugaredLogger {
	return Get().Sugar()
}
