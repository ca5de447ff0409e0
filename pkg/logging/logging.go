// Package logging builds the application logger: an ectologger front backed
// by a zap sink.
package logging

import (
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
)

// New constructs the service logger. Pretty mode uses zap's development
// encoder for local runs; otherwise log lines go out as production JSON.
func New(pretty bool) (ectologger.Logger, func()) {
	var zapLogger *zap.Logger
	if pretty {
		zapLogger, _ = zap.NewDevelopment()
	} else {
		zapLogger, _ = zap.NewProduction()
	}

	return NewWithZap(zapLogger), func() { _ = zapLogger.Sync() }
}

// NewWithZap wraps an existing zap logger. Each message is logged at its own
// level, so zap's level filtering applies to warnings and errors the same as
// to everything else.
func NewWithZap(zapLogger *zap.Logger) ectologger.Logger {
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// NewNop returns a logger that discards everything; used in tests.
func NewNop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}
