// Package loggertest provides loggers for tests.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/ajharbinger/lotpilot/internal/logger"
)

// New creates a Logger that writes through testing.TB
func New(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
