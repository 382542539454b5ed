package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_StructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.Info("analysis complete", "vehicle_id", "abc", "action", "HOLD")
	log.Error("save failed", errors.New("boom"), "vehicle_id", "abc")
	log.With("component", "pipeline").Warn("slow run")

	entries := logs.All()
	assert.Len(t, entries, 3)

	assert.Equal(t, "analysis complete", entries[0].Message)
	assert.Equal(t, "HOLD", entries[0].ContextMap()["action"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, "pipeline", entries[2].ContextMap()["component"])
}

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		for _, format := range []string{"json", "console"} {
			assert.NotNil(t, New(level, format))
		}
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("discarded", "k", 1)
	assert.NoError(t, log.Sync())
}
