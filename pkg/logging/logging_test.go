package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWithZap_PreservesLevels(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewWithZap(zap.New(core))

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	entries := observed.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNewWithZap_LevelFiltering(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	logger := NewWithZap(zap.New(core))

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestNewWithZap_FieldsAndError(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewWithZap(zap.New(core))

	logger.WithFields(map[string]any{"source": "crm"}).WithError(errors.New("boom")).Error("failed")

	entries := observed.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "crm", fields["source"])
	assert.Equal(t, "boom", fields["error"])
}
