package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Level(t *testing.T) {
	logger := New("debug")
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger = New("warn")
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := New("chatty")

	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestInit_ReplacesGlobals(t *testing.T) {
	logger, restore := Init("error")

	assert.Same(t, logger, zap.L())
	restore()
	assert.NotSame(t, logger, zap.L())
}
