package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapAdapter(zap.New(core)), logs
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestLogger_Fields(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.WithFields(map[string]interface{}{"sessionId": "abc"}).
		Info("advanced", map[string]interface{}{"to": "Step2", "from": "Step1"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "advanced", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "abc", ctx["sessionId"])
	assert.Equal(t, "Step1", ctx["from"])
	assert.Equal(t, "Step2", ctx["to"])
}

func TestLogger_WithError(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	log.WithError(errors.New("redis down")).Error("save failed", nil)
	log.Warn("store error", map[string]interface{}{"cause": errors.New("timeout")})

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "redis down", logs.All()[0].ContextMap()["error"])
	assert.Equal(t, "timeout", logs.All()[1].ContextMap()["cause"])
}

func TestLogger_LevelFilter(t *testing.T) {
	log, logs := observed(zapcore.WarnLevel)

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.With(map[string]interface{}{"k": 1}).Warn("shown", nil)

	assert.Equal(t, 1, logs.FilterMessage("shown").Len())
	assert.Equal(t, 0, logs.FilterMessage("hidden").Len())
}

func TestConstructors(t *testing.T) {
	assert.NotNil(t, NewStructured("debug", "console"))
	assert.NotNil(t, NewNoOpLogger())
	NewTestLogger(t).Info("from test logger", map[string]interface{}{"ok": true})
}
