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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Error, ParseLevel(" error "))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("logfmt"))
}

func TestZapLogger_WithAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	child := l.With(map[string]any{"component": "specimens"})
	child.Warn("record left unresolved", map[string]any{
		"store": "molt",
		"":      "ignored",
		"err":   errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "record left unresolved", e.Message)

	ctx := e.ContextMap()
	assert.Equal(t, "specimens", ctx["component"])
	assert.Equal(t, "molt", ctx["store"])
	assert.Equal(t, "boom", ctx["err"])
	_, hasEmpty := ctx[""]
	assert.False(t, hasEmpty)
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core))

	l.Debug("hidden", nil)
	l.Info("shown", nil)
	l.Error("also shown", map[string]any{"n": 1})

	assert.Equal(t, 2, logs.Len())
}

func TestNew_BuildsBothFormats(t *testing.T) {
	for _, f := range []Format{FormatText, FormatJSON} {
		l, err := New(Options{Level: Info, Format: f, App: "tarantula-log"})
		require.NoError(t, err)
		require.NotNil(t, l.Zap())
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.With(map[string]any{"a": 1}).Info("nothing", nil)
}
