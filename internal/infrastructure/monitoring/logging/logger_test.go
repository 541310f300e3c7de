package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_EmptyOutputPathsRejected(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestZapLogger_FieldTranslation(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Info("universe created",
		String("universe_id", "u-1"),
		Int("precincts", 5),
		Float64("score", 0.91),
		Duration("elapsed", 2*time.Millisecond),
		Field{Key: "ids", Value: []string{"P1", "P2"}},
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "u-1", ctx["universe_id"])
	assert.EqualValues(t, 5, ctx["precincts"])
	assert.Equal(t, 0.91, ctx["score"])
	assert.Equal(t, 2*time.Millisecond, ctx["elapsed"])
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	l, logs := newObservedLogger(zapcore.WarnLevel)
	l.Debug("skip")
	l.Info("skip")
	l.Warn("keep")
	l.Error("keep")
	assert.Equal(t, 2, logs.Len())
}

func TestZapLogger_With(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	child := l.With(String("component", "lookalike"), Err(errors.New("singular covariance")))
	child.Warn("fallback")

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "lookalike", ctx["component"])
	assert.Equal(t, "singular covariance", ctx["error"])
}

func TestZapLogger_Named(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)
	l.Named("canvassing").Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "canvassing", logs.All()[0].LoggerName)
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
	assert.Equal(t, "boom", Err(errors.New("boom")).Value)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("x")
	assert.Equal(t, l, l.With(String("a", "b")))
	assert.Equal(t, l, l.Named("n"))
	assert.NoError(t, l.Sync())
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	SetDefault(nil)
	assert.Equal(t, original, Default())

	l, _ := newObservedLogger(zapcore.InfoLevel)
	SetDefault(l)
	assert.Equal(t, l, Default())
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l, _ := newObservedLogger(zapcore.InfoLevel)
	assert.Equal(t, l, OrNop(l))
}

//Personal.AI order the ending
