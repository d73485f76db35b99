package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

func newObserved(level zap.AtomicLevel) (*ZapLogger, *observer.ObservedLogs) {
	zcore, logs := observer.New(level)
	return &ZapLogger{logger: zap.New(zcore), level: level}, logs
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	l, logs := newObserved(zap.NewAtomicLevelAt(zap.InfoLevel))

	l.Debug("hidden", nil)
	l.Info("credited", map[string]any{"user_id": "u1", "amount": int64(15)})
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "credited", entry.Message)
	assert.Equal(t, "u1", entry.ContextMap()["user_id"])
	assert.Equal(t, int64(15), entry.ContextMap()["amount"])

	l.SetLevel(core.LogLevelError)
	assert.Equal(t, core.LogLevelError, l.GetLevel())
	l.Warn("hidden", nil)
	l.Error("visible", nil)
	assert.Equal(t, 2, logs.Len())

	l.SetLevel(core.LogLevelDebug)
	l.Debug("now visible", nil)
	assert.Equal(t, 3, logs.Len())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    core.LogLevel
		wantErr bool
	}{
		{in: "debug", want: core.LogLevelDebug},
		{in: "INFO", want: core.LogLevelInfo},
		{in: "", want: core.LogLevelInfo},
		{in: "warning", want: core.LogLevelWarn},
		{in: "error", want: core.LogLevelError},
		{in: "loud", want: core.LogLevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevelRoundTrip(t *testing.T) {
	for _, level := range []core.LogLevel{core.LogLevelDebug, core.LogLevelInfo, core.LogLevelWarn, core.LogLevelError} {
		got, err := ParseLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, got)
	}
	assert.Equal(t, "unknown", core.LogLevel(42).String())
}

func TestNewZapLoggerWithOptions(t *testing.T) {
	l, err := NewZapLoggerWithOptions(Options{Level: "warn", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelWarn, l.GetLevel())

	_, err = NewZapLoggerWithOptions(Options{Level: "verbose"})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("dropped", map[string]any{"k": "v"})
	assert.NoError(t, l.Flush())
}
