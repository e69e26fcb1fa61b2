package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"development", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"production", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestGet_BeforeInit(t *testing.T) {
	l := Get()
	require.NotNil(t, l)
	l.Info("no-op logger accepts writes", zap.String("k", "v"))
}

func TestInit(t *testing.T) {
	err := Init(&Config{Level: "info", ServiceName: "dispatch-test"})
	require.NoError(t, err)

	l := Get()
	assert.Equal(t, "dispatch-test", l.ServiceName())
	assert.Equal(t, "dispatch-test", l.Named("roster").ServiceName())
	Sync()
}
