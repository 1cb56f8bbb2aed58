package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.name), "level %q", tt.name)
	}
}

func TestInitConsoleLoggerVerbosity(t *testing.T) {
	quiet, err := InitConsoleLogger(false, true)
	require.NoError(t, err)
	assert.Nil(t, quiet.Check(zapcore.DebugLevel, "msg"))
	assert.NotNil(t, quiet.Check(zapcore.InfoLevel, "msg"))

	verbose, err := InitConsoleLogger(true, true)
	require.NoError(t, err)
	assert.NotNil(t, verbose.Check(zapcore.DebugLevel, "msg"))
}
