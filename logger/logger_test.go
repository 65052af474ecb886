package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNewLogger(t *testing.T) {
	log, err := New("debug", true)
	require.NoError(t, err)

	child := log.With(String("component", "test"))
	child.Info("hello", Int("n", 1), Error(errors.New("boom")))
	assert.NotNil(t, child)
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Error("ignored")
	assert.Equal(t, log, log.With(Bool("x", true)))
	assert.NoError(t, log.Sync())
}
