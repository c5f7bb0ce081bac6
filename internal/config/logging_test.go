package config

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{env: "debug", want: log.DebugLevel},
		{env: "warn", want: log.WarnLevel},
		{env: "loud", want: log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(LogLevelEnv, tt.env)
			assert.Equal(t, tt.want, NewLogger(&bytes.Buffer{}, "test").GetLevel())
		})
	}
}

func TestNewLoggerWritesPrefix(t *testing.T) {
	t.Setenv(LogLevelEnv, "info")
	var out bytes.Buffer

	NewLogger(&out, "crossing").Info("started", "port", 8080)

	assert.Contains(t, out.String(), "crossing")
	assert.Contains(t, out.String(), "started")
	assert.Contains(t, out.String(), "port=8080")
}
