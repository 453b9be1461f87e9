package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("creates with default config", func(t *testing.T) {
		l := New(nil)
		assert.NotNil(t, l)
		assert.NotNil(t, l.Logger)
	})

	t.Run("creates with custom config", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cfg := &Config{
			Level:  "debug",
			Format: "json",
			Output: buf,
		}
		l := New(cfg)
		assert.NotNil(t, l)

		l.Info("test message")
		assert.Contains(t, buf.String(), "test message")
	})

	t.Run("creates text format logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cfg := &Config{
			Level:  "info",
			Format: "text",
			Output: buf,
		}
		l := New(cfg)

		l.Info("test message")
		output := buf.String()
		assert.Contains(t, output, "test message")
		// Text format should not be JSON
		assert.False(t, strings.HasPrefix(output, "{"))
	})
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		logFunc func(*Logger, string)
	}{
		{"debug", func(l *Logger, msg string) { l.Debug(msg) }},
		{"info", func(l *Logger, msg string) { l.Info(msg) }},
		{"warn", func(l *Logger, msg string) { l.Warn(msg) }},
		{"error", func(l *Logger, msg string) { l.Error(msg) }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := New(&Config{
				Level:  tt.level,
				Format: "json",
				Output: buf,
			})

			tt.logFunc(l, "test")
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "info", Format: "json", Output: buf})

	l.With(String("feature", "summary")).Info("recorded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "summary", entry["feature"])
	assert.Equal(t, "recorded", entry["msg"])
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(&Config{Level: "info", Format: "json", Output: buf})
		ctx := ContextWithLogger(context.Background(), l)

		FromContext(ctx).Info("from context")
		assert.Contains(t, buf.String(), "from context")
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger(&Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)

	// Unknown level falls back to info instead of failing
	l, err = NewZapLogger(&Config{Level: "bogus", Format: "text"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}
