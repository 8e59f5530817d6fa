package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(Config{Level: tt.level, Format: FormatJSON})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestTraceHook(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(Config{Level: "info", Format: FormatJSON}, &buf)

	ctx := ContextWithTraceID(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	logger.Info().Ctx(ctx).Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "01HZZZZZZZZZZZZZZZZZZZZZZZ", entry[TraceIDField])
	assert.Equal(t, "hello", entry["message"])

	buf.Reset()
	logger.Info().Msg("no trace")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, ok := entry[TraceIDField]
	assert.False(t, ok)
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(Config{Format: FormatJSON}, &buf)

	web := ComponentLogger(base, "web")
	web.Info().Msg("started")
	assert.Contains(t, buf.String(), `"component":"web"`)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())

	var buf bytes.Buffer
	logger := newLogger(Config{Format: FormatJSON}, &buf)
	ctx := logger.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestTraceIDs(t *testing.T) {
	id := GenerateTraceID()
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, GenerateTraceID())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx := ContextWithTraceID(context.Background(), id)
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
	assert.NotEmpty(t, GetOrGenerateTraceID(context.Background()))
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "usertable.log")
		result := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})
		require.True(t, result.UsingFile)
		assert.False(t, result.FallbackUsed)

		result.Logger.Info().Msg("written")
		require.NoError(t, result.Close())
		require.NoError(t, result.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "written")
	})

	t.Run("Fallback", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		result := NewLoggerWithPath(Config{Output: OutputFile, File: filepath.Join(blocker, "x.log")})
		assert.False(t, result.UsingFile)
		assert.True(t, result.FallbackUsed)
		assert.NotEmpty(t, result.FallbackReason)
		assert.NoError(t, result.Close())
	})

	t.Run("Stderr", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Output: OutputStderr})
		assert.False(t, result.UsingFile)
		assert.False(t, result.FallbackUsed)
	})
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/u.log")
	PrintFallbackWarning(&buf, "opening log file: denied")
	assert.Equal(t, "Logging to /tmp/u.log\nWarning: opening log file: denied; logging to stderr\n", buf.String())
}
