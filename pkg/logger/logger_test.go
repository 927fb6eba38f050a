package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) Logger {
	return NewWithConfig(Config{
		Name:   "test",
		Format: FormatJSON,
		Level:  slog.LevelDebug,
		Writer: buf,
	})
}

func TestErrReturnsOriginalError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	original := errors.New("boom")
	returned := log.Err("operation failed", original, "key", "value")

	assert.Equal(t, original, returned)
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestErrorWithTypeWrapsSentinel(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	sentinel := errors.New("validation error")
	err := log.ErrorWithType(sentinel, "bad input", "field", "lapCount")

	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
	assert.Contains(t, err.Error(), "bad input")
}

func TestChainedAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.Function("TestFn").File("test_file").Info("hello", "count", 3)

	var entry map[string]any
	line := strings.TrimSpace(buf.String())
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "TestFn", entry["function"])
	assert.Equal(t, "test_file", entry["file"])
	assert.Equal(t, "test", entry["package"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestTraceFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	ctx := ContextWithTraceID(context.Background(), "trace-123")
	log.TraceFromContext(ctx).Info("traced")

	assert.Contains(t, buf.String(), "trace-123")

	buf.Reset()
	log.TraceFromContext(context.Background()).Info("untraced")
	assert.NotContains(t, buf.String(), "traceID")
}
