package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf))

	log.With("component", "tasks").Info(context.Background(), "task created", "task_id", "t-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "task created", line["message"])
	assert.Equal(t, "tasks", line["component"])
	assert.Equal(t, "t-1", line["task_id"])
}

func TestZerologLogger_OddArgs(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf))

	log.Warn(context.Background(), "odd", "dangling")

	assert.Contains(t, buf.String(), `"!BADKEY":"dangling"`)
}

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer
	New("info", FormatJSON, &buf).Info(context.Background(), "hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	New("error", FormatText, &buf).Info(context.Background(), "dropped")
	assert.Empty(t, buf.String())

	buf.Reset()
	New("debug", FormatConsole, &buf).Debug(context.Background(), "console line")
	assert.Contains(t, buf.String(), "console line")
}
