package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_LevelFromStatus(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, time.UTC)

	l.Log(map[string]any{"event": "step", "status": "success"})
	l.Log(map[string]any{"event": "step", "status": "error"})
	l.Log(map[string]any{"event": "step", "level": "debug"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "debug", lines[2]["level"])
	for _, line := range lines {
		_, err := time.Parse(time.RFC3339Nano, line["ts"].(string))
		assert.NoError(t, err)
	}
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)

	l.Info("started", map[string]any{"port": "8000"})
	l.Warn("slow", nil)
	l.Error("failed", errors.New("boom"), map[string]any{"component": "queue"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "started", lines[0]["msg"])
	assert.Equal(t, "8000", lines[0]["port"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "error", lines[2]["level"])
	assert.Equal(t, "boom", lines[2]["error"])
	assert.Equal(t, "queue", lines[2]["component"])
	assert.Equal(t, time.UTC, l.Location())
}
